package sqlstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/elemstage/elemstage/element"
	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	store, err := New(ctx, "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func TestStore_LoadAndQuery(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	elements := element.Elements{
		element.New(element.Title, "Annual Report", element.Metadata{element.MetaFilename: "report.pdf", element.MetaPageNumber: 1}),
		element.New(element.NarrativeText, "Revenue grew.", element.Metadata{element.MetaFilename: "report.pdf", element.MetaPageNumber: 2}),
		element.New(element.NarrativeText, "All present.", element.Metadata{element.MetaFilename: "minutes.txt"}),
	}
	count, err := store.Load(ctx, elements)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 inserted, got %d", count)
	}

	rows, err := store.Query(ctx, QueryRequest{Category: "NarrativeText"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 narrative rows, got %d", len(rows))
	}

	rows, err = store.Query(ctx, QueryRequest{Filename: "report.pdf"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 report.pdf rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row["filename"] != "report.pdf" {
			t.Errorf("unexpected row: %v", row)
		}
	}

	rows, err = store.Query(ctx, QueryRequest{Category: "Title"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 1 || rows[0]["page_number"] != 1 {
		t.Fatalf("unexpected title rows: %v", rows)
	}

	total, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 rows, got %d", total)
	}
}

func TestStore_LoadChunksLargeBatches(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	total := insertBatchSize*2 + 17
	elements := make(element.Elements, 0, total)
	for i := 0; i < total; i++ {
		elements = append(elements, element.New(element.NarrativeText,
			fmt.Sprintf("paragraph %d", i),
			element.Metadata{element.MetaFilename: "large.txt"}))
	}
	count, err := store.Load(ctx, elements)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if count != total {
		t.Fatalf("expected %d inserted, got %d", total, count)
	}
	stored, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if stored != total {
		t.Fatalf("expected %d rows, got %d", total, stored)
	}
}

func TestWithSQLitePragmas(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{dsn: "", want: ""},
		{dsn: ":memory:", want: ":memory:"},
		{dsn: "file::memory:?cache=shared", want: "file::memory:?cache=shared"},
		{dsn: "elements.db", want: "elements.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"},
		{dsn: "elements.db?_pragma=journal_mode(WAL)", want: "elements.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"},
		{dsn: "elements.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(100)", want: "elements.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(100)"},
	}
	for _, tc := range tests {
		if got := withSQLitePragmas(tc.dsn); got != tc.want {
			t.Errorf("withSQLitePragmas(%q) = %q, want %q", tc.dsn, got, tc.want)
		}
	}
}

func TestStore_LoadEmpty(t *testing.T) {
	store := newTestStore(t)
	count, err := store.Load(context.Background(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0, got %d", count)
	}
}

func TestDetectDriver(t *testing.T) {
	tests := []struct {
		dsn    string
		driver string
		ok     bool
	}{
		{dsn: "postgres://user@host/db", driver: "postgres", ok: true},
		{dsn: "user:pass@tcp(localhost:3306)/db", driver: "mysql", ok: true},
		{dsn: "bigquery://project/dataset", driver: "bigquery", ok: true},
		{dsn: "elements.db", driver: "sqlite", ok: true},
		{dsn: ":memory:", driver: "sqlite", ok: true},
		{dsn: "unknown", ok: false},
	}
	for _, tc := range tests {
		driver, ok := DetectDriver(tc.dsn)
		if ok != tc.ok || driver != tc.driver {
			t.Errorf("DetectDriver(%q) = %q,%v want %q,%v", tc.dsn, driver, ok, tc.driver, tc.ok)
		}
	}
}
