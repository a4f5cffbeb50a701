package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/elemstage/elemstage/cache"
	"github.com/elemstage/elemstage/element"
	"github.com/elemstage/elemstage/matching"
	"github.com/elemstage/elemstage/partition"
)

func TestEntriesRoundTrip(t *testing.T) {
	entries := cache.NewMap[string, Entry]()
	entries.Set("/docs/a.txt", &Entry{
		Location: "/docs/a.txt",
		Hash:     42,
		ModTime:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Elements: element.Elements{
			element.New(element.Title, "Quarterly Review", element.Metadata{element.MetaFilename: "a.txt"}),
			element.New(element.NarrativeText, "Revenue grew.", element.Metadata{element.MetaFilename: "a.txt"}),
		},
	})
	entries.Set("/docs/b.txt", &Entry{
		Location: "/docs/b.txt",
		Hash:     7,
		ModTime:  time.Now().UTC(),
		Elements: nil,
	})

	path := filepath.Join(t.TempDir(), "cache", "entries.bin")
	if err := SaveEntries(path, entries); err != nil {
		t.Fatalf("SaveEntries: %v", err)
	}

	loaded, err := LoadEntries(path)
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	if loaded.Size() != 2 {
		t.Fatalf("expected 2 entries, got %d", loaded.Size())
	}
	entry, ok := loaded.Get("/docs/a.txt")
	if !ok {
		t.Fatal("expected /docs/a.txt entry")
	}
	if entry.Hash != 42 || len(entry.Elements) != 2 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Elements[0].Category != element.Title || entry.Elements[0].Text != "Quarterly Review" {
		t.Fatalf("unexpected first element: %+v", entry.Elements[0])
	}
	if entry.Elements[1].Metadata.String(element.MetaFilename) != "a.txt" {
		t.Fatalf("metadata lost: %+v", entry.Elements[1])
	}
}

func TestLoadEntriesMissingFile(t *testing.T) {
	entries, err := LoadEntries(filepath.Join(t.TempDir(), "absent.bin"))
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	if entries.Size() != 0 {
		t.Fatalf("expected empty cache, got %d entries", entries.Size())
	}
}

func TestWalker_CollectWithPersistedCache(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "doc.txt"), []byte("Stable Title\n\nStable body text for the cache check."), 0644); err != nil {
		t.Fatalf("write doc.txt: %v", err)
	}

	walker := NewWalker(matching.New(), partition.NewFactory())
	ctx := context.Background()

	entries := cache.NewMap[string, Entry]()
	if _, err := walker.Collect(ctx, dir, entries); err != nil {
		t.Fatalf("first collect: %v", err)
	}
	cachePath := filepath.Join(t.TempDir(), "entries.bin")
	if err := SaveEntries(cachePath, entries); err != nil {
		t.Fatalf("SaveEntries: %v", err)
	}

	// a fresh process loads the cache and serves unchanged documents from it
	restored, err := LoadEntries(cachePath)
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	sentinel := element.Elements{element.New(element.Title, "cached sentinel", nil)}
	for _, key := range restored.Keys() {
		entry, _ := restored.Get(key)
		entry.Elements = sentinel
	}
	elements, err := walker.Collect(ctx, dir, restored)
	if err != nil {
		t.Fatalf("collect with restored cache: %v", err)
	}
	if len(elements) != 1 || elements[0].Text != "cached sentinel" {
		t.Fatal("expected unchanged document to be served from the restored cache")
	}
}
