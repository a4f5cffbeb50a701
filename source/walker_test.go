package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/elemstage/elemstage/cache"
	"github.com/elemstage/elemstage/element"
	"github.com/elemstage/elemstage/matching"
	"github.com/elemstage/elemstage/matching/option"
	"github.com/elemstage/elemstage/partition"
)

func TestWalker_Collect(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("Document Title\n\nThis is a narrative paragraph with enough words."), 0644); err != nil {
		t.Fatalf("write a.txt: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatalf("mkdir sub: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "b.md"), []byte("# Heading\n\nBody text under the heading."), 0644); err != nil {
		t.Fatalf("write b.md: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "skip.log"), []byte("noise"), 0644); err != nil {
		t.Fatalf("write skip.log: %v", err)
	}

	matcher := matching.New(option.WithExclusionPatterns("*.log"))
	walker := NewWalker(matcher, partition.NewFactory())
	entries := cache.NewMap[string, Entry]()

	elements, err := walker.Collect(context.Background(), dir, entries)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(elements) == 0 {
		t.Fatal("expected elements from walked documents")
	}
	filenames := map[string]bool{}
	for _, elem := range elements {
		filenames[elem.Metadata.String(element.MetaFilename)] = true
	}
	if !filenames["a.txt"] || !filenames["b.md"] {
		t.Fatalf("expected elements from a.txt and b.md, got %v", filenames)
	}
	if filenames["skip.log"] {
		t.Fatal("excluded file should not be partitioned")
	}
	if entries.Size() != 2 {
		t.Fatalf("expected 2 cache entries, got %d", entries.Size())
	}
}

func TestWalker_CollectSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("Stable Title\n\nStable body text for the cache check."), 0644); err != nil {
		t.Fatalf("write doc.txt: %v", err)
	}

	walker := NewWalker(matching.New(), partition.NewFactory())
	entries := cache.NewMap[string, Entry]()
	ctx := context.Background()

	if _, err := walker.Collect(ctx, dir, entries); err != nil {
		t.Fatalf("first collect: %v", err)
	}
	if entries.Size() != 1 {
		t.Fatalf("expected 1 cache entry, got %d", entries.Size())
	}

	// mark the cached entry; an unchanged file must be served from cache
	sentinel := element.Elements{element.New(element.Title, "cached sentinel", nil)}
	for _, key := range entries.Keys() {
		entry, _ := entries.Get(key)
		entry.Elements = sentinel
	}
	elements, err := walker.Collect(ctx, dir, entries)
	if err != nil {
		t.Fatalf("second collect: %v", err)
	}
	if len(elements) != 1 || elements[0].Text != "cached sentinel" {
		t.Fatal("expected cached elements for unchanged document")
	}

	// changed content must be re-partitioned
	if err := os.WriteFile(path, []byte("Changed Title\n\nChanged body text after an update."), 0644); err != nil {
		t.Fatalf("rewrite doc.txt: %v", err)
	}
	elements, err = walker.Collect(ctx, dir, entries)
	if err != nil {
		t.Fatalf("third collect: %v", err)
	}
	for _, elem := range elements {
		if elem.Text == "cached sentinel" {
			t.Fatal("changed document should not be served from cache")
		}
	}
}
