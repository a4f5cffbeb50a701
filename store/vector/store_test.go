package vector

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/elemstage/elemstage/element"
)

type stubEmbedder struct {
	calls int
}

func (s *stubEmbedder) EmbedDocuments(ctx context.Context, docs []string) ([][]float32, error) {
	s.calls++
	out := make([][]float32, len(docs))
	for i, doc := range docs {
		out[i] = []float32{float32(len(doc)), 1, 0}
	}
	return out, nil
}

func (s *stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1, 0}, nil
}

func TestStore_AddElements(t *testing.T) {
	ctx := context.Background()
	store, err := New(WithDSN(":memory:"), WithEmbeddingModel("text-embedding-3-small"))
	if err != nil {
		t.Fatalf("store init: %v", err)
	}
	defer store.Close()

	elements := element.Elements{
		element.New(element.Title, "Quarterly Results", element.Metadata{element.MetaFilename: "report.txt"}),
		element.New(element.NarrativeText, "Revenue grew by ten percent.", element.Metadata{element.MetaFilename: "report.txt", element.MetaPageNumber: 2}),
	}
	embedder := &stubEmbedder{}
	ids, err := store.AddElements(ctx, "filings", elements, embedder)
	if err != nil {
		t.Fatalf("AddElements: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
	if embedder.calls != 1 {
		t.Fatalf("expected a single embed batch, got %d", embedder.calls)
	}

	var category, content, metaJSON, model, filename string
	err = store.DB().QueryRow(`SELECT category, content, meta, embedding_model, filename FROM _vec_element_vec WHERE dataset_id = ? AND id = ?`,
		"filings", elements[0].ID).Scan(&category, &content, &metaJSON, &model, &filename)
	if err != nil {
		t.Fatalf("query element: %v", err)
	}
	if category != string(element.Title) {
		t.Fatalf("unexpected category: %q", category)
	}
	if content != "Quarterly Results" {
		t.Fatalf("unexpected content: %q", content)
	}
	if model != "text-embedding-3-small" {
		t.Fatalf("unexpected embedding_model: %q", model)
	}
	if filename != "report.txt" {
		t.Fatalf("unexpected filename: %q", filename)
	}
	var meta map[string]interface{}
	if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
		t.Fatalf("meta json: %v", err)
	}
	if meta[element.MetaFilename] != "report.txt" {
		t.Fatalf("unexpected meta filename: %v", meta[element.MetaFilename])
	}

	count, err := store.Count(ctx, "filings")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count=2, got %d", count)
	}
}

func TestStore_AddElementsUpsert(t *testing.T) {
	ctx := context.Background()
	store, err := New(WithDSN(":memory:"))
	if err != nil {
		t.Fatalf("store init: %v", err)
	}
	defer store.Close()

	elem := element.New(element.NarrativeText, "Initial text.", element.Metadata{element.MetaFilename: "a.txt"})
	embedder := &stubEmbedder{}
	if _, err := store.AddElements(ctx, "", element.Elements{elem}, embedder); err != nil {
		t.Fatalf("first add: %v", err)
	}
	elem.Metadata[element.MetaPageNumber] = 3
	if _, err := store.AddElements(ctx, "", element.Elements{elem}, embedder); err != nil {
		t.Fatalf("second add: %v", err)
	}

	count, err := store.Count(ctx, "")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected upsert to keep count=1, got %d", count)
	}
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	store, err := New(WithDSN(":memory:"))
	if err != nil {
		t.Fatalf("store init: %v", err)
	}
	defer store.Close()

	elem := element.New(element.Title, "To be removed", nil)
	if _, err := store.AddElements(ctx, "docs", element.Elements{elem}, &stubEmbedder{}); err != nil {
		t.Fatalf("AddElements: %v", err)
	}
	if err := store.Remove(ctx, "docs", elem.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	count, err := store.Count(ctx, "docs")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected count=0 after remove, got %d", count)
	}

	var archived int
	if err := store.DB().QueryRow(`SELECT archived FROM _vec_element_vec WHERE dataset_id = ? AND id = ?`, "docs", elem.ID).Scan(&archived); err != nil {
		t.Fatalf("query archived: %v", err)
	}
	if archived != 1 {
		t.Fatalf("expected archived=1, got %d", archived)
	}
}
