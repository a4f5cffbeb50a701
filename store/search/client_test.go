package search

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elemstage/elemstage/element"
)

func TestClient_EnsureIndex(t *testing.T) {
	created := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			created = true
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.EnsureIndex(context.Background(), "elements"); err != nil {
		t.Fatalf("EnsureIndex failed: %v", err)
	}
	if !created {
		t.Fatalf("expected index creation")
	}
}

func TestClient_Load(t *testing.T) {
	var bulkBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_bulk" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-ndjson" {
			t.Errorf("unexpected content type %q", got)
		}
		bulkBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"errors":false,"items":[{"index":{"_id":"1"}},{"index":{"_id":"2"}}]}`))
	}))
	defer server.Close()

	elements := element.Elements{
		element.New(element.Title, "Report", nil),
		element.New(element.NarrativeText, "Body.", nil),
	}
	client := NewClient(server.URL)
	count, err := client.Load(context.Background(), "elements", elements)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 indexed, got %d", count)
	}
	scanner := bufio.NewScanner(bytes.NewReader(bulkBody))
	lines := 0
	for scanner.Scan() {
		lines++
	}
	if lines != 4 {
		t.Errorf("expected 4 NDJSON lines, got %d", lines)
	}
}

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/elements/_search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"hits":{"hits":[
			{"_id":"1","_score":1.5,"_source":{"type":"NarrativeText","text":"Revenue grew.","metadata":{"filename":"r.pdf"}}}
		]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	hits, err := client.Search(context.Background(), "elements", "revenue", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Text != "Revenue grew." || hits[0].Score != 1.5 {
		t.Errorf("unexpected hit: %+v", hits[0])
	}
	if hits[0].Metadata.String(element.MetaFilename) != "r.pdf" {
		t.Errorf("unexpected metadata: %v", hits[0].Metadata)
	}
}

func TestClient_Search_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"parsing_exception","reason":"bad query"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Search(context.Background(), "elements", "x", 1); err == nil {
		t.Fatalf("expected error")
	}
}
