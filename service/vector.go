package service

import (
	"context"
	"fmt"
)

// Index embeds elements and upserts them into the vector store.
func (s *Service) Index(ctx context.Context, req IndexRequest) (*IndexResponse, error) {
	if s.vector == nil {
		return nil, fmt.Errorf("vector store is not configured")
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("embedder is not configured")
	}
	if len(req.Elements) == 0 {
		return nil, fmt.Errorf("no elements to index")
	}
	ids, err := s.vector.AddElements(ctx, req.Dataset, req.Elements, s.embedder)
	if err != nil {
		return nil, err
	}
	s.logf("embedded %d elements into dataset %q", len(ids), req.Dataset)
	return &IndexResponse{IDs: ids}, nil
}

// VectorSearch runs a similarity query against the vector store.
func (s *Service) VectorSearch(ctx context.Context, req VectorSearchRequest) (*VectorSearchResponse, error) {
	if s.vector == nil {
		return nil, fmt.Errorf("vector store is not configured")
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("embedder is not configured")
	}
	if req.Query == "" {
		return nil, fmt.Errorf("query is required")
	}
	matches, err := s.vector.Search(ctx, req.Dataset, req.Query, req.Limit, s.embedder)
	if err != nil {
		return nil, err
	}
	return &VectorSearchResponse{Matches: matches}, nil
}
