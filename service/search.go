package service

import (
	"context"
	"fmt"
)

// LoadSearch bulk-indexes elements into the configured search index.
func (s *Service) LoadSearch(ctx context.Context, req LoadSearchRequest) (*LoadSearchResponse, error) {
	if s.search == nil {
		return nil, fmt.Errorf("search client is not configured")
	}
	if req.Index == "" {
		return nil, fmt.Errorf("index is required")
	}
	if len(req.Elements) == 0 {
		return nil, fmt.Errorf("no elements to index")
	}
	if err := s.search.EnsureIndex(ctx, req.Index); err != nil {
		return nil, err
	}
	count, err := s.search.Load(ctx, req.Index, req.Elements)
	if err != nil {
		return nil, err
	}
	if err := s.search.Refresh(ctx, req.Index); err != nil {
		return nil, err
	}
	s.logf("indexed %d elements into %s", count, req.Index)
	return &LoadSearchResponse{Count: count}, nil
}

// Search runs a full-text query against the search index.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if s.search == nil {
		return nil, fmt.Errorf("search client is not configured")
	}
	if req.Index == "" || req.Query == "" {
		return nil, fmt.Errorf("index and query are required")
	}
	hits, err := s.search.Search(ctx, req.Index, req.Query, req.Limit)
	if err != nil {
		return nil, err
	}
	return &SearchResponse{Hits: hits}, nil
}
