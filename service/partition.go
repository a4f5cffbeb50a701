package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/elemstage/elemstage/matching"
	"github.com/elemstage/elemstage/matching/option"
	"github.com/elemstage/elemstage/staging"
)

// Partition extracts elements from inline data or from a walked location.
func (s *Service) Partition(ctx context.Context, req PartitionRequest) (*PartitionResponse, error) {
	if len(req.Data) > 0 {
		if req.FileName == "" {
			return nil, fmt.Errorf("file name is required with inline data")
		}
		elements, err := s.factory.Partition(req.FileName, req.Data)
		if err != nil {
			return nil, err
		}
		return &PartitionResponse{Elements: elements}, nil
	}
	if req.Location == "" {
		return nil, fmt.Errorf("location or inline data is required")
	}
	elements, err := s.walker().Collect(ctx, req.Location, s.entries)
	if err != nil {
		return nil, err
	}
	s.logf("partitioned %s into %d elements", req.Location, len(elements))
	return &PartitionResponse{Elements: elements}, nil
}

// Stage reformats elements into csv, jsonl or search bulk actions.
func (s *Service) Stage(ctx context.Context, req StageRequest) (*StageResponse, error) {
	if len(req.Elements) == 0 {
		return nil, fmt.Errorf("no elements to stage")
	}
	resp := &StageResponse{Rows: staging.ToRows(req.Elements)}
	var buf bytes.Buffer
	switch strings.ToLower(req.Format) {
	case "", "csv":
		if err := staging.WriteCSV(&buf, req.Elements); err != nil {
			return nil, err
		}
	case "jsonl":
		if err := staging.WriteJSONL(&buf, req.Elements); err != nil {
			return nil, err
		}
	case "bulk":
		index := req.Index
		if index == "" {
			return nil, fmt.Errorf("index is required for the bulk format")
		}
		data, err := staging.BulkActions(index, req.Elements)
		if err != nil {
			return nil, err
		}
		resp.Data = data
		return resp, nil
	default:
		return nil, fmt.Errorf("unsupported staging format %q", req.Format)
	}
	resp.Data = buf.Bytes()
	return resp, nil
}

// Match applies inclusion/exclusion rules to candidate locations.
func (s *Service) Match(ctx context.Context, req MatchRequest) (*MatchResponse, error) {
	if len(req.Locations) == 0 {
		return nil, fmt.Errorf("no locations to match")
	}
	var opts []option.Option
	if len(req.Include) > 0 {
		opts = append(opts, option.WithInclusionPatterns(req.Include...))
	}
	if len(req.Exclude) > 0 {
		opts = append(opts, option.WithExclusionPatterns(req.Exclude...))
	}
	if req.MaxSize > 0 {
		opts = append(opts, option.WithMaxIndexableSize(req.MaxSize))
	}
	matcher := s.matcher
	if len(opts) > 0 {
		matcher = matching.New(opts...)
	}
	resp := &MatchResponse{}
	for _, location := range req.Locations {
		if matcher.IsExcluded(location, 0) {
			resp.Excluded = append(resp.Excluded, location)
		} else {
			resp.Included = append(resp.Included, location)
		}
	}
	return resp, nil
}
