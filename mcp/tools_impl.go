package mcp

import (
	"context"
	"fmt"

	"github.com/elemstage/elemstage/service"
)

func (h *Handler) partition(ctx context.Context, in *PartitionInput) (*PartitionOutput, error) {
	if h == nil || h.service == nil {
		return nil, fmt.Errorf("mcp: service unavailable")
	}
	if in == nil {
		in = &PartitionInput{}
	}
	resp, err := h.service.Partition(ctx, service.PartitionRequest{
		Location: in.Location,
		FileName: in.FileName,
		Data:     []byte(in.Data),
	})
	if err != nil {
		return nil, err
	}
	return &PartitionOutput{Elements: resp.Elements}, nil
}

func (h *Handler) stage(ctx context.Context, in *StageInput) (*StageOutput, error) {
	if h == nil || h.service == nil {
		return nil, fmt.Errorf("mcp: service unavailable")
	}
	if in == nil {
		in = &StageInput{}
	}
	partitioned, err := h.service.Partition(ctx, service.PartitionRequest{
		Location: in.Location,
		FileName: in.FileName,
		Data:     []byte(in.Data),
	})
	if err != nil {
		return nil, err
	}
	staged, err := h.service.Stage(ctx, service.StageRequest{
		Elements: partitioned.Elements,
		Format:   in.Format,
		Index:    in.Index,
	})
	if err != nil {
		return nil, err
	}
	return &StageOutput{Data: string(staged.Data), Rows: staged.Rows}, nil
}

func (h *Handler) sqlQuery(ctx context.Context, in *SQLQueryInput) (*SQLQueryOutput, error) {
	if h == nil || h.service == nil {
		return nil, fmt.Errorf("mcp: service unavailable")
	}
	if in == nil {
		in = &SQLQueryInput{}
	}
	resp, err := h.service.QuerySQL(ctx, service.QuerySQLRequest{
		Driver:   in.Driver,
		DSN:      in.DSN,
		Table:    in.Table,
		Category: in.Category,
		Filename: in.Filename,
		Limit:    in.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &SQLQueryOutput{Rows: resp.Rows}, nil
}

func (h *Handler) search(ctx context.Context, in *SearchInput) (*SearchOutput, error) {
	if h == nil || h.service == nil {
		return nil, fmt.Errorf("mcp: service unavailable")
	}
	if in == nil || in.Query == "" {
		return nil, fmt.Errorf("mcp: query is required")
	}
	resp, err := h.service.Search(ctx, service.SearchRequest{
		Index: in.Index,
		Query: in.Query,
		Limit: in.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Hits: resp.Hits}, nil
}

func (h *Handler) vectorSearch(ctx context.Context, in *VectorSearchInput) (*VectorSearchOutput, error) {
	if h == nil || h.service == nil {
		return nil, fmt.Errorf("mcp: service unavailable")
	}
	if in == nil || in.Query == "" {
		return nil, fmt.Errorf("mcp: query is required")
	}
	resp, err := h.service.VectorSearch(ctx, service.VectorSearchRequest{
		Dataset: in.Dataset,
		Query:   in.Query,
		Limit:   in.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &VectorSearchOutput{Matches: resp.Matches}, nil
}

func (h *Handler) match(ctx context.Context, in *MatchInput) (*MatchOutput, error) {
	if h == nil || h.service == nil {
		return nil, fmt.Errorf("mcp: service unavailable")
	}
	if in == nil {
		in = &MatchInput{}
	}
	resp, err := h.service.Match(ctx, service.MatchRequest{
		Locations: in.Locations,
		Include:   in.Include,
		Exclude:   in.Exclude,
		MaxSize:   in.MaxSize,
	})
	if err != nil {
		return nil, err
	}
	return &MatchOutput{Included: resp.Included, Excluded: resp.Excluded}, nil
}

func (h *Handler) filings(ctx context.Context, in *FilingsInput) (*FilingsOutput, error) {
	if h == nil || h.service == nil {
		return nil, fmt.Errorf("mcp: service unavailable")
	}
	if in == nil || in.Ticker == "" {
		return nil, fmt.Errorf("mcp: ticker is required")
	}
	resp, err := h.service.Filings(ctx, service.FilingsRequest{
		Ticker:    in.Ticker,
		Forms:     in.Forms,
		Limit:     in.Limit,
		FetchText: in.FetchText,
	})
	if err != nil {
		return nil, err
	}
	return &FilingsOutput{CIK: resp.CIK, Filings: resp.Filings}, nil
}

func (h *Handler) sentiment(ctx context.Context, in *SentimentInput) (*SentimentOutput, error) {
	if h == nil || h.service == nil {
		return nil, fmt.Errorf("mcp: service unavailable")
	}
	if in == nil || len(in.Texts) == 0 {
		return nil, fmt.Errorf("mcp: texts are required")
	}
	resp, err := h.service.Sentiment(ctx, service.SentimentRequest{Texts: in.Texts})
	if err != nil {
		return nil, err
	}
	return &SentimentOutput{Predictions: resp.Predictions}, nil
}
