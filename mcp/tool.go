package mcp

import (
	"context"
	_ "embed"
	"encoding/json"

	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
	protoserver "github.com/viant/mcp-protocol/server"
)

//go:embed tools/partition.md
var descPartition string

//go:embed tools/stage.md
var descStage string

//go:embed tools/sqlquery.md
var descSQLQuery string

//go:embed tools/search.md
var descSearch string

//go:embed tools/vectorsearch.md
var descVectorSearch string

//go:embed tools/match.md
var descMatch string

//go:embed tools/filings.md
var descFilings string

//go:embed tools/sentiment.md
var descSentiment string

func registerTools(registry *protoserver.Registry, h *Handler) error {
	if err := protoserver.RegisterTool[*PartitionInput, *PartitionOutput](registry, "partition", descPartition, func(ctx context.Context, in *PartitionInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.partition(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*StageInput, *StageOutput](registry, "stage", descStage, func(ctx context.Context, in *StageInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.stage(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*SQLQueryInput, *SQLQueryOutput](registry, "sqlQuery", descSQLQuery, func(ctx context.Context, in *SQLQueryInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.sqlQuery(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*SearchInput, *SearchOutput](registry, "search", descSearch, func(ctx context.Context, in *SearchInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.search(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*VectorSearchInput, *VectorSearchOutput](registry, "vectorSearch", descVectorSearch, func(ctx context.Context, in *VectorSearchInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.vectorSearch(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*MatchInput, *MatchOutput](registry, "match", descMatch, func(ctx context.Context, in *MatchInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.match(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*FilingsInput, *FilingsOutput](registry, "filings", descFilings, func(ctx context.Context, in *FilingsInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.filings(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	if err := protoserver.RegisterTool[*SentimentInput, *SentimentOutput](registry, "sentiment", descSentiment, func(ctx context.Context, in *SentimentInput) (*schema.CallToolResult, *jsonrpc.Error) {
		out, err := h.sentiment(ctx, in)
		if err != nil {
			return buildErrorResult(err.Error())
		}
		return buildSuccessResult(out)
	}); err != nil {
		return err
	}

	return nil
}

func buildErrorResult(message string) (*schema.CallToolResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.InvalidParams, message, nil)
}

func buildSuccessResult(payload any) (*schema.CallToolResult, *jsonrpc.Error) {
	b, _ := json.Marshal(payload)
	return &schema.CallToolResult{
		Content: []schema.CallToolResultContentElem{
			schema.TextContent{Type: "text", Text: string(b)},
		},
		StructuredContent: map[string]any{"result": payload},
	}, nil
}
