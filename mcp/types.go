package mcp

import (
	"github.com/elemstage/elemstage/classify"
	"github.com/elemstage/elemstage/element"
	"github.com/elemstage/elemstage/service"
	"github.com/elemstage/elemstage/staging"
	"github.com/elemstage/elemstage/store/search"
	"github.com/elemstage/elemstage/store/vector"
)

type PartitionInput struct {
	Location string `json:"location,omitempty"`
	FileName string `json:"fileName,omitempty"`
	Data     string `json:"data,omitempty"`
}

type PartitionOutput struct {
	Elements element.Elements `json:"elements"`
}

type StageInput struct {
	Location string `json:"location,omitempty"`
	FileName string `json:"fileName,omitempty"`
	Data     string `json:"data,omitempty"`
	Format   string `json:"format,omitempty"`
	Index    string `json:"index,omitempty"`
}

type StageOutput struct {
	Data string        `json:"data,omitempty"`
	Rows []staging.Row `json:"rows,omitempty"`
}

type SQLQueryInput struct {
	Driver   string `json:"driver,omitempty"`
	DSN      string `json:"dsn,omitempty"`
	Table    string `json:"table,omitempty"`
	Category string `json:"category,omitempty"`
	Filename string `json:"filename,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type SQLQueryOutput struct {
	Rows []staging.Row `json:"rows"`
}

type SearchInput struct {
	Index string `json:"index"`
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type SearchOutput struct {
	Hits []search.Hit `json:"hits"`
}

type VectorSearchInput struct {
	Dataset string `json:"dataset,omitempty"`
	Query   string `json:"query"`
	Limit   int    `json:"limit,omitempty"`
}

type VectorSearchOutput struct {
	Matches []vector.Match `json:"matches"`
}

type MatchInput struct {
	Locations []string `json:"locations"`
	Include   []string `json:"include,omitempty"`
	Exclude   []string `json:"exclude,omitempty"`
	MaxSize   int      `json:"maxSize,omitempty"`
}

type MatchOutput struct {
	Included []string `json:"included"`
	Excluded []string `json:"excluded"`
}

type FilingsInput struct {
	Ticker    string   `json:"ticker"`
	Forms     []string `json:"forms,omitempty"`
	Limit     int      `json:"limit,omitempty"`
	FetchText bool     `json:"fetchText,omitempty"`
}

type FilingsOutput struct {
	CIK     string               `json:"cik"`
	Filings []service.FilingText `json:"filings"`
}

type SentimentInput struct {
	Texts []string `json:"texts"`
}

type SentimentOutput struct {
	Predictions []classify.Prediction `json:"predictions"`
}
