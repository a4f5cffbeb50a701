package service

import (
	"github.com/elemstage/elemstage/classify"
	"github.com/elemstage/elemstage/element"
	"github.com/elemstage/elemstage/filings"
	"github.com/elemstage/elemstage/staging"
	"github.com/elemstage/elemstage/store/search"
	"github.com/elemstage/elemstage/store/vector"
)

// PartitionRequest partitions inline data or walks a source location.
type PartitionRequest struct {
	// Location is a file, directory or URL walked through the matcher.
	Location string
	// FileName and Data partition inline content instead.
	FileName string
	Data     []byte
}

// PartitionResponse carries the extracted elements.
type PartitionResponse struct {
	Elements element.Elements
}

// StageRequest reformats elements for a downstream consumer.
type StageRequest struct {
	Elements element.Elements
	// Format is one of csv, jsonl or bulk.
	Format string
	// Index names the target index for the bulk format.
	Index string
}

// StageResponse carries the staged payload.
type StageResponse struct {
	Data []byte
	Rows []staging.Row
}

// LoadSQLRequest loads elements into a relational table.
type LoadSQLRequest struct {
	Driver   string
	DSN      string
	Table    string
	Elements element.Elements
}

// LoadSQLResponse reports how many rows were inserted.
type LoadSQLResponse struct {
	Count int
	Table string
}

// QuerySQLRequest reads staged elements back from a relational table.
type QuerySQLRequest struct {
	Driver   string
	DSN      string
	Table    string
	Category string
	Filename string
	Limit    int
}

// QuerySQLResponse carries the matched rows.
type QuerySQLResponse struct {
	Rows []staging.Row
}

// LoadSearchRequest bulk-indexes elements into a search index.
type LoadSearchRequest struct {
	Index    string
	Elements element.Elements
}

// LoadSearchResponse reports how many documents were indexed.
type LoadSearchResponse struct {
	Count int
}

// SearchRequest runs a full-text query against a search index.
type SearchRequest struct {
	Index string
	Query string
	Limit int
}

// SearchResponse carries search hits.
type SearchResponse struct {
	Hits []search.Hit
}

// IndexRequest embeds elements into the vector store.
type IndexRequest struct {
	Dataset  string
	Elements element.Elements
}

// IndexResponse reports indexed element ids.
type IndexResponse struct {
	IDs []string
}

// VectorSearchRequest runs a similarity query against the vector store.
type VectorSearchRequest struct {
	Dataset string
	Query   string
	Limit   int
}

// VectorSearchResponse carries similarity matches.
type VectorSearchResponse struct {
	Matches []vector.Match
}

// MatchRequest applies inclusion/exclusion rules to candidate locations.
type MatchRequest struct {
	Locations []string
	Include   []string
	Exclude   []string
	MaxSize   int
}

// MatchResponse partitions locations into included and excluded.
type MatchResponse struct {
	Included []string
	Excluded []string
}

// FilingsRequest lists recent EDGAR filings for a ticker.
type FilingsRequest struct {
	Ticker string
	Forms  []string
	Limit  int
	// FetchText downloads and strips each filing's primary document.
	FetchText bool
}

// FilingText pairs a filing with its extracted text.
type FilingText struct {
	Filing filings.Filing `json:"filing"`
	Text   string         `json:"text,omitempty"`
}

// FilingsResponse carries the filing listing.
type FilingsResponse struct {
	CIK     string
	Filings []FilingText
}

// SentimentRequest scores texts with the hosted sentiment model.
type SentimentRequest struct {
	Texts []string
}

// SentimentResponse carries per-text predictions.
type SentimentResponse struct {
	Predictions []classify.Prediction
}

// TrainRequest uploads labeled examples and runs a hosted fine-tune job.
type TrainRequest struct {
	FileName string
	Examples []staging.Example
	// Wait polls the job until it settles.
	Wait bool
}

// TrainResponse carries the fine-tune job state.
type TrainResponse struct {
	FileID string
	Job    *classify.Job
}
