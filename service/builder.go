package service

import (
	"fmt"

	"github.com/elemstage/elemstage/classify"
	"github.com/elemstage/elemstage/embeddings"
	"github.com/elemstage/elemstage/filings"
	"github.com/elemstage/elemstage/matching"
	"github.com/elemstage/elemstage/matching/option"
	"github.com/elemstage/elemstage/store/search"
	"github.com/elemstage/elemstage/store/vector"
)

// FromConfig assembles a Service with the backends the config enables.
func FromConfig(cfg *Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	var assembled []Option

	if cfg.Embeddings != nil {
		embedder, err := embeddings.New(cfg.Embeddings)
		if err != nil {
			return nil, err
		}
		assembled = append(assembled, WithEmbedder(embedder))
	}
	if cfg.Search.URL != "" {
		client := search.NewClient(cfg.Search.URL)
		client.Username = cfg.Search.Username
		client.Password = cfg.Search.Password
		client.APIKey = cfg.Search.APIKey
		assembled = append(assembled, WithSearchClient(client))
	}
	if cfg.Vector.DSN != "" {
		var vecOpts []vector.Option
		vecOpts = append(vecOpts, vector.WithDSN(cfg.Vector.DSN))
		if cfg.Vector.VTable != "" {
			vecOpts = append(vecOpts, vector.WithVTable(cfg.Vector.VTable))
		}
		if cfg.Vector.Model != "" {
			vecOpts = append(vecOpts, vector.WithEmbeddingModel(cfg.Vector.Model))
		}
		store, err := vector.New(vecOpts...)
		if err != nil {
			return nil, err
		}
		assembled = append(assembled, WithVectorStore(store))
	}
	if cfg.Filings.UserAgent != "" {
		assembled = append(assembled, WithFilingsClient(filings.New(cfg.Filings.UserAgent)))
	}

	var sentimentOpts []classify.SentimentOption
	if cfg.Classify.SentimentModel != "" {
		sentimentOpts = append(sentimentOpts, classify.WithSentimentModel(cfg.Classify.SentimentModel))
	}
	assembled = append(assembled, WithSentimentClient(classify.NewSentimentClient("", sentimentOpts...)))

	var tuneOpts []classify.TuneOption
	if cfg.Classify.BaseModel != "" {
		tuneOpts = append(tuneOpts, classify.WithBaseModel(cfg.Classify.BaseModel))
	}
	assembled = append(assembled, WithTuneClient(classify.NewTuneClient("", tuneOpts...)))

	if matcher := matcherFromSources(cfg.Sources); matcher != nil {
		assembled = append(assembled, WithMatcher(matcher))
	}
	if cfg.CachePath != "" {
		assembled = append(assembled, WithCachePath(cfg.CachePath))
	}
	assembled = append(assembled, opts...)
	return New(assembled...), nil
}

// matcherFromSources merges the matching rules of all configured sources.
func matcherFromSources(sources map[string]SourceConfig) *matching.Manager {
	var opts []option.Option
	for _, src := range sources {
		if len(src.Include) > 0 {
			opts = append(opts, option.WithInclusionPatterns(src.Include...))
		}
		if len(src.Exclude) > 0 {
			opts = append(opts, option.WithExclusionPatterns(src.Exclude...))
		}
		if src.MaxSizeBytes > 0 {
			opts = append(opts, option.WithMaxIndexableSize(src.MaxSizeBytes))
		}
	}
	if len(opts) == 0 {
		return nil
	}
	return matching.New(opts...)
}
