package service

import (
	"log"
	"sync"

	"github.com/elemstage/elemstage/cache"
	"github.com/elemstage/elemstage/classify"
	"github.com/elemstage/elemstage/embeddings"
	"github.com/elemstage/elemstage/filings"
	"github.com/elemstage/elemstage/matching"
	"github.com/elemstage/elemstage/partition"
	"github.com/elemstage/elemstage/source"
	"github.com/elemstage/elemstage/store/search"
	"github.com/elemstage/elemstage/store/vector"
)

// Option configures the Service.
type Option func(*Service)

// WithPartitionFactory overrides the partitioner factory.
func WithPartitionFactory(factory *partition.Factory) Option {
	return func(s *Service) { s.factory = factory }
}

// WithMatcher sets the source matching rules.
func WithMatcher(matcher *matching.Manager) Option {
	return func(s *Service) { s.matcher = matcher }
}

// WithSourceFS overrides the storage backend used to walk sources.
func WithSourceFS(fs source.Service) Option {
	return func(s *Service) { s.sourceFS = fs }
}

// WithEmbedder sets the default embedder for vector indexing and search.
func WithEmbedder(embedder embeddings.Embedder) Option {
	return func(s *Service) { s.embedder = embedder }
}

// WithSearchClient sets the search index client.
func WithSearchClient(client *search.Client) Option {
	return func(s *Service) { s.search = client }
}

// WithVectorStore sets the sqlite-vec element store.
func WithVectorStore(store *vector.Store) Option {
	return func(s *Service) { s.vector = store }
}

// WithFilingsClient sets the EDGAR client.
func WithFilingsClient(client *filings.Client) Option {
	return func(s *Service) { s.filings = client }
}

// WithSentimentClient sets the hosted sentiment client.
func WithSentimentClient(client *classify.SentimentClient) Option {
	return func(s *Service) { s.sentiment = client }
}

// WithTuneClient sets the hosted fine-tune client.
func WithTuneClient(client *classify.TuneClient) Option {
	return func(s *Service) { s.tuner = client }
}

// WithCachePath persists the partition cache at path, so repeated runs
// skip re-partitioning unchanged documents.
func WithCachePath(path string) Option {
	return func(s *Service) { s.cachePath = path }
}

// WithLogf sets the logging function (default log.Printf).
func WithLogf(logf func(format string, args ...any)) Option {
	return func(s *Service) {
		if logf != nil {
			s.logf = logf
		}
	}
}

// Service exposes the document pipeline: partition, stage, load into SQL,
// search or vector backends, and the filings classification workflow.
type Service struct {
	factory   *partition.Factory
	matcher   *matching.Manager
	sourceFS  source.Service
	embedder  embeddings.Embedder
	search    *search.Client
	vector    *vector.Store
	filings   *filings.Client
	sentiment *classify.SentimentClient
	tuner     *classify.TuneClient

	entries   *cache.Map[string, source.Entry]
	cachePath string
	logf      func(format string, args ...any)
	mu        sync.Mutex
}

// New creates a Service.
func New(opts ...Option) *Service {
	s := &Service{
		entries: cache.NewMap[string, source.Entry](),
		logf:    log.Printf,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.factory == nil {
		s.factory = partition.NewFactory()
	}
	if s.matcher == nil {
		s.matcher = matching.New()
	}
	if s.cachePath != "" {
		entries, err := source.LoadEntries(s.cachePath)
		if err != nil {
			s.logf("partition cache %s unreadable, starting empty: %v", s.cachePath, err)
		} else {
			s.entries = entries
		}
	}
	return s
}

// Close persists the partition cache and releases the owned vector store.
func (s *Service) Close() error {
	if s.cachePath != "" {
		if err := source.SaveEntries(s.cachePath, s.entries); err != nil {
			s.logf("persist partition cache %s: %v", s.cachePath, err)
		}
	}
	if s.vector != nil {
		return s.vector.Close()
	}
	return nil
}

func (s *Service) walker() *source.Walker {
	var opts []source.Option
	if s.sourceFS != nil {
		opts = append(opts, source.WithFS(s.sourceFS))
	}
	return source.NewWalker(s.matcher, s.factory, opts...)
}
