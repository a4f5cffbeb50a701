package vector

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/elemstage/elemstage/element"
	"github.com/elemstage/elemstage/embeddings"
	"github.com/viant/sqlite-vec/engine"
	"github.com/viant/sqlite-vec/vec"
	"github.com/viant/sqlite-vec/vector"
)

const defaultDataset = "default"

// Store is a sqlite-vec backed similarity index over partitioned elements.
type Store struct {
	db           *sql.DB
	dsn          string
	vtable       string
	shadow       string
	ensureSchema bool
	embedBatch   int
	embedModel   string
	owned        bool
}

// Option configures the sqlite-vec store.
type Option func(*Store)

// WithDB sets an existing *sql.DB to use.
func WithDB(db *sql.DB) Option {
	return func(s *Store) { s.db = db }
}

// WithDSN sets the SQLite DSN to open (e.g. /path/to/index.sqlite).
func WithDSN(dsn string) Option {
	return func(s *Store) { s.dsn = dsn }
}

// WithVTable sets the vec virtual table name (default: element_vec).
func WithVTable(name string) Option {
	return func(s *Store) { s.vtable = name }
}

// WithEnsureSchema controls whether schema and indexes are created automatically.
func WithEnsureSchema(enabled bool) Option {
	return func(s *Store) { s.ensureSchema = enabled }
}

// WithEmbedBatchSize sets the embedding batch size for AddElements.
func WithEmbedBatchSize(size int) Option {
	return func(s *Store) { s.embedBatch = size }
}

// WithEmbeddingModel sets the embedding_model stored with rows.
func WithEmbeddingModel(model string) Option {
	return func(s *Store) { s.embedModel = model }
}

// New opens and initializes a sqlite-vec element store.
func New(opts ...Option) (*Store, error) {
	s := &Store{
		vtable:       "element_vec",
		ensureSchema: true,
		embedBatch:   64,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.vtable == "" {
		s.vtable = "element_vec"
	}
	s.shadow = "_vec_" + s.vtable

	if s.db == nil {
		if s.dsn == "" {
			return nil, fmt.Errorf("vector: dsn required")
		}
		db, err := engine.Open(s.dsn)
		if err != nil {
			return nil, err
		}
		s.db = db
		s.db.SetMaxOpenConns(4)
		s.db.SetMaxIdleConns(4)
		s.owned = true
	}
	if err := vec.Register(s.db); err != nil {
		return nil, err
	}
	if s.ensureSchema {
		if err := s.ensureSchemaDDL(context.Background()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Close closes the underlying DB if Store opened it.
func (s *Store) Close() error {
	if s.owned && s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB exposes the underlying sql.DB.
func (s *Store) DB() *sql.DB { return s.db }

// AddElements embeds element texts and upserts them into the shadow table.
// The vec virtual table materializes matches from the shadow rows.
func (s *Store) AddElements(ctx context.Context, dataset string, elements element.Elements, embedder embeddings.Embedder) ([]string, error) {
	if len(elements) == 0 {
		return nil, nil
	}
	if embedder == nil {
		return nil, fmt.Errorf("vector: embedder is required")
	}
	if dataset == "" {
		dataset = defaultDataset
	}
	vecs, err := embedElements(ctx, embedder, elements, s.embedBatch)
	if err != nil {
		return nil, err
	}
	if err := s.touchDataset(ctx, dataset); err != nil {
		return nil, err
	}
	stmt, err := s.db.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s(dataset_id, id, filename, category, content, meta, embedding, embedding_model, archived)
VALUES(?,?,?,?,?,?,?,?,0)
ON CONFLICT(dataset_id, id) DO UPDATE SET
	filename=excluded.filename,
	category=excluded.category,
	content=excluded.content,
	meta=excluded.meta,
	embedding=excluded.embedding,
	embedding_model=excluded.embedding_model,
	archived=0`, s.shadow))
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ids := make([]string, len(elements))
	for i, elem := range elements {
		ids[i] = elem.ID
		metaJSON, err := encodeMeta(elem.Metadata)
		if err != nil {
			return nil, err
		}
		blob, err := vector.EncodeEmbedding(vecs[i])
		if err != nil {
			return nil, err
		}
		filename := elem.Metadata.String(element.MetaFilename)
		if _, err := stmt.ExecContext(ctx, dataset, elem.ID, filename, string(elem.Category), elem.Text, metaJSON, blob, s.embedModel); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// Match is a similarity search hit.
type Match struct {
	Element *element.Element
	Score   float32
}

// Search embeds the query and performs a MATCH query over the vec virtual table.
func (s *Store) Search(ctx context.Context, dataset, query string, k int, embedder embeddings.Embedder) ([]Match, error) {
	if embedder == nil {
		return nil, fmt.Errorf("vector: embedder is required")
	}
	if dataset == "" {
		dataset = defaultDataset
	}
	if k <= 0 {
		k = 10
	}
	qvec, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	blob, err := vector.EncodeEmbedding(qvec)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT d.id, d.category, d.content, d.meta, v.match_score
FROM %s v
JOIN %s d ON d.dataset_id = v.dataset_id AND d.id = v.doc_id
WHERE v.dataset_id = ?
  AND v.doc_id MATCH ?
  AND d.archived = 0
ORDER BY v.match_score DESC
LIMIT ?`, s.vtable, s.shadow), dataset, blob, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var id, category, content, metaJSON string
		var score float64
		if err := rows.Scan(&id, &category, &content, &metaJSON, &score); err != nil {
			return nil, err
		}
		metadata, err := decodeMeta(metaJSON)
		if err != nil {
			return nil, err
		}
		matches = append(matches, Match{
			Element: &element.Element{ID: id, Category: element.Category(category), Text: content, Metadata: metadata},
			Score:   float32(score),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// Remove soft-deletes an element by id.
func (s *Store) Remove(ctx context.Context, dataset, id string) error {
	if dataset == "" {
		dataset = defaultDataset
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET archived=1 WHERE dataset_id=? AND id=?`, s.shadow), dataset, id)
	return err
}

// Count returns the number of live elements in a dataset.
func (s *Store) Count(ctx context.Context, dataset string) (int, error) {
	if dataset == "" {
		dataset = defaultDataset
	}
	var count int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(1) FROM %s WHERE dataset_id=? AND archived=0`, s.shadow), dataset).Scan(&count)
	return count, err
}

func (s *Store) touchDataset(ctx context.Context, dataset string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO vec_dataset(dataset_id, updated_at)
VALUES(?, CURRENT_TIMESTAMP)
ON CONFLICT(dataset_id) DO UPDATE SET updated_at=CURRENT_TIMESTAMP`, dataset)
	return err
}

func (s *Store) ensureSchemaDDL(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS vec_dataset (
			dataset_id  TEXT PRIMARY KEY,
			description TEXT,
			updated_at  TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS vector_storage (
			shadow_table_name TEXT NOT NULL,
			dataset_id        TEXT NOT NULL DEFAULT '',
			"index"           BLOB,
			PRIMARY KEY (shadow_table_name, dataset_id)
		);`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			dataset_id       TEXT NOT NULL,
			id               TEXT NOT NULL,
			filename         TEXT,
			category         TEXT,
			content          TEXT,
			meta             TEXT,
			embedding        BLOB,
			embedding_model  TEXT,
			archived         INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (dataset_id, id)
		);`, s.shadow),
		fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS %s USING vec(doc_id);`, s.vtable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_filename ON %s(dataset_id, filename);`, s.vtable, s.shadow),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_archived ON %s(dataset_id, archived);`, s.vtable, s.shadow),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func embedElements(ctx context.Context, embedder embeddings.Embedder, elements element.Elements, batchSize int) ([][]float32, error) {
	if batchSize <= 0 {
		batchSize = 64
	}
	out := make([][]float32, 0, len(elements))
	for i := 0; i < len(elements); i += batchSize {
		end := i + batchSize
		if end > len(elements) {
			end = len(elements)
		}
		batch := elements[i:end]
		texts := make([]string, len(batch))
		for j := range batch {
			texts[j] = batch[j].Text
		}
		vecs, err := embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(vecs) != len(texts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d elements", len(vecs), len(texts))
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func encodeMeta(metadata element.Metadata) (string, error) {
	if metadata == nil {
		metadata = element.Metadata{}
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeMeta(metaJSON string) (element.Metadata, error) {
	if metaJSON == "" {
		return element.Metadata{}, nil
	}
	metadata := element.Metadata{}
	if err := json.Unmarshal([]byte(metaJSON), &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}
