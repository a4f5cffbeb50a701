// Package sqlstore bulk-loads staged element rows into a relational table
// and reads them back.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elemstage/elemstage/element"
	"github.com/elemstage/elemstage/staging"
	"github.com/google/uuid"
)

const defaultTable = "elements"

// insertBatchSize keeps multi-row inserts under driver bind-parameter caps
// (PostgreSQL and MySQL limit a statement to 65535 parameters).
const insertBatchSize = 200

// Store writes staged rows into a relational table.
type Store struct {
	db          *sql.DB
	driver      string
	table       string
	batchInsert bool
	owned       bool
}

// Option configures the Store.
type Option func(*Store)

// WithTable overrides the target table name.
func WithTable(table string) Option {
	return func(s *Store) { s.table = table }
}

// WithDB uses an existing database handle instead of opening one.
func WithDB(db *sql.DB, driver string) Option {
	return func(s *Store) {
		s.db = db
		s.driver = driver
	}
}

// New opens a store for the given driver and DSN. SQLite DSNs get WAL and
// busy-timeout pragmas appended.
func New(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	s := &Store{table: defaultTable}
	for _, opt := range opts {
		opt(s)
	}
	if s.db == nil {
		if driver == "" {
			detected, ok := DetectDriver(dsn)
			if !ok {
				return nil, fmt.Errorf("sqlstore: unable to detect driver from dsn")
			}
			driver = detected
		}
		if driver == "sqlite" {
			dsn = withSQLitePragmas(dsn)
		}
		db, err := sql.Open(driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
		}
		s.db = db
		s.driver = driver
		s.owned = true
	}
	s.batchInsert = detectBatchInsert(ctx, s.db, s.driver)
	return s, nil
}

// Close releases an owned database handle.
func (s *Store) Close() error {
	if s.owned && s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB exposes the underlying handle for read-back queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Table returns the target table name.
func (s *Store) Table() string {
	return s.table
}

// EnsureSchema creates the elements table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id          VARCHAR(36) NOT NULL,
	element_id  VARCHAR(64) NOT NULL,
	type        VARCHAR(32) NOT NULL,
	text        TEXT,
	filename    VARCHAR(512),
	page_number INTEGER,
	metadata    TEXT,
	created_at  TIMESTAMP
)`, s.table)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlstore: ensure schema: %w", err)
	}
	return nil
}

// Load bulk-writes elements into the table and returns the inserted count.
func (s *Store) Load(ctx context.Context, elements element.Elements) (int, error) {
	if len(elements) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	if s.batchInsert {
		return s.loadBatch(ctx, elements, now)
	}
	return s.loadSingle(ctx, elements, now)
}

func (s *Store) loadSingle(ctx context.Context, elements element.Elements, now time.Time) (int, error) {
	query := s.rebind(fmt.Sprintf(`INSERT INTO %s (id, element_id, type, text, filename, page_number, metadata, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, s.table))
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlstore: begin tx: %w", err)
	}
	defer tx.Rollback()
	count := 0
	for _, el := range elements {
		args, err := insertArgs(el, now)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("sqlstore: insert element %s: %w", el.ID, err)
		}
		count++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlstore: commit: %w", err)
	}
	return count, nil
}

func (s *Store) loadBatch(ctx context.Context, elements element.Elements, now time.Time) (int, error) {
	count := 0
	for start := 0; start < len(elements); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(elements) {
			end = len(elements)
		}
		chunk := elements[start:end]
		values := make([]string, 0, len(chunk))
		args := make([]any, 0, len(chunk)*8)
		for _, el := range chunk {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			rowArgs, err := insertArgs(el, now)
			if err != nil {
				return count, err
			}
			args = append(args, rowArgs...)
		}
		query := s.rebind(fmt.Sprintf("INSERT INTO %s (id, element_id, type, text, filename, page_number, metadata, created_at) VALUES %s",
			s.table, strings.Join(values, ",")))
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return count, fmt.Errorf("sqlstore: batch insert: %w", err)
		}
		count += len(chunk)
	}
	return count, nil
}

func insertArgs(el *element.Element, now time.Time) ([]any, error) {
	var metadata any
	if len(el.Metadata) > 0 {
		data, err := json.Marshal(el.Metadata)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: marshal metadata: %w", err)
		}
		metadata = string(data)
	}
	var pageNumber any
	if page := el.Metadata.Int(element.MetaPageNumber); page > 0 {
		pageNumber = page
	}
	var filename any
	if name := el.Metadata.String(element.MetaFilename); name != "" {
		filename = name
	}
	return []any{uuid.NewString(), el.ID, string(el.Category), el.Text, filename, pageNumber, metadata, now}, nil
}

// QueryRequest filters the read-back query.
type QueryRequest struct {
	Category string
	Filename string
	Limit    int
}

// Query reads staged rows back from the table.
func (s *Store) Query(ctx context.Context, req QueryRequest) ([]staging.Row, error) {
	var conds []string
	var args []any
	if req.Category != "" {
		conds = append(conds, "type = ?")
		args = append(args, req.Category)
	}
	if req.Filename != "" {
		conds = append(conds, "filename = ?")
		args = append(args, req.Filename)
	}
	query := fmt.Sprintf("SELECT element_id, type, text, filename, page_number, metadata FROM %s", s.table)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at"
	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", req.Limit)
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: query: %w", err)
	}
	defer rows.Close()

	var out []staging.Row
	for rows.Next() {
		var elementID, category string
		var text, filename, metadata sql.NullString
		var pageNumber sql.NullInt64
		if err := rows.Scan(&elementID, &category, &text, &filename, &pageNumber, &metadata); err != nil {
			return nil, fmt.Errorf("sqlstore: scan: %w", err)
		}
		row := staging.Row{
			staging.ColID:   elementID,
			staging.ColType: category,
			staging.ColText: text.String,
		}
		if filename.Valid {
			row["filename"] = filename.String
		}
		if pageNumber.Valid {
			row["page_number"] = int(pageNumber.Int64)
		}
		if metadata.Valid && metadata.String != "" {
			var decoded map[string]interface{}
			if err := json.Unmarshal([]byte(metadata.String), &decoded); err == nil {
				row["metadata"] = decoded
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Count returns the number of rows currently in the table.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(1) FROM %s", s.table)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlstore: count: %w", err)
	}
	return count, nil
}
