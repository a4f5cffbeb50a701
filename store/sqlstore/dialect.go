package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/viant/sqlx/io/config"
)

// DetectDriver infers the database/sql driver name from a DSN.
func DetectDriver(dsn string) (string, bool) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", false
	}
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return "postgres", true
	case strings.HasPrefix(lower, "mysql://"):
		return "mysql", true
	case strings.HasPrefix(lower, "bigquery://"), strings.HasPrefix(lower, "bigquery:"), strings.HasPrefix(lower, "bq://"):
		return "bigquery", true
	case strings.HasPrefix(lower, "file:"), lower == ":memory:", strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".db"):
		return "sqlite", true
	case strings.Contains(lower, "@tcp("), strings.Contains(lower, "@unix("):
		return "mysql", true
	}
	return "", false
}

// detectBatchInsert consults the sqlx dialect registry for multi-values
// insert support, falling back to single-row inserts when detection fails.
func detectBatchInsert(ctx context.Context, db *sql.DB, driver string) bool {
	if db == nil {
		return false
	}
	dialect, err := config.Dialect(ctx, db)
	if err != nil {
		// sqlite always accepts multi-values inserts.
		return driver == "sqlite"
	}
	return dialect.Insert.MultiValues()
}

// rebind rewrites ? placeholders to the driver's numbered form when needed.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(fmt.Sprintf("$%d", n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
