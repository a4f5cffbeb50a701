package sqlstore

import (
	"fmt"
	"strings"
)

const sqliteBusyTimeoutMS = 5000

// withSQLitePragmas decorates a file-backed SQLite DSN with the WAL and
// busy-timeout pragmas concurrent element loads need. In-memory DSNs and
// DSNs that already carry the pragmas pass through untouched.
func withSQLitePragmas(dsn string) string {
	if dsn == "" {
		return dsn
	}
	lower := strings.ToLower(dsn)
	if dsn == ":memory:" || strings.HasPrefix(lower, "file::memory:") {
		return dsn
	}
	if !strings.Contains(lower, "_pragma=journal_mode") {
		dsn = appendDSNOption(dsn, "_pragma=journal_mode(WAL)")
	}
	if !strings.Contains(lower, "_pragma=busy_timeout") {
		dsn = appendDSNOption(dsn, fmt.Sprintf("_pragma=busy_timeout(%d)", sqliteBusyTimeoutMS))
	}
	return dsn
}

func appendDSNOption(dsn, option string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + option
	}
	return dsn + "?" + option
}
