package shared

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN is the path that opens a private in-memory database.
const MemoryDSN = ":memory:"

// NewDatabase opens a connection to a SQLite database at the specified path.
// The path can be ":memory:" for an in-memory database.
//
// Foreign key enforcement is switched on for every pooled connection; cascades and the pilot restriction depend on it.
// In-memory databases are pinned to one connection since each connection would otherwise see its own empty database.
func NewDatabase(path string) (*sql.DB, error) {
	return NewDatabaseWithTimeout(path, 5000)
}

// NewDatabaseWithTimeout is [NewDatabase] with an explicit busy timeout in milliseconds.
func NewDatabaseWithTimeout(path string, busyTimeoutMS int) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrInvalidConfig)
	}

	db, err := sql.Open("sqlite3", buildDSN(path, busyTimeoutMS))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if isMemory(path) {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// ConfigureDatabase sets connection pool settings for the database.
// Recommended for production use to limit connections and improve performance.
//
// In-memory databases keep their single connection regardless of maxOpenConns.
func ConfigureDatabase(db *sql.DB, path string, maxOpenConns, maxIdleConns int) {
	if isMemory(path) {
		return
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
}

// isMemory reports whether path names an in-memory database, including URI forms like file::memory: and mode=memory.
func isMemory(path string) bool {
	return strings.Contains(path, MemoryDSN) || strings.Contains(path, "mode=memory")
}

func buildDSN(path string, busyTimeoutMS int) string {
	params := []string{"_foreign_keys=on"}
	if busyTimeoutMS > 0 {
		params = append(params, fmt.Sprintf("_busy_timeout=%d", busyTimeoutMS))
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}
