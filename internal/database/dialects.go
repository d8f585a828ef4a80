package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// poolSettings bounds the connection pool. The assessment API is small and
// request-scoped, so every dialect shares one profile.
type poolSettings struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}

var defaultPool = poolSettings{
	maxOpen:     25,
	maxIdle:     5,
	maxLifetime: 5 * time.Minute,
	maxIdleTime: time.Minute,
}

func (p poolSettings) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.maxOpen)
	db.SetMaxIdleConns(p.maxIdle)
	db.SetConnMaxLifetime(p.maxLifetime)
	db.SetConnMaxIdleTime(p.maxIdleTime)
}

// SQLiteDialect is the default local store
type SQLiteDialect struct{}

// NewSQLiteDialect creates a new SQLite dialect
func NewSQLiteDialect() *SQLiteDialect { return &SQLiteDialect{} }

func (d *SQLiteDialect) DriverName() string { return "sqlite3" }
func (d *SQLiteDialect) RewriteQuery(query string) string { return query }
func (d *SQLiteDialect) SupportsLastInsertId() bool { return true }
func (d *SQLiteDialect) MigrationsSubdir() string { return "sqlite" }

// sqliteParams are applied by the driver to every pooled connection it opens
const sqliteParams = "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"

// DSN appends the connection parameters to the database path
func (d *SQLiteDialect) DSN(config DialectConfig) string {
	sep := "?"
	if strings.Contains(config.Path, "?") {
		sep = "&"
	}
	return config.Path + sep + sqliteParams
}

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	defaultPool.apply(db)
	return nil
}

func (d *SQLiteDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT UNIQUE NOT NULL,
			executed_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
}

func (d *SQLiteDialect) UpsertQuery(table string, conflictCols, cols, updateCols []string) string {
	return onConflictUpsert(table, conflictCols, cols, updateCols)
}

// PostgresDialect targets a hosted PostgreSQL row-store. Placeholders are
// numbered and inserts report their id through RETURNING.
type PostgresDialect struct{}

// NewPostgresDialect creates a new PostgreSQL dialect
func NewPostgresDialect() *PostgresDialect { return &PostgresDialect{} }

func (d *PostgresDialect) DriverName() string { return "postgres" }
func (d *PostgresDialect) DSN(config DialectConfig) string { return config.URL }
func (d *PostgresDialect) SupportsLastInsertId() bool { return false }
func (d *PostgresDialect) MigrationsSubdir() string { return "postgres" }

func (d *PostgresDialect) RewriteQuery(query string) string {
	return rewritePlaceholdersToNumbered(query)
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	defaultPool.apply(db)
	return nil
}

func (d *PostgresDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT UNIQUE NOT NULL,
			executed_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`
}

func (d *PostgresDialect) UpsertQuery(table string, conflictCols, cols, updateCols []string) string {
	return onConflictUpsert(table, conflictCols, cols, updateCols)
}

// MySQLDialect needs parseTime=true in DATABASE_URL so DATETIME columns
// scan into time.Time. Foreign key checks are on by default server-side.
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect { return &MySQLDialect{} }

func (d *MySQLDialect) DriverName() string { return "mysql" }
func (d *MySQLDialect) DSN(config DialectConfig) string { return config.URL }
func (d *MySQLDialect) RewriteQuery(query string) string { return query }
func (d *MySQLDialect) SupportsLastInsertId() bool { return true }
func (d *MySQLDialect) MigrationsSubdir() string { return "mysql" }

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	defaultPool.apply(db)
	return nil
}

func (d *MySQLDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			executed_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
		);
	`
}

// UpsertQuery ignores conflictCols: MySQL resolves the conflict from the
// table's primary/unique keys.
func (d *MySQLDialect) UpsertQuery(table string, conflictCols, cols, updateCols []string) string {
	sets := make([]string, len(updateCols))
	for i, c := range updateCols {
		sets[i] = c + " = VALUES(" + c + ")"
	}
	return insertPrefix(table, cols) + " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
}

// dialectFor maps a DB_TYPE value to its dialect and connection settings
func dialectFor(dbType, path, url string) (Dialect, DialectConfig, bool) {
	switch strings.ToLower(dbType) {
	case "postgres", "postgresql":
		return NewPostgresDialect(), DialectConfig{URL: url}, true
	case "mysql":
		return NewMySQLDialect(), DialectConfig{URL: url}, true
	case "sqlite", "sqlite3", "":
		return NewSQLiteDialect(), DialectConfig{Path: path}, true
	}
	return nil, DialectConfig{}, false
}
