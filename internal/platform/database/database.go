package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/tsirionantsoa/taskhub/config"
)

// DB wraps a database/sql handle with the driver it was opened with, so
// repositories can write their queries once and run them on either engine.
type DB struct {
	*sql.DB
	driver string
}

// New wraps an already opened handle.
func New(db *sql.DB, driver string) *DB {
	return &DB{DB: db, driver: driver}
}

// Open connects to the configured engine and applies the schema.
// Postgres migrations go through the pgx pool; see MigratePostgres.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// OpenPostgres opens a lib/pq backed handle. The schema is not applied here.
func OpenPostgres(ctx context.Context, dsn string) (*DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres db: %w", err)
	}
	return New(sqlDB, config.DriverPostgres), nil
}

// OpenSQLite opens (creating if needed) a SQLite file with foreign keys on
// and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer at a time; also keeps the foreign_keys pragma on every statement
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := MigrateSQLite(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return New(sqlDB, config.DriverSQLite), nil
}

// Driver returns the engine name.
func (db *DB) Driver() string {
	return db.driver
}

var placeholderRe = regexp.MustCompile(`\$\d+`)

// Rebind converts $n placeholders for engines that expect "?".
// Queries must reference each parameter once, in order.
func (db *DB) Rebind(query string) string {
	if db.driver != config.DriverSQLite {
		return query
	}
	return placeholderRe.ReplaceAllString(query, "?")
}

// WithTx runs fn inside a transaction, committing on nil and rolling back
// otherwise. fn must only use tx; the handle may have a single connection.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

// IsUniqueViolation reports whether err comes from a unique constraint on
// either supported engine.
func IsUniqueViolation(err error) bool {
	return isConstraint(err, "23505", sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY)
}

// IsForeignKeyViolation reports whether err comes from a foreign key whose
// parent row is missing.
func IsForeignKeyViolation(err error) bool {
	return isConstraint(err, "23503", sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY)
}

func isConstraint(err error, pgCode string, sqliteCodes ...int) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgCode
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCode
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		for _, code := range sqliteCodes {
			if sqliteErr.Code() == code {
				return true
			}
		}
	}
	return false
}
