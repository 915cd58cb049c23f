package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Driver identifies the store behind a DSN.
type Driver string

const (
	DriverPostgres Driver = "pgx"
	DriverSQLite   Driver = "sqlite"
	DriverMongo    Driver = "mongodb"
)

// ErrUnsupportedDSN is returned for an empty DSN or one with an unknown scheme.
var ErrUnsupportedDSN = errors.New("unsupported database dsn")

// pgUniqueViolation is the SQLSTATE of unique_violation.
const pgUniqueViolation = "23505"

// DetectDriver picks the driver from the DSN scheme:
//
//	postgres://, postgresql://      -> DriverPostgres
//	sqlite://path, sqlite:path, file: -> DriverSQLite
//	mongodb://, mongodb+srv://      -> DriverMongo
func DetectDriver(dsn string) (Driver, error) {
	d := strings.ToLower(strings.TrimSpace(dsn))
	switch {
	case d == "":
		return "", fmt.Errorf("%w: empty", ErrUnsupportedDSN)
	case strings.HasPrefix(d, "postgres://"), strings.HasPrefix(d, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(d, "sqlite:"), strings.HasPrefix(d, "file:"):
		return DriverSQLite, nil
	case strings.HasPrefix(d, "mongodb://"), strings.HasPrefix(d, "mongodb+srv://"):
		return DriverMongo, nil
	}
	return "", fmt.Errorf("%w: unknown scheme", ErrUnsupportedDSN)
}

// sqliteSource turns "sqlite://path" or "sqlite:path" into what the modernc
// driver expects. "file:" URIs are passed through.
func sqliteSource(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	for _, prefix := range []string{"sqlite://", "sqlite:"} {
		if len(dsn) >= len(prefix) && strings.EqualFold(dsn[:len(prefix)], prefix) {
			return dsn[len(prefix):]
		}
	}
	return dsn
}

// Open opens and pings a database/sql pool for a Postgres or SQLite DSN.
func Open(ctx context.Context, dsn string) (*sql.DB, Driver, error) {
	driver, err := DetectDriver(dsn)
	if err != nil {
		return nil, "", err
	}

	var db *sql.DB
	switch driver {
	case DriverPostgres:
		db, err = sql.Open(string(DriverPostgres), dsn)
	case DriverSQLite:
		db, err = sql.Open(string(DriverSQLite), sqliteSource(dsn))
		if err == nil {
			// a single connection keeps ":memory:" databases alive and
			// serialises writers
			db.SetMaxOpenConns(1)
		}
	default:
		return nil, "", fmt.Errorf("%w: %s is not a sql store", ErrUnsupportedDSN, driver)
	}
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", driver, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", driver, err)
	}

	return db, driver, nil
}

// IsUniqueViolation reports whether err is a unique constraint failure from
// either SQL driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
	}

	return false
}
