package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/sociopedia/internal/dbx"
	"github.com/dmitrijs2005/sociopedia/internal/server/migrations"
	"github.com/dmitrijs2005/sociopedia/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager serves Postgres and SQLite through database/sql.
type SQLRepositoryManager struct {
	db     *sql.DB
	driver dbx.Driver
	users  users.Repository
}

// NewSQLRepositoryManager binds repositories to an open pool.
func NewSQLRepositoryManager(db *sql.DB, driver dbx.Driver) (*SQLRepositoryManager, error) {
	m := &SQLRepositoryManager{db: db, driver: driver}

	switch driver {
	case dbx.DriverPostgres:
		m.users = users.NewPostgresRepository(db)
	case dbx.DriverSQLite:
		m.users = users.NewSQLiteRepository(db)
	default:
		return nil, fmt.Errorf("%w: %s", dbx.ErrUnsupportedDSN, driver)
	}

	return m, nil
}

func (m *SQLRepositoryManager) Users() users.Repository {
	return m.users
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations of the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	dialect, dir := "pgx", migrations.PostgresDir
	if m.driver == dbx.DriverSQLite {
		dialect, dir = "sqlite3", migrations.SQLiteDir
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, dir); err != nil {
		return err
	}
	return nil
}

func (m *SQLRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *SQLRepositoryManager) Close(context.Context) error {
	return m.db.Close()
}
