package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/sociopedia/internal/dbx"
	"github.com/dmitrijs2005/sociopedia/internal/server/migrations"
	"github.com/dmitrijs2005/sociopedia/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewSQLRepositoryManager_ReturnsInterface(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	for _, d := range []dbx.Driver{dbx.DriverPostgres, dbx.DriverSQLite} {
		m, err := NewSQLRepositoryManager(db, d)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var _ RepositoryManager = m
		var _ users.Repository = m.Users()
		if m.Users() == nil {
			t.Fatal("Users() nil")
		}
	}

	if _, err := NewSQLRepositoryManager(db, dbx.DriverMongo); !errors.Is(err, dbx.ErrUnsupportedDSN) {
		t.Fatalf("expected ErrUnsupportedDSN, got %v", err)
	}
}

func TestRunMigrations_UsesDialectDirectory(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	for driver, wantDir := range map[dbx.Driver]string{
		dbx.DriverPostgres: migrations.PostgresDir,
		dbx.DriverSQLite:   migrations.SQLiteDir,
	} {
		var gotDir string
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			gotDir = dir
			if len(opts) != 0 {
				return errors.New("unexpected opts")
			}
			return nil
		}

		m, err := NewSQLRepositoryManager(db, driver)
		require.NoError(t, err)
		require.NoError(t, m.RunMigrations(context.Background()))
		assert.Equal(t, wantDir, gotDir)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m, _ := NewSQLRepositoryManager(db, dbx.DriverPostgres)
	if err := m.RunMigrations(context.Background()); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestNewRepositoryManager_SQLiteEndToEnd(t *testing.T) {
	ctx := context.Background()

	m, err := NewRepositoryManager(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close(ctx) })

	require.NoError(t, m.RunMigrations(ctx))
	require.NoError(t, m.RunMigrations(ctx), "migrations are idempotent")
	require.NoError(t, m.Ping(ctx))

	_, err = m.Users().GetUserByEmail(ctx, "nobody@example.com")
	assert.Error(t, err)
}

func TestNewRepositoryManager_BadDSN(t *testing.T) {
	_, err := NewRepositoryManager(context.Background(), "redis://localhost")
	assert.ErrorIs(t, err, dbx.ErrUnsupportedDSN)
}
