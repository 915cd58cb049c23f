// Package repomanager opens the identity store named by a DSN and vends its
// repositories. SQL stores are migrated with goose; MongoDB gets its indexes.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/sociopedia/internal/dbx"
	"github.com/dmitrijs2005/sociopedia/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// NewRepositoryManager connects to the store selected by the DSN scheme.
func NewRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {
	driver, err := dbx.DetectDriver(dsn)
	if err != nil {
		return nil, err
	}

	if driver == dbx.DriverMongo {
		return NewMongoRepositoryManager(ctx, dsn)
	}

	db, driver, err := dbx.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return NewSQLRepositoryManager(db, driver)
}
