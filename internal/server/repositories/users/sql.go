package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sociopedia/internal/common"
	"github.com/dmitrijs2005/sociopedia/internal/dbx"
	"github.com/dmitrijs2005/sociopedia/internal/server/models"
)

const userColumns = `id, email, password_hash, first_name, last_name, picture_path,
		        location, occupation, viewed_profile, impressions, created_at`

type queries struct {
	insert  string
	byEmail string
	byID    string
}

var postgresQueries = queries{
	insert: `INSERT INTO users (` + userColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
	byEmail: `SELECT ` + userColumns + ` FROM users
		 WHERE email = $1`,
	byID: `SELECT ` + userColumns + ` FROM users
		 WHERE id = $1`,
}

var sqliteQueries = queries{
	insert: `INSERT INTO users (` + userColumns + `)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	byEmail: `SELECT ` + userColumns + ` FROM users
		 WHERE email = ?`,
	byID: `SELECT ` + userColumns + ` FROM users
		 WHERE id = ?`,
}

// SQLRepository is the database/sql implementation shared by Postgres and
// SQLite; only the placeholder syntax differs.
type SQLRepository struct {
	db dbx.DBTX
	q  queries
}

func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: postgresQueries}
}

func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: sqliteQueries}
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	_, err := r.db.ExecContext(ctx, r.q.insert,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.PicturePath,
		user.Location, user.Occupation, user.ViewedProfile, user.Impressions, user.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicateIdentifier
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, r.q.byEmail, email)
}

func (r *SQLRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, r.q.byID, id)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, arg string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.PicturePath,
		&user.Location, &user.Occupation, &user.ViewedProfile, &user.Impressions, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
