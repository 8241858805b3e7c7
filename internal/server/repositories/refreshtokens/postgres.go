package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// PostgresRepository implements the token store over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

var (
	_ Repository = (*PostgresRepository)(nil)
	_ Rotator    = (*PostgresRepository)(nil)
)

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rt *models.RefreshToken) (*models.RefreshToken, error) {
	return insert(ctx, r.db, rt)
}

const (
	insertTokenSQL = `INSERT INTO refresh_tokens (user_id, token, expires_in, expires_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

	selectTokenSQL = `SELECT id, user_id, token, expires_in, expires_at, created_at, updated_at
FROM refresh_tokens
WHERE token = $1`

	deleteByTokenSQL  = `DELETE FROM refresh_tokens WHERE token = $1`
	deleteByUserIDSQL = `DELETE FROM refresh_tokens WHERE user_id = $1`
)

func insert(ctx context.Context, db dbx.DBTX, rt *models.RefreshToken) (*models.RefreshToken, error) {
	row := db.QueryRowContext(ctx, insertTokenSQL,
		rt.UserID, rt.Token, rt.ExpiresIn, rt.ExpiresAt, rt.CreatedAt, rt.UpdatedAt)
	if err := row.Scan(&rt.ID); err != nil {
		return nil, fmt.Errorf("insert refresh token: %w", err)
	}
	return rt, nil
}

// Find returns common.ErrorNotFound when no row holds token.
func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := r.db.QueryRowContext(ctx, selectTokenSQL, token).Scan(
		&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresIn, &rt.ExpiresAt, &rt.CreatedAt, &rt.UpdatedAt)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, common.ErrorNotFound
	case err != nil:
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &rt, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) (int64, error) {
	return execCount(ctx, r.db, deleteByTokenSQL, token)
}

func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	return execCount(ctx, r.db, deleteByUserIDSQL, userID)
}

// execCount runs a DELETE and reports how many rows it removed.
func execCount(ctx context.Context, db dbx.DBTX, query string, arg string) (int64, error) {
	res, err := db.ExecContext(ctx, query, arg)
	if err != nil {
		return 0, fmt.Errorf("delete refresh tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete refresh tokens: %w", err)
	}
	return n, nil
}

// Rotate deletes oldToken and inserts next in one transaction. When oldToken
// was already removed (a concurrent rotation won) nothing is inserted.
func (r *PostgresRepository) Rotate(ctx context.Context, oldToken string, next *models.RefreshToken) (*models.RefreshToken, error) {
	var stored *models.RefreshToken

	err := dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := execCount(ctx, tx, deleteByTokenSQL, oldToken)
		if err != nil {
			return err
		}
		if n == 0 {
			return common.ErrorNotFound
		}
		stored, err = insert(ctx, tx, next)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}
