package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dailyword/internal/common"
	"github.com/dmitrijs2005/dailyword/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetPreferredVersionID(ctx context.Context, userID string) (int64, error) {
	query :=
		`SELECT preferred_version_id FROM users
		 WHERE id = $1
		 `

	var id sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id.Int64, nil
}

func (r *PostgresRepository) SetPreferredVersion(ctx context.Context, userID string, versionID int64) error {
	query :=
		`UPDATE users SET preferred_version_id = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userID, versionID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
