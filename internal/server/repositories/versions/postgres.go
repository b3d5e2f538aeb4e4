package versions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dailyword/internal/common"
	"github.com/dmitrijs2005/dailyword/internal/dbx"
	"github.com/dmitrijs2005/dailyword/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByCode(ctx context.Context, code string) (*models.Version, error) {
	query := `
		SELECT id, code, title FROM versions
		WHERE code = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, code))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Version, error) {
	query := `
		SELECT id, code, title FROM versions
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Create(ctx context.Context, version *models.Version) (*models.Version, error) {
	query := `
		INSERT INTO versions (code, title)
		VALUES ($1, $2)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, version.Code, version.Title).Scan(&version.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return version, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Version, error) {
	v := &models.Version{}
	if err := row.Scan(&v.ID, &v.Code, &v.Title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}
