package passages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dailyword/internal/common"
	"github.com/dmitrijs2005/dailyword/internal/dbx"
	"github.com/dmitrijs2005/dailyword/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Find(ctx context.Context, readingID, versionID int64) (*models.Passage, error) {
	query := `
		SELECT content FROM passages
		WHERE reading_id = $1 AND version_id = $2
	`
	p := &models.Passage{ReadingID: readingID, VersionID: versionID}
	if err := r.db.QueryRowContext(ctx, query, readingID, versionID).Scan(&p.Content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, passage *models.Passage) error {
	query := `
		INSERT INTO passages (reading_id, version_id, content)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, passage.ReadingID, passage.VersionID, passage.Content); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
