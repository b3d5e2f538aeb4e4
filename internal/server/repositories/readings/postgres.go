package readings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Reading, error) {
	query := `
		SELECT id, reading_date, reference, title FROM readings
		WHERE id = $1
	`
	return scanReading(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) FindByDate(ctx context.Context, date time.Time) (*models.Reading, error) {
	query := `
		SELECT id, reading_date, reference, title FROM readings
		WHERE reading_date = $1
	`
	return scanReading(r.db.QueryRowContext(ctx, query, date.Format(time.DateOnly)))
}

func scanReading(row *sql.Row) (*models.Reading, error) {
	reading := &models.Reading{}
	if err := row.Scan(&reading.ID, &reading.Date, &reading.Reference, &reading.Title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return reading, nil
}
