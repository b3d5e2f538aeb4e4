// Package readings declares the repository contract for scheduled readings.
package readings

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dailyword/internal/server/models"
)

type Repository interface {
	// FindByID returns common.ErrorNotFound when the reading does not exist.
	FindByID(ctx context.Context, id int64) (*models.Reading, error)

	// FindByDate returns the reading scheduled for the calendar day of date,
	// or common.ErrorNotFound.
	FindByDate(ctx context.Context, date time.Time) (*models.Reading, error)
}
