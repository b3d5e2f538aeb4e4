// Package passages declares the repository contract for the persisted
// passage cache, keyed by (reading, version).
package passages

import (
	"context"

	"github.com/dmitrijs2005/dailyword/internal/server/models"
)

type Repository interface {
	// Find returns the cached passage or common.ErrorNotFound.
	Find(ctx context.Context, readingID, versionID int64) (*models.Passage, error)

	// Create stores a new entry. An entry that already exists for the pair
	// yields common.ErrAlreadyExists; entries are never overwritten.
	Create(ctx context.Context, passage *models.Passage) error
}
