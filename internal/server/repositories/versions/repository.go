// Package versions declares the repository contract for local Version rows.
package versions

import (
	"context"

	"github.com/dmitrijs2005/dailyword/internal/server/models"
)

// Repository looks up and creates Version rows. Versions are never updated
// or deleted here.
type Repository interface {
	// FindByCode returns common.ErrorNotFound when no row has the code.
	FindByCode(ctx context.Context, code string) (*models.Version, error)

	// FindByID returns common.ErrorNotFound when no row has the id.
	FindByID(ctx context.Context, id int64) (*models.Version, error)

	// Create inserts a Version and fills its ID. A concurrent writer that
	// already inserted the same code yields common.ErrAlreadyExists.
	Create(ctx context.Context, version *models.Version) (*models.Version, error)
}
