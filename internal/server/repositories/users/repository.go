// Package users declares the repository contract for the account fields this
// server needs.
package users

import (
	"context"
)

type Repository interface {
	// GetPreferredVersionID returns the user's preferred version id, 0 when
	// unset, or common.ErrorNotFound for an unknown user.
	GetPreferredVersionID(ctx context.Context, userID string) (int64, error)

	// SetPreferredVersion stores versionID as the user's preference.
	SetPreferredVersion(ctx context.Context, userID string, versionID int64) error
}
