// Package settings declares the repository contract for persisted key/value
// settings, such as the configured default version.
package settings

import "context"

type Repository interface {
	// Get returns the value stored under key, or common.ErrorNotFound.
	Get(ctx context.Context, key string) (string, error)
}
