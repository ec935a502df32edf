// Package secretstore manages the per-user access token credential the
// compute runner reads at execution time.
package secretstore

import "context"

// Store holds named secret values. Creation and update are distinguished by
// probing existence first — an explicit check, never a caught not-found
// error used as control flow.
type Store interface {
	// Exists reports whether a secret with the given name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Create stores a new secret. The secret must not already exist.
	Create(ctx context.Context, name, value string) error

	// Update rotates the value of an existing secret.
	Update(ctx context.Context, name, value string) error
}
