// Package objectstore holds submitted artifacts until the compute runner
// picks them up.
package objectstore

import (
	"context"
	"io"
)

// Store is durable object storage for artifacts. Keys are unique per
// submission; orphaned objects from failed orchestrations are accepted and
// reconciled manually, so there is no delete operation here.
type Store interface {
	// Put stores the content read from r under key and returns the
	// location the compute runner will be handed (e.g. s3://bucket/key).
	// size is the number of bytes that will be read from r.
	Put(ctx context.Context, key string, r io.Reader, size int64) (string, error)
}
