// Package runner inspects finished compute-runner executions so their
// completion signals can be attributed to a user.
package runner

import "context"

// Inspector resolves an execution identifier to the user that owns it, by
// reading the runner's own recorded parameters rather than re-deriving
// anything from the trigger. Returns ("", nil) when the execution exists but
// carries no user identity.
type Inspector interface {
	BuildOwner(ctx context.Context, buildID string) (string, error)
}
