// Package trigger registers and tears down the one-shot time triggers that
// fire the compute runner.
package trigger

import "context"

// Payload is carried by the trigger into the compute runner as environment
// overrides. It references the stored artifact and credential by name; the
// raw token never travels through the trigger service.
type Payload struct {
	S3Path            string
	RepoURL           string
	TokenSecret       string
	GitHubUsername    string
	GitHubDisplayName string
	GitHubEmail       string
	CommitMessage     string
	UserID            string
}

// Service registers time-based triggers bound 1:1 to a job record by shared
// name. The cron expression pins minute, hour, day, month and year, so a
// rule matches at most once; firing is assumed one-shot and the rule is left
// registered afterward. Only cancellation removes it.
type Service interface {
	// Register creates a trigger with the given name and cron expression,
	// targeting the compute runner with p as its invocation payload.
	Register(ctx context.Context, name, cronExpr string, p Payload) error

	// Remove unbinds the trigger's target and deletes the trigger.
	// An already-absent trigger is treated as success: it is evidence of
	// prior partial cleanup, not a new fault.
	Remove(ctx context.Context, name string) error
}
