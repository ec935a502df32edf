// Package jobs persists the durable job record, the single point of
// coordination between the scheduling services.
package jobs

import "context"

// Status is the lifecycle state of a scheduled job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusDeleted   Status = "deleted"
)

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle step. The only legal advances are
// pending -> running -> {succeeded, failed} and pending -> deleted.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusRunning || next == StatusSucceeded ||
			next == StatusFailed || next == StatusDeleted
	case StatusRunning:
		return next == StatusSucceeded || next == StatusFailed
	}
	return false
}

// Record is one row per submission, keyed by (UserID, AddedAt). AddedAt is
// the submission epoch, immutable after creation and the only sort key, so
// the most recent job for a user is a descending scan limited to one row.
type Record struct {
	UserID       string `dynamodbav:"user_id" json:"user_id"`
	AddedAt      int64  `dynamodbav:"added_at" json:"added_at"`
	JobID        string `dynamodbav:"job_id" json:"job_id"`
	ScheduleTime string `dynamodbav:"schedule_time" json:"schedule_time"`
	Status       Status `dynamodbav:"status" json:"status"`
}

// Store provides access to job records. Each call targets one key or a
// bounded query; there are no multi-record transactions. Lookups that find
// nothing return (nil, nil).
type Store interface {
	// Put creates or replaces the record for (r.UserID, r.AddedAt).
	Put(ctx context.Context, r Record) error

	// Latest returns the most recently submitted record for the user.
	Latest(ctx context.Context, userID string) (*Record, error)

	// FindByJobID returns the user's record with the given job id. The
	// job id is not part of the key, so this is a filtered query on the
	// user's rows.
	FindByJobID(ctx context.Context, userID, jobID string) (*Record, error)

	// UpdateStatus overwrites only the status field of an existing record.
	UpdateStatus(ctx context.Context, userID string, addedAt int64, status Status) error

	// Delete removes the record.
	Delete(ctx context.Context, userID string, addedAt int64) error
}
