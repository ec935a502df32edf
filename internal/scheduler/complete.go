package scheduler

import (
	"context"
	"fmt"

	"gits-go/internal/jobs"
)

// buildStatuses maps the compute runner's terminal and in-flight states onto
// the job lifecycle.
var buildStatuses = map[string]jobs.Status{
	"IN_PROGRESS": jobs.StatusRunning,
	"SUCCEEDED":   jobs.StatusSucceeded,
	"FAILED":      jobs.StatusFailed,
	"FAULT":       jobs.StatusFailed,
	"STOPPED":     jobs.StatusFailed,
	"TIMED_OUT":   jobs.StatusFailed,
}

// CompleteBuild records the outcome of a compute-runner execution: it
// resolves the build to its owning user, finds that user's most recent job
// record, and advances only its status. The signal is best-effort — a
// missing identity, missing record, or illegal transition is a logged no-op,
// and callers are expected not to treat any returned error as a hard
// failure.
func (s *Service) CompleteBuild(ctx context.Context, buildID, buildStatus string) error {
	next, ok := buildStatuses[buildStatus]
	if !ok {
		s.logger.Warn("ignoring unknown build status", "build_id", buildID, "status", buildStatus)
		return nil
	}

	userID, err := s.inspector.BuildOwner(ctx, buildID)
	if err != nil {
		s.logger.Warn("cannot resolve build owner", "build_id", buildID, "error", err)
		return nil
	}
	if userID == "" {
		s.logger.Warn("build carries no user identity", "build_id", buildID)
		return nil
	}

	record, err := s.store.Latest(ctx, userID)
	if err != nil {
		return fmt.Errorf("looking up latest job record: %w", err)
	}
	if record == nil {
		s.logger.Warn("no job record for completed build", "build_id", buildID, "user_id", userID)
		return nil
	}

	if !record.Status.CanTransitionTo(next) {
		s.logger.Warn("ignoring illegal status transition",
			"job_id", record.JobID, "from", record.Status, "to", next)
		return nil
	}

	if err := s.store.UpdateStatus(ctx, record.UserID, record.AddedAt, next); err != nil {
		return fmt.Errorf("updating job status: %w", err)
	}

	s.logger.Info("job status updated", "job_id", record.JobID, "status", next)
	return nil
}
