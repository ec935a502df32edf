package scheduler

import (
	"context"
	"fmt"

	"gits-go/internal/api"
	"gits-go/internal/jobs"
)

// Status returns the most recently submitted job record for a user.
// Read-only. A user with no records yields ErrJobNotFound.
func (s *Service) Status(ctx context.Context, userID string) (*api.StatusResponse, error) {
	if userID == "" {
		return nil, inputErrorf("user_id is required")
	}

	record, err := s.store.Latest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("looking up latest job record: %w", err)
	}
	if record == nil {
		return nil, ErrJobNotFound
	}

	return &api.StatusResponse{
		JobID:        record.JobID,
		ScheduleTime: record.ScheduleTime,
		Status:       string(record.Status),
	}, nil
}

// Cancel enforces the only legal user-initiated transition: pending ->
// deleted. The trigger is torn down first, then the record removed; a
// teardown failure is fatal and deliberately leaves the record in place so
// the inconsistency stays visible. Cancellation may race a completion
// update — losing that race correctly fails with NotCancellableError.
func (s *Service) Cancel(ctx context.Context, jobID, userID string) error {
	if jobID == "" || userID == "" {
		return inputErrorf("job_id and user_id are required")
	}

	record, err := s.store.FindByJobID(ctx, userID, jobID)
	if err != nil {
		return fmt.Errorf("looking up job record: %w", err)
	}
	if record == nil {
		return ErrJobNotFound
	}

	if record.Status != jobs.StatusPending {
		return &NotCancellableError{JobID: jobID, Status: record.Status}
	}

	if err := s.triggers.Remove(ctx, jobID); err != nil {
		// Record kept: the surviving half of the pair stays visible
		// for manual cleanup.
		return fmt.Errorf("removing trigger: %w", err)
	}

	if err := s.store.Delete(ctx, record.UserID, record.AddedAt); err != nil {
		return fmt.Errorf("deleting job record: %w", err)
	}

	s.logger.Info("job cancelled", "job_id", jobID, "user_id", userID)
	return nil
}
