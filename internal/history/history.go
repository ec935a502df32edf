// Package history keeps a local log of accepted submissions so the CLI can
// show what was scheduled without a network round trip.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gits-go/internal/config"
)

// Submission is one accepted job submission.
type Submission struct {
	ID            int64
	JobID         string
	ScheduleTime  string
	RepoURL       string
	CommitMessage string
	CreatedAt     time.Time
}

// Log records and lists submissions.
type Log interface {
	// Record appends a submission to the log.
	Record(sub *Submission) error

	// List returns the most recent submissions, newest first, up to limit.
	List(limit int) ([]*Submission, error)

	// Close closes the underlying store.
	Close() error
}

// NewLogFromConfig creates a Log implementation based on the history config type.
func NewLogFromConfig(cfg config.HistoryConfig) (Log, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite history")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
		return NewSQLiteLog(filepath.Join(cfg.DataDir, "history.db"))
	case "memory":
		return NewSQLiteLog(":memory:")
	default:
		return nil, fmt.Errorf("unknown history type: %s", cfg.Type)
	}
}
