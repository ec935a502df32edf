package history_test

import (
	"testing"
	"time"

	"gits-go/internal/config"
	"gits-go/internal/history"
)

func TestSQLiteLog(t *testing.T) {
	t.Run("records and lists submissions newest first", func(t *testing.T) {
		log, err := history.NewSQLiteLog(":memory:")
		if err != nil {
			t.Fatalf("NewSQLiteLog() error = %v", err)
		}
		defer log.Close()

		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		for i, jobID := range []string{"gits-a", "gits-b", "gits-c"} {
			sub := &history.Submission{
				JobID:         jobID,
				ScheduleTime:  "2025-06-01T13:00:00Z",
				RepoURL:       "https://github.com/someone/repo.git",
				CommitMessage: "checkpoint",
				CreatedAt:     base.Add(time.Duration(i) * time.Minute),
			}
			if err := log.Record(sub); err != nil {
				t.Fatalf("Record(%s) error = %v", jobID, err)
			}
			if sub.ID == 0 {
				t.Errorf("Record(%s) did not assign an id", jobID)
			}
		}

		subs, err := log.List(10)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(subs) != 3 {
			t.Fatalf("List() returned %d submissions, want 3", len(subs))
		}
		if subs[0].JobID != "gits-c" || subs[2].JobID != "gits-a" {
			t.Errorf("order = [%s %s %s], want newest first", subs[0].JobID, subs[1].JobID, subs[2].JobID)
		}
		if subs[0].RepoURL != "https://github.com/someone/repo.git" {
			t.Errorf("RepoURL = %q, want persisted value", subs[0].RepoURL)
		}
	})

	t.Run("honors the list limit", func(t *testing.T) {
		log, err := history.NewSQLiteLog(":memory:")
		if err != nil {
			t.Fatalf("NewSQLiteLog() error = %v", err)
		}
		defer log.Close()

		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		for i := 0; i < 5; i++ {
			sub := &history.Submission{
				JobID:        "gits-x",
				ScheduleTime: "2025-06-01T13:00:00Z",
				CreatedAt:    base.Add(time.Duration(i) * time.Second),
			}
			if err := log.Record(sub); err != nil {
				t.Fatalf("Record() error = %v", err)
			}
		}

		subs, err := log.List(2)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(subs) != 2 {
			t.Errorf("List(2) returned %d submissions, want 2", len(subs))
		}
	})

	t.Run("empty log lists nothing", func(t *testing.T) {
		log, err := history.NewSQLiteLog(":memory:")
		if err != nil {
			t.Fatalf("NewSQLiteLog() error = %v", err)
		}
		defer log.Close()

		subs, err := log.List(10)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(subs) != 0 {
			t.Errorf("List() returned %d submissions, want 0", len(subs))
		}
	})
}

func TestNewLogFromConfig(t *testing.T) {
	t.Run("sqlite type creates the database under data_dir", func(t *testing.T) {
		log, err := history.NewLogFromConfig(config.HistoryConfig{Type: "sqlite", DataDir: t.TempDir()})
		if err != nil {
			t.Fatalf("NewLogFromConfig() error = %v", err)
		}
		log.Close()
	})

	t.Run("sqlite type requires data_dir", func(t *testing.T) {
		if _, err := history.NewLogFromConfig(config.HistoryConfig{Type: "sqlite"}); err == nil {
			t.Error("NewLogFromConfig() error = nil, want data_dir requirement")
		}
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		if _, err := history.NewLogFromConfig(config.HistoryConfig{Type: "postgres"}); err == nil {
			t.Error("NewLogFromConfig() error = nil, want unknown-type rejection")
		}
	})
}
