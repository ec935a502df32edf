package scheduler_test

import (
	"context"
	"testing"

	"gits-go/internal/jobs"
	"gits-go/internal/testutil"
)

func seedRecord(t *testing.T, f *testutil.ServiceFixture, status jobs.Status) jobs.Record {
	t.Helper()
	record := jobs.Record{
		UserID:       "user-1",
		AddedAt:      f.Clock.Now().Unix(),
		JobID:        "gits-id-1",
		ScheduleTime: "2025-06-01T13:00:00Z",
		Status:       status,
	}
	if err := f.Jobs.Put(context.Background(), record); err != nil {
		t.Fatalf("seeding record: %v", err)
	}
	return record
}

func latestStatus(t *testing.T, f *testutil.ServiceFixture) jobs.Status {
	t.Helper()
	record, err := f.Jobs.Latest(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if record == nil {
		t.Fatal("no record found")
	}
	return record.Status
}

func TestService_CompleteBuild(t *testing.T) {
	t.Run("IN_PROGRESS moves a pending job to running", func(t *testing.T) {
		f := testutil.NewServiceFixture()
		seedRecord(t, f, jobs.StatusPending)
		f.Runner.AddBuild("build-1", "user-1")

		if err := f.Service.CompleteBuild(context.Background(), "build-1", "IN_PROGRESS"); err != nil {
			t.Fatalf("CompleteBuild() error = %v", err)
		}
		if got := latestStatus(t, f); got != jobs.StatusRunning {
			t.Errorf("status = %q, want running", got)
		}
	})

	t.Run("SUCCEEDED moves a running job to succeeded", func(t *testing.T) {
		f := testutil.NewServiceFixture()
		seedRecord(t, f, jobs.StatusRunning)
		f.Runner.AddBuild("build-1", "user-1")

		if err := f.Service.CompleteBuild(context.Background(), "build-1", "SUCCEEDED"); err != nil {
			t.Fatalf("CompleteBuild() error = %v", err)
		}
		if got := latestStatus(t, f); got != jobs.StatusSucceeded {
			t.Errorf("status = %q, want succeeded", got)
		}
	})

	t.Run("every failure-shaped runner state maps to failed", func(t *testing.T) {
		for _, buildStatus := range []string{"FAILED", "FAULT", "STOPPED", "TIMED_OUT"} {
			t.Run(buildStatus, func(t *testing.T) {
				f := testutil.NewServiceFixture()
				seedRecord(t, f, jobs.StatusRunning)
				f.Runner.AddBuild("build-1", "user-1")

				if err := f.Service.CompleteBuild(context.Background(), "build-1", buildStatus); err != nil {
					t.Fatalf("CompleteBuild(%s) error = %v", buildStatus, err)
				}
				if got := latestStatus(t, f); got != jobs.StatusFailed {
					t.Errorf("status = %q, want failed", got)
				}
			})
		}
	})

	t.Run("unknown runner state is a no-op", func(t *testing.T) {
		f := testutil.NewServiceFixture()
		seedRecord(t, f, jobs.StatusPending)
		f.Runner.AddBuild("build-1", "user-1")

		if err := f.Service.CompleteBuild(context.Background(), "build-1", "PROVISIONING"); err != nil {
			t.Fatalf("CompleteBuild() error = %v", err)
		}
		if got := latestStatus(t, f); got != jobs.StatusPending {
			t.Errorf("status = %q, want pending untouched", got)
		}
	})

	t.Run("unresolvable build owner is a no-op", func(t *testing.T) {
		f := testutil.NewServiceFixture()
		seedRecord(t, f, jobs.StatusPending)

		if err := f.Service.CompleteBuild(context.Background(), "ghost-build", "SUCCEEDED"); err != nil {
			t.Fatalf("CompleteBuild() error = %v", err)
		}
		if got := latestStatus(t, f); got != jobs.StatusPending {
			t.Errorf("status = %q, want pending untouched", got)
		}
	})

	t.Run("build without a user identity is a no-op", func(t *testing.T) {
		f := testutil.NewServiceFixture()
		seedRecord(t, f, jobs.StatusPending)
		f.Runner.AddBuild("build-1", "")

		if err := f.Service.CompleteBuild(context.Background(), "build-1", "SUCCEEDED"); err != nil {
			t.Fatalf("CompleteBuild() error = %v", err)
		}
		if got := latestStatus(t, f); got != jobs.StatusPending {
			t.Errorf("status = %q, want pending untouched", got)
		}
	})

	t.Run("owner without any job record is a no-op", func(t *testing.T) {
		f := testutil.NewServiceFixture()
		f.Runner.AddBuild("build-1", "user-1")

		if err := f.Service.CompleteBuild(context.Background(), "build-1", "SUCCEEDED"); err != nil {
			t.Fatalf("CompleteBuild() error = %v", err)
		}
	})

	t.Run("illegal transition is ignored", func(t *testing.T) {
		f := testutil.NewServiceFixture()
		seedRecord(t, f, jobs.StatusSucceeded)
		f.Runner.AddBuild("build-1", "user-1")

		if err := f.Service.CompleteBuild(context.Background(), "build-1", "IN_PROGRESS"); err != nil {
			t.Fatalf("CompleteBuild() error = %v", err)
		}
		if got := latestStatus(t, f); got != jobs.StatusSucceeded {
			t.Errorf("status = %q, want succeeded untouched", got)
		}
	})

	t.Run("a late IN_PROGRESS cannot roll back a terminal status", func(t *testing.T) {
		f := testutil.NewServiceFixture()
		seedRecord(t, f, jobs.StatusRunning)
		f.Runner.AddBuild("build-1", "user-1")

		if err := f.Service.CompleteBuild(context.Background(), "build-1", "FAILED"); err != nil {
			t.Fatalf("CompleteBuild(FAILED) error = %v", err)
		}
		if err := f.Service.CompleteBuild(context.Background(), "build-1", "IN_PROGRESS"); err != nil {
			t.Fatalf("CompleteBuild(IN_PROGRESS) error = %v", err)
		}
		if got := latestStatus(t, f); got != jobs.StatusFailed {
			t.Errorf("status = %q, want failed to stick", got)
		}
	})
}
