package scheduler_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gits-go/internal/api"
	"gits-go/internal/jobs"
	"gits-go/internal/scheduler"
	"gits-go/internal/testutil"
)

func validRequest() api.ScheduleRequest {
	return api.ScheduleRequest{
		ScheduleTime:      "2025-06-01T13:00:00Z",
		RepoURL:           "https://github.com/someone/repo.git",
		ZipFilename:       "changes.zip",
		ZipBase64:         base64.StdEncoding.EncodeToString([]byte("zip-bytes")),
		GitHubTokenSecret: "gits/token/user-1",
		GitHubUser:        "octocat",
		GitHubEmail:       "octocat@example.com",
		CommitMessage:     "checkpoint",
		UserID:            "user-1",
	}
}

func TestService_Schedule(t *testing.T) {
	t.Run("stores artifact, registers trigger and persists pending record", func(t *testing.T) {
		f := testutil.NewServiceFixture()

		resp, err := f.Service.Schedule(context.Background(), validRequest())
		if err != nil {
			t.Fatalf("Schedule() error = %v", err)
		}

		if resp.Message != "Scheduled" {
			t.Errorf("Message = %q, want %q", resp.Message, "Scheduled")
		}
		if resp.RuleName != "gits-id-1" {
			t.Errorf("RuleName = %q, want %q", resp.RuleName, "gits-id-1")
		}
		if resp.CronExpression != "0 13 1 6 ? 2025" {
			t.Errorf("CronExpression = %q, want %q", resp.CronExpression, "0 13 1 6 ? 2025")
		}

		wantKey := fmt.Sprintf("changes-%d/changes.zip", f.Clock.Now().Unix())
		wantPath := "s3://test-bucket/" + wantKey
		if resp.S3Path != wantPath {
			t.Errorf("S3Path = %q, want %q", resp.S3Path, wantPath)
		}
		if data, ok := f.Objects.Get(wantKey); !ok || string(data) != "zip-bytes" {
			t.Errorf("stored object = %q, %v, want decoded zip bytes", data, ok)
		}

		cronExpr, payload, ok := f.Triggers.Registered("gits-id-1")
		if !ok {
			t.Fatal("trigger not registered under rule name")
		}
		if cronExpr != "cron(0 13 1 6 ? 2025)" {
			t.Errorf("trigger expression = %q, want cron-wrapped", cronExpr)
		}
		if payload.S3Path != wantPath || payload.UserID != "user-1" {
			t.Errorf("trigger payload = %+v, want artifact path and user id", payload)
		}

		record, err := f.Jobs.Latest(context.Background(), "user-1")
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if record == nil {
			t.Fatal("no job record persisted")
		}
		if record.JobID != "gits-id-1" {
			t.Errorf("record.JobID = %q, want %q", record.JobID, "gits-id-1")
		}
		if record.Status != jobs.StatusPending {
			t.Errorf("record.Status = %q, want pending", record.Status)
		}
		if record.ScheduleTime != "2025-06-01T13:00:00Z" {
			t.Errorf("record.ScheduleTime = %q, want wire format", record.ScheduleTime)
		}
	})

	t.Run("reports all missing required fields at once", func(t *testing.T) {
		f := testutil.NewServiceFixture()

		_, err := f.Service.Schedule(context.Background(), api.ScheduleRequest{})
		var inputErr *scheduler.InputError
		if !errors.As(err, &inputErr) {
			t.Fatalf("Schedule() error = %v, want InputError", err)
		}
		for _, field := range []string{"schedule_time", "repo_url", "zip_filename", "zip_base64", "github_token_secret", "user_id"} {
			if !strings.Contains(inputErr.Reason, field) {
				t.Errorf("error %q does not name missing field %s", inputErr.Reason, field)
			}
		}
		if f.Objects.Count() != 0 {
			t.Errorf("objects stored = %d, want 0 after input rejection", f.Objects.Count())
		}
	})

	t.Run("rejects a schedule time in the past", func(t *testing.T) {
		f := testutil.NewServiceFixture()

		req := validRequest()
		req.ScheduleTime = "2020-01-01T00:00:00Z"
		_, err := f.Service.Schedule(context.Background(), req)
		var inputErr *scheduler.InputError
		if !errors.As(err, &inputErr) {
			t.Fatalf("Schedule() error = %v, want InputError", err)
		}
		if f.Objects.Count() != 0 {
			t.Errorf("objects stored = %d, want 0", f.Objects.Count())
		}
	})

	t.Run("rejects a non-wire-format schedule time", func(t *testing.T) {
		f := testutil.NewServiceFixture()

		req := validRequest()
		req.ScheduleTime = "2025-06-01 13:00:00"
		_, err := f.Service.Schedule(context.Background(), req)
		var inputErr *scheduler.InputError
		if !errors.As(err, &inputErr) {
			t.Fatalf("Schedule() error = %v, want InputError", err)
		}
	})

	t.Run("rejects malformed base64", func(t *testing.T) {
		f := testutil.NewServiceFixture()

		req := validRequest()
		req.ZipBase64 = "not-base64!!!"
		_, err := f.Service.Schedule(context.Background(), req)
		var inputErr *scheduler.InputError
		if !errors.As(err, &inputErr) {
			t.Fatalf("Schedule() error = %v, want InputError", err)
		}
	})

	t.Run("creates the secret on first submission and rotates it after", func(t *testing.T) {
		f := testutil.NewServiceFixture()

		req := validRequest()
		req.GitHubToken = "sealed:tok-one"
		if _, err := f.Service.Schedule(context.Background(), req); err != nil {
			t.Fatalf("first Schedule() error = %v", err)
		}
		if got, ok := f.Secrets.Value("gits/token/user-1"); !ok || got != "tok-one" {
			t.Errorf("secret = %q, %v, want created with unsealed token", got, ok)
		}

		req.GitHubToken = "sealed:tok-two"
		if _, err := f.Service.Schedule(context.Background(), req); err != nil {
			t.Fatalf("second Schedule() error = %v", err)
		}
		if got, _ := f.Secrets.Value("gits/token/user-1"); got != "tok-two" {
			t.Errorf("secret = %q, want rotated to tok-two", got)
		}
	})

	t.Run("submission without a token leaves the secret untouched", func(t *testing.T) {
		f := testutil.NewServiceFixture()

		if _, err := f.Service.Schedule(context.Background(), validRequest()); err != nil {
			t.Fatalf("Schedule() error = %v", err)
		}
		if _, ok := f.Secrets.Value("gits/token/user-1"); ok {
			t.Error("secret written despite empty github_token")
		}
	})

	t.Run("unsealable token is rejected as input", func(t *testing.T) {
		f := testutil.NewServiceFixture()

		req := validRequest()
		req.GitHubToken = "garbage"
		_, err := f.Service.Schedule(context.Background(), req)
		var inputErr *scheduler.InputError
		if !errors.As(err, &inputErr) {
			t.Fatalf("Schedule() error = %v, want InputError", err)
		}
	})

	t.Run("storage failure stops before the trigger is registered", func(t *testing.T) {
		f := testutil.NewServiceFixture()
		f.Objects.PutErr = errors.New("bucket unavailable")

		_, err := f.Service.Schedule(context.Background(), validRequest())
		if err == nil {
			t.Fatal("Schedule() error = nil, want storage failure")
		}
		if f.Triggers.Count() != 0 {
			t.Errorf("triggers registered = %d, want 0", f.Triggers.Count())
		}
	})

	t.Run("trigger failure leaves the stored artifact and no record", func(t *testing.T) {
		f := testutil.NewServiceFixture()
		f.Triggers.RegisterErr = errors.New("limit exceeded")

		_, err := f.Service.Schedule(context.Background(), validRequest())
		if err == nil {
			t.Fatal("Schedule() error = nil, want trigger failure")
		}
		if f.Objects.Count() != 1 {
			t.Errorf("objects stored = %d, want 1 (orphaned artifact)", f.Objects.Count())
		}
		record, _ := f.Jobs.Latest(context.Background(), "user-1")
		if record != nil {
			t.Errorf("record = %+v, want none", record)
		}
	})

	t.Run("successive submissions get distinct rule names", func(t *testing.T) {
		f := testutil.NewServiceFixture()

		first, err := f.Service.Schedule(context.Background(), validRequest())
		if err != nil {
			t.Fatalf("first Schedule() error = %v", err)
		}
		f.Clock.Advance(time.Second) // distinct record key
		second, err := f.Service.Schedule(context.Background(), validRequest())
		if err != nil {
			t.Fatalf("second Schedule() error = %v", err)
		}
		if first.RuleName == second.RuleName {
			t.Errorf("rule names collide: %q", first.RuleName)
		}
		if f.Triggers.Count() != 2 {
			t.Errorf("triggers registered = %d, want 2", f.Triggers.Count())
		}
	})
}
