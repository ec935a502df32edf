// Package scheduler implements the four stateless services of the job
// lifecycle: submission orchestration, execution completion, status query,
// and cancellation. They share no in-process state; the job record is the
// single point of coordination.
package scheduler

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"gits-go/internal/api"
	"gits-go/internal/encryption"
	"gits-go/internal/gits"
	"gits-go/internal/jobs"
	"gits-go/internal/objectstore"
	"gits-go/internal/runner"
	"gits-go/internal/secretstore"
	"gits-go/internal/trigger"
)

// Service coordinates the collaborators behind the scheduling API. Every
// collaborator call is attempted once; failures surface immediately rather
// than being retried, since a retried trigger registration or secret
// rotation would risk duplicate side effects.
type Service struct {
	objects   objectstore.Store
	triggers  trigger.Service
	secrets   secretstore.Store
	store     jobs.Store
	inspector runner.Inspector
	opener    encryption.Opener
	clock     gits.Clock
	idgen     gits.IDGenerator
	logger    gits.Logger
}

// NewService creates a Service with the provided dependencies.
func NewService(objects objectstore.Store, triggers trigger.Service, secrets secretstore.Store, store jobs.Store, inspector runner.Inspector, opener encryption.Opener, clock gits.Clock, idgen gits.IDGenerator, logger gits.Logger) *Service {
	return &Service{
		objects:   objects,
		triggers:  triggers,
		secrets:   secrets,
		store:     store,
		inspector: inspector,
		opener:    opener,
		clock:     clock,
		idgen:     idgen,
		logger:    logger,
	}
}

// Schedule processes one submission: validates input, stores the artifact,
// rotates the credential, registers the one-shot trigger, and persists the
// pending job record — in that order, each failure short-circuiting.
// A failure after an earlier step succeeded leaves orphaned state (an
// uploaded object, a half-registered trigger); that is surfaced in the
// returned error and the logs, never rolled back.
func (s *Service) Schedule(ctx context.Context, req api.ScheduleRequest) (*api.ScheduleResponse, error) {
	if err := checkRequired(req); err != nil {
		return nil, err
	}

	scheduleTime, err := time.Parse(api.ScheduleTimeFormat, req.ScheduleTime)
	if err != nil {
		return nil, inputErrorf("schedule_time must be UTC ISO 8601 (%s)", api.ScheduleTimeFormat)
	}
	if !scheduleTime.After(s.clock.Now()) {
		return nil, inputErrorf("schedule_time must be in the future")
	}

	zipBytes, err := base64.StdEncoding.DecodeString(req.ZipBase64)
	if err != nil {
		return nil, inputErrorf("zip_base64 is not valid base64")
	}

	now := s.clock.Now()
	key := fmt.Sprintf("changes-%d/%s", now.Unix(), req.ZipFilename)
	location, err := s.objects.Put(ctx, key, bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return nil, fmt.Errorf("storing artifact: %w", err)
	}
	s.logger.Info("artifact stored", "location", location)

	if req.GitHubToken != "" {
		if err := s.rotateSecret(ctx, req.GitHubTokenSecret, req.GitHubToken); err != nil {
			s.logger.Error("secret rotation failed, artifact orphaned", "location", location)
			return nil, err
		}
	}

	jobID := "gits-" + s.idgen.New()
	payload := trigger.Payload{
		S3Path:            location,
		RepoURL:           req.RepoURL,
		TokenSecret:       req.GitHubTokenSecret,
		GitHubUsername:    req.GitHubUser,
		GitHubDisplayName: req.GitHubDisplayName,
		GitHubEmail:       req.GitHubEmail,
		CommitMessage:     req.CommitMessage,
		UserID:            req.UserID,
	}
	if err := s.triggers.Register(ctx, jobID, ScheduleExpression(scheduleTime), payload); err != nil {
		s.logger.Error("trigger registration failed, artifact orphaned", "location", location)
		return nil, fmt.Errorf("registering trigger: %w", err)
	}
	s.logger.Info("trigger registered", "job_id", jobID, "cron", CronExpression(scheduleTime))

	record := jobs.Record{
		UserID:       req.UserID,
		AddedAt:      now.Unix(),
		JobID:        jobID,
		ScheduleTime: scheduleTime.UTC().Format(api.ScheduleTimeFormat),
		Status:       jobs.StatusPending,
	}
	if err := s.store.Put(ctx, record); err != nil {
		s.logger.Error("job record write failed, trigger orphaned", "job_id", jobID)
		return nil, fmt.Errorf("persisting job record: %w", err)
	}

	return &api.ScheduleResponse{
		Message:        "Scheduled",
		RuleName:       jobID,
		CronExpression: CronExpression(scheduleTime),
		S3Path:         location,
	}, nil
}

// rotateSecret unseals the transported token and creates or updates the
// named secret. Existence is probed explicitly; a not-found error is never
// used as control flow.
func (s *Service) rotateSecret(ctx context.Context, name, sealed string) error {
	if s.opener == nil {
		return inputErrorf("github_token supplied but this service holds no unsealing key")
	}
	token, err := s.opener.Open(sealed)
	if err != nil {
		return inputErrorf("github_token could not be unsealed")
	}

	exists, err := s.secrets.Exists(ctx, name)
	if err != nil {
		return fmt.Errorf("probing secret %s: %w", name, err)
	}
	if exists {
		if err := s.secrets.Update(ctx, name, token); err != nil {
			return fmt.Errorf("rotating secret: %w", err)
		}
		s.logger.Info("secret rotated", "name", name)
		return nil
	}
	if err := s.secrets.Create(ctx, name, token); err != nil {
		return fmt.Errorf("creating secret: %w", err)
	}
	s.logger.Info("secret created", "name", name)
	return nil
}

func checkRequired(req api.ScheduleRequest) error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"schedule_time", req.ScheduleTime},
		{"repo_url", req.RepoURL},
		{"zip_filename", req.ZipFilename},
		{"zip_base64", req.ZipBase64},
		{"github_token_secret", req.GitHubTokenSecret},
		{"user_id", req.UserID},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return inputErrorf("Missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
