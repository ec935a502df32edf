package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gits-go/internal/api"
	"gits-go/internal/config"
	"gits-go/internal/encryption"
	"gits-go/internal/gitexec"
	"gits-go/internal/gits"
	"gits-go/internal/history"
	"gits-go/internal/logging"
)

// GitsApp is the application layer between the CLI and the submission
// client. It constructs all dependencies from config, exposes high-level
// operations, and manages the history log lifecycle on Close.
type GitsApp struct {
	cfg     *config.Config
	repo    *gitexec.Repo
	client  *gits.Client
	history history.Log
	logger  gits.Logger
	logFile *os.File
}

// NewGitsApp creates a fully wired GitsApp from the given config. The
// current directory must be inside a git working tree. The caller must call
// Close when done.
func NewGitsApp(cfg *config.Config, logDir string) (*GitsApp, error) {
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("api_url not set in config")
	}
	if cfg.UserID == "" {
		return nil, fmt.Errorf("user_id not set in config")
	}
	if cfg.GitHub.TokenSecret == "" {
		return nil, fmt.Errorf("github.token_secret not set in config")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}
	repo, err := gitexec.Open(cwd)
	if err != nil {
		return nil, err
	}

	sealer, err := encryption.NewSealerFromConfig(cfg.Sealing)
	if err != nil {
		return nil, fmt.Errorf("creating sealer: %w", err)
	}

	hist, err := history.NewLogFromConfig(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("opening submission history: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(logDir, opID)
	if err != nil {
		hist.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	identity := gits.Identity{
		UserID:      cfg.UserID,
		User:        cfg.GitHub.User,
		Email:       cfg.GitHub.Email,
		DisplayName: cfg.GitHub.DisplayName,
		TokenSecret: cfg.GitHub.TokenSecret,
		Token:       cfg.GitHub.Token,
	}
	client := gits.NewClient(cfg.APIURL, nil, repo, repo, sealer, identity, gits.RealClock{}, logger)

	return &GitsApp{
		cfg:     cfg,
		repo:    repo,
		client:  client,
		history: hist,
		logger:  logger,
		logFile: logFile,
	}, nil
}

// Schedule submits the working tree's change-set for execution at the given
// time and records the accepted submission in the local history log.
func (a *GitsApp) Schedule(ctx context.Context, scheduleRaw, message string, files []string) (*api.ScheduleResponse, error) {
	normalized, err := gits.ValidateScheduleTime(scheduleRaw, time.Now())
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Schedule(ctx, a.repo.Root(), scheduleRaw, message, files)
	if err != nil {
		return nil, err
	}

	remote, _ := a.repo.RemoteURL()
	sub := &history.Submission{
		JobID:         resp.RuleName,
		ScheduleTime:  normalized.Format(api.ScheduleTimeFormat),
		RepoURL:       remote,
		CommitMessage: message,
		CreatedAt:     time.Now().UTC(),
	}
	if err := a.history.Record(sub); err != nil {
		// The job is scheduled; a history write failure must not fail
		// the command.
		a.logger.Warn("recording submission history failed", "error", err)
	}
	return resp, nil
}

// Status returns the most recent job record for the configured user.
func (a *GitsApp) Status(ctx context.Context) (*api.StatusResponse, error) {
	return a.client.Status(ctx)
}

// Delete cancels a pending job.
func (a *GitsApp) Delete(ctx context.Context, jobID string) (*api.DeleteResponse, error) {
	return a.client.Delete(ctx, jobID)
}

// History returns the most recent local submissions, newest first.
func (a *GitsApp) History(limit int) ([]*history.Submission, error) {
	return a.history.List(limit)
}

// Close closes the history log and the log file.
func (a *GitsApp) Close() error {
	var firstErr error
	if err := a.history.Close(); err != nil {
		firstErr = fmt.Errorf("closing submission history: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// newLogger creates a structured logger that writes to logDir/gits.log.
func newLogger(logDir string, opID string) (gits.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "gits.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	var w io.Writer = f
	return &logging.Adapter{L: logging.New(w, opID)}, f, nil
}
