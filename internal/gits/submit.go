package gits

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gits-go/internal/api"
)

// localTimeFormat is the zone-less form the CLI accepts in addition to the
// strict UTC wire format. It is interpreted in the system zone at validation
// time and re-rendered as UTC.
const localTimeFormat = "2006-01-02T15:04:05"

// scpRemote matches the git@host:path SSH shorthand.
var scpRemote = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9._-]+:.+$`)

// ValidateScheduleTime parses raw as either the UTC wire format or a
// zone-less local timestamp, and requires the result to be strictly after
// now. The returned time is normalized to UTC.
func ValidateScheduleTime(raw string, now time.Time) (time.Time, error) {
	var t time.Time
	if parsed, err := time.Parse(api.ScheduleTimeFormat, raw); err == nil {
		t = parsed
	} else if parsed, err := time.ParseInLocation(localTimeFormat, raw, time.Local); err == nil {
		t = parsed
	} else {
		return time.Time{}, fmt.Errorf("schedule time must be ISO 8601 (%s or %s): %q", api.ScheduleTimeFormat, localTimeFormat, raw)
	}

	t = t.UTC()
	if !t.After(now) {
		return time.Time{}, fmt.Errorf("schedule time must be in the future")
	}
	return t, nil
}

// ValidateRemoteURL rejects any origin URL that is not HTTPS or SSH.
func ValidateRemoteURL(remote string) error {
	switch {
	case strings.HasPrefix(remote, "https://"):
		return nil
	case strings.HasPrefix(remote, "ssh://"):
		return nil
	case scpRemote.MatchString(remote):
		return nil
	}
	return fmt.Errorf("repository URL must use HTTPS or SSH, got %q", remote)
}

// Schedule extracts the change-set, packages it, and submits the job.
// root is the repository root; files, when non-empty, restricts the
// change-set to the given paths. All input validation happens before any
// network call; the temporary archive is removed whatever the verdict.
func (c *Client) Schedule(ctx context.Context, root, scheduleRaw, message string, files []string) (*api.ScheduleResponse, error) {
	scheduleTime, err := ValidateScheduleTime(scheduleRaw, c.clock.Now())
	if err != nil {
		return nil, err
	}

	remote, err := c.repo.RemoteURL()
	if err != nil {
		return nil, fmt.Errorf("reading origin remote: %w", err)
	}
	if err := ValidateRemoteURL(remote); err != nil {
		return nil, err
	}

	report, err := c.repo.StatusReport()
	if err != nil {
		return nil, fmt.Errorf("reading worktree status: %w", err)
	}

	cs, err := ExtractChangeSet(report, c.worktree, files)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("change-set extracted", "files", len(cs.Files), "deletions", len(cs.Deletions))

	zipPath, err := BuildArchive(cs, root)
	if err != nil {
		return nil, err
	}
	defer os.Remove(zipPath)

	zipBytes, err := os.ReadFile(zipPath)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	sealedToken := ""
	if c.identity.Token != "" {
		sealedToken, err = c.sealer.Seal(c.identity.Token)
		if err != nil {
			return nil, fmt.Errorf("sealing token: %w", err)
		}
	}

	body := api.ScheduleRequest{
		ScheduleTime:      scheduleTime.Format(api.ScheduleTimeFormat),
		RepoURL:           remote,
		ZipFilename:       filepath.Base(zipPath),
		ZipBase64:         base64.StdEncoding.EncodeToString(zipBytes),
		GitHubTokenSecret: c.identity.TokenSecret,
		GitHubToken:       sealedToken,
		GitHubUser:        c.identity.User,
		GitHubEmail:       c.identity.Email,
		GitHubDisplayName: c.identity.DisplayName,
		CommitMessage:     message,
		UserID:            c.identity.UserID,
	}

	req, err := c.jsonRequest(ctx, http.MethodPost, "/schedule", body)
	if err != nil {
		return nil, err
	}

	var out api.ScheduleResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	c.logger.Info("job scheduled", "rule_name", out.RuleName, "schedule_time", body.ScheduleTime)
	return &out, nil
}
