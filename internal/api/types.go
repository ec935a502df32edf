// Package api defines the JSON wire contracts shared by the gits CLI and the
// scheduling services.
package api

// ScheduleTimeFormat is the wire format for schedule times: UTC ISO-8601 at
// second precision.
const ScheduleTimeFormat = "2006-01-02T15:04:05Z"

// ScheduleRequest is the job submission payload posted to the orchestrator.
type ScheduleRequest struct {
	ScheduleTime string `json:"schedule_time"`
	RepoURL      string `json:"repo_url"`
	ZipFilename  string `json:"zip_filename"`
	ZipBase64    string `json:"zip_base64"`

	// GitHubTokenSecret names the secret the runner reads the token from.
	// GitHubToken, when present, carries the sealed token itself so the
	// orchestrator can create or rotate that secret. The raw token never
	// appears on the wire.
	GitHubTokenSecret string `json:"github_token_secret"`
	GitHubToken       string `json:"github_token,omitempty"`

	GitHubUser        string `json:"github_user"`
	GitHubEmail       string `json:"github_email"`
	GitHubDisplayName string `json:"github_display_name,omitempty"`

	CommitMessage string `json:"commit_message"`
	UserID        string `json:"user_id"`
}

// ScheduleResponse is the orchestrator's accept verdict.
type ScheduleResponse struct {
	Message        string `json:"message"`
	RuleName       string `json:"rule_name"`
	CronExpression string `json:"cron_expression"`
	S3Path         string `json:"s3_path"`
}

// StatusResponse is the most recent job record projection for a user.
type StatusResponse struct {
	JobID        string `json:"job_id"`
	ScheduleTime string `json:"schedule_time"`
	Status       string `json:"status"`
}

// DeleteRequest asks for cancellation of a pending job.
type DeleteRequest struct {
	JobID  string `json:"job_id"`
	UserID string `json:"user_id"`
}

// DeleteResponse acknowledges a cancellation.
type DeleteResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body accompanying any non-200 status.
type ErrorResponse struct {
	Error string `json:"error"`
}
