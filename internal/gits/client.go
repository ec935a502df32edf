package gits

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"gits-go/internal/api"
	"gits-go/internal/encryption"
)

// Identity carries the submitting user's identity and credential settings,
// populated from config at construction.
type Identity struct {
	UserID      string
	User        string
	Email       string
	DisplayName string
	TokenSecret string
	Token       string
}

// Client talks to the scheduling service. It owns the synchronous
// request/response round trips for submission, status and cancellation.
type Client struct {
	baseURL  string
	httpc    *http.Client
	repo     Repository
	worktree Worktree
	sealer   encryption.Sealer
	identity Identity
	clock    Clock
	logger   Logger
}

// NewClient creates a Client with the provided dependencies.
func NewClient(baseURL string, httpc *http.Client, repo Repository, wt Worktree, sealer encryption.Sealer, identity Identity, clock Clock, logger Logger) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		httpc:    httpc,
		repo:     repo,
		worktree: wt,
		sealer:   sealer,
		identity: identity,
		clock:    clock,
		logger:   logger,
	}
}

// RemoteError is a non-200 verdict from the scheduling service, surfaced
// verbatim.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote scheduling failed (status %d): %s", e.StatusCode, e.Message)
}

// Status returns the most recent job record for the configured user.
func (c *Client) Status(ctx context.Context) (*api.StatusResponse, error) {
	u := c.baseURL + "/status?user_id=" + url.QueryEscape(c.identity.UserID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building status request: %w", err)
	}

	var out api.StatusResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete asks the service to cancel a pending job.
func (c *Client) Delete(ctx context.Context, jobID string) (*api.DeleteResponse, error) {
	body := api.DeleteRequest{JobID: jobID, UserID: c.identity.UserID}
	req, err := c.jsonRequest(ctx, http.MethodPost, "/delete", body)
	if err != nil {
		return nil, err
	}

	var out api.DeleteResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do performs the request and decodes the JSON body into out. Non-200
// responses become RemoteError carrying the service's error string.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("calling scheduling service: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e api.ErrorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return &RemoteError{StatusCode: resp.StatusCode, Message: e.Error}
		}
		return &RemoteError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
