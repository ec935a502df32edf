// Package handler adapts API Gateway and EventBridge events to the
// scheduler service, mapping error types onto response codes: 400 for bad
// input and state conflicts, 404 for not found, 500 for collaborator
// failures.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"gits-go/internal/api"
	"gits-go/internal/gits"
	"gits-go/internal/scheduler"
)

// Schedule returns the handler for POST /schedule.
func Schedule(svc *scheduler.Service) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		var body api.ScheduleRequest
		if err := decodeBody(req, &body); err != nil {
			return errorResponse(http.StatusBadRequest, "request body is not valid JSON"), nil
		}

		resp, err := svc.Schedule(ctx, body)
		if err != nil {
			return errorFor(err), nil
		}
		return jsonResponse(http.StatusOK, resp), nil
	}
}

// Status returns the handler for GET /status?user_id=<id>.
func Status(svc *scheduler.Service) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		userID := req.QueryStringParameters["user_id"]

		resp, err := svc.Status(ctx, userID)
		if err != nil {
			return errorFor(err), nil
		}
		return jsonResponse(http.StatusOK, resp), nil
	}
}

// Delete returns the handler for POST /delete.
func Delete(svc *scheduler.Service) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		var body api.DeleteRequest
		if err := decodeBody(req, &body); err != nil {
			return errorResponse(http.StatusBadRequest, "request body is not valid JSON"), nil
		}

		if err := svc.Cancel(ctx, body.JobID, body.UserID); err != nil {
			return errorFor(err), nil
		}
		return jsonResponse(http.StatusOK, api.DeleteResponse{Message: "Job deleted successfully"}), nil
	}
}

// buildDetail is the payload of a CodeBuild build-state-change event.
type buildDetail struct {
	BuildID     string `json:"build-id"`
	BuildStatus string `json:"build-status"`
}

// BuildWatch returns the handler for compute-runner state-change events.
// The completion signal is best-effort: every outcome, including store
// failures, is logged and acknowledged so the event is never redelivered as
// a hard failure.
func BuildWatch(svc *scheduler.Service, logger gits.Logger) func(context.Context, events.CloudWatchEvent) error {
	return func(ctx context.Context, event events.CloudWatchEvent) error {
		var detail buildDetail
		if err := json.Unmarshal(event.Detail, &detail); err != nil {
			logger.Warn("ignoring malformed build event", "error", err)
			return nil
		}
		if detail.BuildID == "" || detail.BuildStatus == "" {
			logger.Warn("ignoring build event without id or status")
			return nil
		}

		if err := svc.CompleteBuild(ctx, detail.BuildID, detail.BuildStatus); err != nil {
			logger.Error("completion update failed", "build_id", detail.BuildID, "error", err)
		}
		return nil
	}
}

// decodeBody unwraps an API Gateway request body, honoring the
// isBase64Encoded flag, and unmarshals it into out.
func decodeBody(req events.APIGatewayProxyRequest, out any) error {
	raw := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return fmt.Errorf("decoding base64 body: %w", err)
		}
		raw = decoded
	}
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	return json.Unmarshal(raw, out)
}

func errorFor(err error) events.APIGatewayProxyResponse {
	var inputErr *scheduler.InputError
	var notCancellable *scheduler.NotCancellableError
	switch {
	case errors.As(err, &inputErr), errors.As(err, &notCancellable):
		return errorResponse(http.StatusBadRequest, err.Error())
	case errors.Is(err, scheduler.ErrJobNotFound):
		return errorResponse(http.StatusNotFound, err.Error())
	default:
		return errorResponse(http.StatusInternalServerError, err.Error())
	}
}

func errorResponse(status int, msg string) events.APIGatewayProxyResponse {
	return jsonResponse(status, api.ErrorResponse{Error: msg})
}

func jsonResponse(status int, body any) events.APIGatewayProxyResponse {
	data, err := json.Marshal(body)
	if err != nil {
		// Marshaling our own response types cannot fail in practice.
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":"internal error"}`,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}
}
