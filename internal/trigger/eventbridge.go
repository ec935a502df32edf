package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
)

// targetID is the fixed id of the single target bound to each rule.
const targetID = "Target1"

// EventBridgeService implements Service with EventBridge rules targeting a
// CodeBuild project.
type EventBridgeService struct {
	client     *eventbridge.Client
	projectARN string
	roleARN    string
}

var _ Service = (*EventBridgeService)(nil)

// NewEventBridgeService creates an EventBridgeService. projectARN is the
// CodeBuild project the rules start; roleARN is assumed by EventBridge to
// do so.
func NewEventBridgeService(client *eventbridge.Client, projectARN, roleARN string) *EventBridgeService {
	return &EventBridgeService{client: client, projectARN: projectARN, roleARN: roleARN}
}

// envOverride is one entry of CodeBuild's environmentVariablesOverride input.
type envOverride struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

func (s *EventBridgeService) Register(ctx context.Context, name, cronExpr string, p Payload) error {
	_, err := s.client.PutRule(ctx, &eventbridge.PutRuleInput{
		Name:               aws.String(name),
		ScheduleExpression: aws.String(cronExpr),
		State:              types.RuleStateEnabled,
	})
	if err != nil {
		return fmt.Errorf("creating rule %s: %w", name, err)
	}

	input, err := json.Marshal(map[string][]envOverride{
		"environmentVariablesOverride": {
			{Name: "S3_PATH", Value: p.S3Path, Type: "PLAINTEXT"},
			{Name: "REPO_URL", Value: p.RepoURL, Type: "PLAINTEXT"},
			{Name: "GITHUB_TOKEN_SECRET", Value: p.TokenSecret, Type: "PLAINTEXT"},
			{Name: "GITHUB_USERNAME", Value: p.GitHubUsername, Type: "PLAINTEXT"},
			{Name: "GITHUB_DISPLAY_NAME", Value: p.GitHubDisplayName, Type: "PLAINTEXT"},
			{Name: "GITHUB_EMAIL", Value: p.GitHubEmail, Type: "PLAINTEXT"},
			{Name: "COMMIT_MESSAGE", Value: p.CommitMessage, Type: "PLAINTEXT"},
			{Name: "USER_ID", Value: p.UserID, Type: "PLAINTEXT"},
		},
	})
	if err != nil {
		return fmt.Errorf("encoding target input: %w", err)
	}

	out, err := s.client.PutTargets(ctx, &eventbridge.PutTargetsInput{
		Rule: aws.String(name),
		Targets: []types.Target{{
			Id:      aws.String(targetID),
			Arn:     aws.String(s.projectARN),
			RoleArn: aws.String(s.roleARN),
			Input:   aws.String(string(input)),
		}},
	})
	if err != nil {
		return fmt.Errorf("binding target to rule %s: %w", name, err)
	}
	if out.FailedEntryCount > 0 {
		return fmt.Errorf("binding target to rule %s: %d entries failed", name, out.FailedEntryCount)
	}
	return nil
}

func (s *EventBridgeService) Remove(ctx context.Context, name string) error {
	_, err := s.client.RemoveTargets(ctx, &eventbridge.RemoveTargetsInput{
		Rule:  aws.String(name),
		Ids:   []string{targetID},
		Force: true,
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("removing targets from rule %s: %w", name, err)
	}

	_, err = s.client.DeleteRule(ctx, &eventbridge.DeleteRuleInput{
		Name:  aws.String(name),
		Force: true,
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("deleting rule %s: %w", name, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nf *types.ResourceNotFoundException
	return errors.As(err, &nf)
}
