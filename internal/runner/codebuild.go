package runner

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/codebuild"
)

// userIDVar is the environment override the orchestrator attaches to every
// build; it is the source of truth for ownership.
const userIDVar = "USER_ID"

// CodeBuildInspector implements Inspector against AWS CodeBuild.
type CodeBuildInspector struct {
	client *codebuild.Client
}

var _ Inspector = (*CodeBuildInspector)(nil)

func NewCodeBuildInspector(client *codebuild.Client) *CodeBuildInspector {
	return &CodeBuildInspector{client: client}
}

func (i *CodeBuildInspector) BuildOwner(ctx context.Context, buildID string) (string, error) {
	out, err := i.client.BatchGetBuilds(ctx, &codebuild.BatchGetBuildsInput{
		Ids: []string{buildID},
	})
	if err != nil {
		return "", fmt.Errorf("fetching build %s: %w", buildID, err)
	}
	if len(out.Builds) == 0 {
		return "", fmt.Errorf("no build found for id %s", buildID)
	}

	env := out.Builds[0].Environment
	if env == nil {
		return "", nil
	}
	for _, v := range env.EnvironmentVariables {
		if v.Name != nil && *v.Name == userIDVar && v.Value != nil {
			return *v.Value, nil
		}
	}
	return "", nil
}
