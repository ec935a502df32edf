// gits-buildwatch receives compute-runner state-change events and advances
// the owning user's job record to its terminal status.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/codebuild"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"

	"gits-go/internal/gits"
	"gits-go/internal/handler"
	"gits-go/internal/jobs"
	"gits-go/internal/logging"
	"gits-go/internal/runner"
	"gits-go/internal/scheduler"
)

func main() {
	logger := &logging.Adapter{L: logging.New(os.Stderr, uuid.New().String()[:8])}

	table := os.Getenv("DYNAMODB_TABLE")
	if table == "" {
		logger.Error("missing required environment variable", "name", "DYNAMODB_TABLE")
		os.Exit(1)
	}

	awscfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Error("loading AWS config", "error", err)
		os.Exit(1)
	}

	svc := scheduler.NewService(
		nil, nil, nil,
		jobs.NewDynamoStore(dynamodb.NewFromConfig(awscfg), table),
		runner.NewCodeBuildInspector(codebuild.NewFromConfig(awscfg)),
		nil,
		gits.RealClock{},
		gits.UUIDGenerator{},
		logger,
	)

	lambda.Start(handler.BuildWatch(svc, logger))
}
