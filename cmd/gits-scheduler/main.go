// gits-scheduler receives job submissions, stores the artifact, rotates the
// credential, registers the one-shot trigger, and persists the pending job
// record.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/google/uuid"

	"gits-go/internal/encryption"
	"gits-go/internal/gits"
	"gits-go/internal/handler"
	"gits-go/internal/jobs"
	"gits-go/internal/logging"
	"gits-go/internal/objectstore"
	"gits-go/internal/scheduler"
	"gits-go/internal/secretstore"
	"gits-go/internal/trigger"
)

// options is read from the environment once, at the composition root. No
// component below this file touches ambient state.
type options struct {
	bucket       string
	table        string
	projectARN   string
	targetRole   string
	unsealingKey string
}

func readOptions() options {
	return options{
		bucket:       os.Getenv("AWS_BUCKET_NAME"),
		table:        os.Getenv("DYNAMODB_TABLE"),
		projectARN:   os.Getenv("CODEBUILD_PROJECT_ARN"),
		targetRole:   os.Getenv("EVENTBRIDGE_TARGET_ROLE_ARN"),
		unsealingKey: os.Getenv("GITS_UNSEALING_KEY"),
	}
}

func main() {
	logger := &logging.Adapter{L: logging.New(os.Stderr, uuid.New().String()[:8])}

	opts := readOptions()
	for name, v := range map[string]string{
		"AWS_BUCKET_NAME":             opts.bucket,
		"DYNAMODB_TABLE":              opts.table,
		"CODEBUILD_PROJECT_ARN":       opts.projectARN,
		"EVENTBRIDGE_TARGET_ROLE_ARN": opts.targetRole,
	} {
		if v == "" {
			logger.Error("missing required environment variable", "name", name)
			os.Exit(1)
		}
	}

	awscfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Error("loading AWS config", "error", err)
		os.Exit(1)
	}

	var opener encryption.Opener
	if opts.unsealingKey != "" {
		opener, err = encryption.NewAgeOpener(opts.unsealingKey)
		if err != nil {
			logger.Error("parsing unsealing key", "error", err)
			os.Exit(1)
		}
	}

	svc := scheduler.NewService(
		objectstore.NewS3Store(s3.NewFromConfig(awscfg), opts.bucket, ""),
		trigger.NewEventBridgeService(eventbridge.NewFromConfig(awscfg), opts.projectARN, opts.targetRole),
		secretstore.NewSecretsManagerStore(secretsmanager.NewFromConfig(awscfg)),
		jobs.NewDynamoStore(dynamodb.NewFromConfig(awscfg), opts.table),
		nil, // completion handling lives in gits-buildwatch
		opener,
		gits.RealClock{},
		gits.UUIDGenerator{},
		logger,
	)

	lambda.Start(handler.Schedule(svc))
}
