// Command mysfits-clicks-processor is the Firehose transformation Lambda that
// enriches click events with mysfit attributes.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/jacentio/mysfits/internal/awsclient"
	"github.com/jacentio/mysfits/internal/config"
	"github.com/jacentio/mysfits/store"
	"github.com/jacentio/mysfits/stream"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stdout)
	slog.SetDefault(logger)

	client, err := awsclient.NewDynamoDB(context.Background(), awsclient.Options{
		Region:      cfg.AWSRegion,
		Endpoint:    cfg.DynamoDBEndpoint,
		MaxAttempts: cfg.AWSMaxAttempts,
	})
	if err != nil {
		logger.Error("failed to create DynamoDB client", "error", err)
		os.Exit(1)
	}

	handler := stream.NewHandler(
		store.New(client, cfg.StoreConfig()),
		logger,
		stream.WithConcurrency(cfg.EnrichConcurrency),
	)
	lambda.Start(handler.HandleFirehose)
}
