// Package awsclient builds the DynamoDB client shared by the mysfits binaries.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Options selects how the client is built. Zero values defer to the SDK defaults.
type Options struct {
	// Region overrides the region from the environment or shared config.
	Region string

	// Endpoint is an optional custom endpoint (LocalStack, DynamoDB Local).
	Endpoint string

	// MaxAttempts overrides the retryer's attempt count. 1 disables retries.
	MaxAttempts int
}

// LoadOptions converts Options to the SDK's config loader options.
func (o Options) LoadOptions() []func(*awsconfig.LoadOptions) error {
	var opts []func(*awsconfig.LoadOptions) error
	if o.Region != "" {
		opts = append(opts, awsconfig.WithRegion(o.Region))
	}
	if o.MaxAttempts > 0 {
		opts = append(opts, awsconfig.WithRetryMaxAttempts(o.MaxAttempts))
	}
	return opts
}

// ClientOptions returns per-client options for dynamodb.NewFromConfig.
func (o Options) ClientOptions() []func(*dynamodb.Options) {
	var opts []func(*dynamodb.Options)
	if o.Endpoint != "" {
		opts = append(opts, func(do *dynamodb.Options) {
			do.BaseEndpoint = aws.String(o.Endpoint)
		})
	}
	return opts
}

// NewDynamoDB loads the default AWS configuration and creates a DynamoDB client.
func NewDynamoDB(ctx context.Context, o Options) (*dynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, o.LoadOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg, o.ClientOptions()...), nil
}
