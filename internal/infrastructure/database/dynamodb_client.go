package database

import (
	"context"
	"os"

	"sterling_partners/internal/infrastructure/awsclient"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/pkg/errors"
)

// ConnectDynamoDB creates a DynamoDB client from the environment.
//
// DYNAMODB_ENDPOINT (optional; e.g. http://dynamodb:8000) points the client at
// DynamoDB Local, which then needs no AWS keys.
func ConnectDynamoDB(ctx context.Context) (*dynamodb.Client, error) {
	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	cfg, err := awsclient.ConfigForEndpoint(ctx, endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create dynamodb config")
	}
	return NewDynamoDBClient(cfg, endpoint), nil
}

func NewDynamoDBClient(cfg aws.Config, endpoint string) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}
