package awsclient

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// LoadConfigFromEnv builds the shared AWS config for DynamoDB and SQS.
//
// Supported env vars (local-friendly):
//   - AWS_REGION (default: eu-west-1)
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY (optional; static credentials)
//
// Without static keys the default provider chain is used, which is what runs
// in AWS. Endpoint overrides are applied per service client.
func LoadConfigFromEnv(ctx context.Context) (aws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(Region()),
	}

	if key, secret, ok := staticKeys(); ok {
		creds := credentials.NewStaticCredentialsProvider(key, secret, os.Getenv("AWS_SESSION_TOKEN"))
		loadOpts = append(loadOpts, config.WithCredentialsProvider(creds))
	}

	return config.LoadDefaultConfig(ctx, loadOpts...)
}

// ConfigForEndpoint is LoadConfigFromEnv, except that an emulator endpoint
// without static keys gets LocalConfig instead of the provider chain.
func ConfigForEndpoint(ctx context.Context, endpoint string) (aws.Config, error) {
	if _, _, ok := staticKeys(); endpoint != "" && !ok {
		return LocalConfig(Region()), nil
	}
	return LoadConfigFromEnv(ctx)
}

// Region is AWS_REGION, defaulting to eu-west-1.
func Region() string {
	return getenvDefault("AWS_REGION", "eu-west-1")
}

// LocalConfig returns a config for emulators (DynamoDB Local, LocalStack) that
// do not validate credentials but still need them to be present.
func LocalConfig(region string) aws.Config {
	if region == "" {
		region = "eu-west-1"
	}
	return aws.Config{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider("local", "local", ""),
	}
}

func staticKeys() (key, secret string, ok bool) {
	key, secret = os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	return key, secret, key != "" && secret != ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
