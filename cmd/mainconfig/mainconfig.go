package mainconfig

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	appconfig "github.com/eksdesign/stand-platform/internal/config"
)

// LoadAWSConfig resolves region and credentials. Static keys win over the
// default chain when both halves are set.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	key, secret := strings.TrimSpace(cfg.AWSAccessKeyID), strings.TrimSpace(cfg.AWSSecretAccessKey)
	if key != "" && secret != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}

// NewS3Client points at AWS_ENDPOINT_OVERRIDE (LocalStack) when set, which
// also needs path-style bucket addressing.
func NewS3Client(awsCfg aws.Config, cfg *appconfig.Config) *s3.Client {
	endpoint := endpointOverride(cfg)
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != nil {
			o.BaseEndpoint = endpoint
			o.UsePathStyle = true
		}
	})
}

// NewSESClient honours the same endpoint override as NewS3Client.
func NewSESClient(awsCfg aws.Config, cfg *appconfig.Config) *sesv2.Client {
	endpoint := endpointOverride(cfg)
	return sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
		if endpoint != nil {
			o.BaseEndpoint = endpoint
		}
	})
}

func endpointOverride(cfg *appconfig.Config) *string {
	if cfg == nil || strings.TrimSpace(cfg.AWSEndpointOverride) == "" {
		return nil
	}
	return aws.String(strings.TrimSpace(cfg.AWSEndpointOverride))
}
