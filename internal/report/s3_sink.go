package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/mrz1836/webprobe/internal/config"
	probeerrors "github.com/mrz1836/webprobe/internal/errors"
)

// putObjectAPI is the slice of the S3 client the sink uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads reports to a bucket.
type S3Sink struct {
	client putObjectAPI
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Sink creates an S3Sink from cfg. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
// A custom endpoint selects S3-compatible storage such as MinIO.
func NewS3Sink(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) (*S3Sink, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("%w: report.s3.bucket is required", probeerrors.ErrConfigInvalidReport)
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %w", probeerrors.ErrReportUpload, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Info().
		Str("component", "report").
		Str("bucket", cfg.Bucket).
		Str("prefix", cfg.Prefix).
		Str("region", cfg.Region).
		Str("endpoint", cfg.Endpoint).
		Msg("s3 report sink initialized")

	return newS3Sink(client, cfg.Bucket, cfg.Prefix, logger), nil
}

func newS3Sink(client putObjectAPI, bucket, prefix string, logger zerolog.Logger) *S3Sink {
	return &S3Sink{
		client: client,
		bucket: strings.TrimSpace(bucket),
		prefix: prefix,
		logger: logger.With().Str("component", "report").Logger(),
	}
}

// Key returns the object key for an artifact name.
func (s *S3Sink) Key(name string) string {
	if s.prefix == "" {
		return name
	}
	return strings.TrimSuffix(s.prefix, "/") + "/" + strings.TrimPrefix(name, "/")
}

// Write uploads the artifact and returns its s3:// URL.
func (s *S3Sink) Write(ctx context.Context, a Artifact) (string, error) {
	key := s.Key(a.Name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(a.Data),
		ContentType: aws.String(a.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put s3://%s/%s: %w", probeerrors.ErrReportUpload, s.bucket, key, err)
	}

	s.logger.Debug().Str("bucket", s.bucket).Str("key", key).Msg("report uploaded")
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
