package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the slice of the S3 client the archive needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3SinkConfig struct {
	Bucket   string
	Region   string
	Prefix   string
	Endpoint string
	Host     string
}

// S3Sink archives every flushed batch as one JSON Lines object.
type S3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
	host   string
	now    func() time.Time
}

func NewS3Sink(ctx context.Context, cfg S3SinkConfig) (*S3Sink, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3SinkWithClient(client, cfg), nil
}

func NewS3SinkWithClient(client PutObjectAPI, cfg S3SinkConfig) *S3Sink {
	host := cfg.Host
	if host == "" {
		host = "gateway"
	}
	return &S3Sink{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, host: host, now: time.Now}
}

func (s *S3Sink) Name() string { return "s3" }

// Key layout: <prefix>2025/11/30/<host>-20251130-143022-<nanos>.jsonl
func (s *S3Sink) key(t time.Time) string {
	return fmt.Sprintf("%s%04d/%02d/%02d/%s-%s-%d.jsonl",
		s.prefix, t.Year(), t.Month(), t.Day(), s.host, t.Format("20060102-150405"), t.Nanosecond())
}

func (s *S3Sink) Write(ctx context.Context, logs []*RequestLog) error {
	if len(logs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, l := range logs {
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("failed to encode request log: %w", err)
		}
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(s.now().UTC())),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}
