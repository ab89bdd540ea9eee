package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// S3Config addresses an S3 compatible bucket, MinIO included.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
}

// S3Recorder writes each event as a JSON object under
// <prefix>/<yyyy>/<mm>/<dd>/<event id>.json.
type S3Recorder struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Recorder(ctx context.Context, c S3Config) (*S3Recorder, error) {
	if c.Bucket == "" {
		return nil, fmt.Errorf("audit: bucket is required")
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKey,
			c.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("audit: load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})

	prefix := c.Prefix
	if prefix == "" {
		prefix = "audit"
	}
	return &S3Recorder{client: client, bucket: c.Bucket, prefix: prefix}, nil
}

func (r *S3Recorder) Record(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("audit: encode event: %w", err)
	}

	_, err = putObject(r.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.key(e)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("audit: put object: %w", err)
	}
	return nil
}

func (r *S3Recorder) key(e Event) string {
	d := e.At.UTC()
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s.json", r.prefix, d.Year(), d.Month(), d.Day(), e.ID)
}
