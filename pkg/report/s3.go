package report

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dd0wney/cluso-contactnet/pkg/config"
)

// PutObjectAPI is the part of the S3 client used for uploads
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads reports under a bucket prefix
type S3Publisher struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Publisher wraps an existing client
func NewS3Publisher(client PutObjectAPI, bucket, prefix string) *S3Publisher {
	return &S3Publisher{client: client, bucket: bucket, prefix: prefix}
}

// NewS3PublisherFromConfig builds an S3 client from cfg. Static keys, a
// custom endpoint and path-style addressing support S3-compatible stores.
func NewS3PublisherFromConfig(ctx context.Context, cfg config.S3Config) (*S3Publisher, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewS3Publisher(client, cfg.Bucket, cfg.Prefix), nil
}

// Key returns the object key for a file name: prefix/runID/name
func (p *S3Publisher) Key(runID, name string) string {
	return path.Join(p.prefix, runID, name)
}

// Publish uploads data as prefix/runID/name and returns the s3:// URI
func (p *S3Publisher) Publish(ctx context.Context, runID, name, contentType string, data []byte) (string, error) {
	key := p.Key(runID, name)
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		Metadata:      map[string]string{"run-id": runID},
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", p.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", p.bucket, key), nil
}
