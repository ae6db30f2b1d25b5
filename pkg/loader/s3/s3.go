package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"kgqa/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Reader loads source datasets from S3 objects addressed as
// s3://bucket/key. Large ontology releases are typically kept in
// object storage rather than on the machine running the import.
type S3Reader struct {
	client *s3.Client
}

// NewS3Reader creates a reader using the AWS_* environment settings
// (region, optional endpoint for S3-compatible storage, static
// credentials).
func NewS3Reader(ctx context.Context) (*S3Reader, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(util.GetEnv("AWS_REGION")),
		config.WithBaseEndpoint(util.GetEnv("AWS_ENDPOINT")),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			util.GetEnv("AWS_ACCESS_KEY"),
			util.GetEnv("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return &S3Reader{client: client}, nil
}

// NewS3ReaderWithClient creates a reader using an existing s3.Client.
func NewS3ReaderWithClient(client *s3.Client) *S3Reader {
	return &S3Reader{client: client}
}

// Read fetches the object bytes for an s3://bucket/key path.
func (r *S3Reader) Read(ctx context.Context, path string) ([]byte, error) {
	bucket, key, err := SplitPath(path)
	if err != nil {
		return nil, err
	}

	result, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	defer result.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, result.Body); err != nil {
		return nil, fmt.Errorf("failed to read object contents: %w", err)
	}

	return buf.Bytes(), nil
}

// SplitPath splits an s3://bucket/key path into bucket and key.
func SplitPath(path string) (string, string, error) {
	trimmed, ok := strings.CutPrefix(path, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 path: %s", path)
	}
	bucket, key, ok := strings.Cut(trimmed, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 path: %s", path)
	}
	return bucket, key, nil
}
