// Package s3util lets batch mode read input datasets from and write result
// datasets to S3 via s3:// URIs, alongside plain local file paths.
package s3util

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const uriScheme = "s3://"

// ObjectAPI is the slice of the S3 client the package needs. Tests supply
// a fake; production code passes *s3.Client.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// IsURI reports whether the path names an S3 object rather than a local file.
func IsURI(path string) bool {
	return strings.HasPrefix(path, uriScheme)
}

// ParseURI splits an s3://bucket/key URI into bucket and key.
func ParseURI(uri string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(uri, uriScheme)
	if rest == uri {
		return "", "", fmt.Errorf("not an S3 URI: %q", uri)
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("S3 URI must be s3://bucket/key, got %q", uri)
	}
	return bucket, key, nil
}

// NewClient builds an S3 client from the default AWS credential chain.
func NewClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Download fetches the object named by uri. The caller closes the reader.
func Download(ctx context.Context, client ObjectAPI, uri string) (io.ReadCloser, error) {
	bucket, key, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("bucket", bucket).Str("key", key).Msg("Downloading from S3")
	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket, Key: &key,
	})
	if err != nil {
		return nil, fmt.Errorf("S3 GetObject: %w", err)
	}
	return result.Body, nil
}

// Upload writes body to the object named by uri.
func Upload(ctx context.Context, client ObjectAPI, uri string, body []byte, contentType string) error {
	bucket, key, err := ParseURI(uri)
	if err != nil {
		return err
	}
	log.Debug().Str("bucket", bucket).Str("key", key).Int("bytes", len(body)).Msg("Uploading to S3")
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("S3 PutObject: %w", err)
	}
	log.Info().Str("bucket", bucket).Str("key", key).Msg("Uploaded results to S3")
	return nil
}
