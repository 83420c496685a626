// Package storage puts animal photos in S3 and hands back the URL the rest
// of the system stores as an opaque reference. Without a configured bucket
// the uploader is disabled and callers fall back to local disk.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Uploader struct {
	Client  *s3.Client
	Bucket  string
	CDNBase string
}

func NewS3Uploader(ctx context.Context) (*S3Uploader, error) {
	bucket := os.Getenv("ANIMAL_PHOTOS_S3_BUCKET")
	if bucket == "" {
		return &S3Uploader{}, nil
	}
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	if region == "" {
		region = "sa-east-1"
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS default config: %w", err)
	}
	return &S3Uploader{
		Client:  s3.NewFromConfig(cfg),
		Bucket:  bucket,
		CDNBase: os.Getenv("ASSETS_CDN_BASE_URL"),
	}, nil
}

func (u *S3Uploader) Enabled() bool { return u != nil && u.Client != nil && u.Bucket != "" }

// Upload stores the payload under key and returns the public URL: a CDN
// URL when ASSETS_CDN_BASE_URL is set, the s3:// reference otherwise.
func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if !u.Enabled() {
		return "", fmt.Errorf("s3 uploader not configured")
	}
	_, err := u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &u.Bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	if u.CDNBase != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(u.CDNBase, "/"), key), nil
	}
	return fmt.Sprintf("s3://%s/%s", u.Bucket, key), nil
}
