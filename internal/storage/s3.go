package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the slice of the S3 client the store depends on.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Store persists blobs in an S3 bucket fronted by a public base URL
// (typically a CDN or the bucket website endpoint).
type S3Store struct {
	client        s3API
	bucket        string
	publicBaseURL string
}

// NewS3Store builds an S3-backed blob store.
func NewS3Store(cfg aws.Config, bucket, publicBaseURL string) (*S3Store, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("storage: s3 bucket is required")
	}
	publicBaseURL = strings.TrimRight(strings.TrimSpace(publicBaseURL), "/")
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, cfg.Region)
	}
	return &S3Store{
		client:        s3.NewFromConfig(cfg),
		bucket:        bucket,
		publicBaseURL: publicBaseURL,
	}, nil
}

// Upload writes the payload to the bucket and returns the public URL.
// PutObject overwrites by nature, so honoring Overwrite=false needs an
// existence probe first.
func (s *S3Store) Upload(ctx context.Context, key string, data []byte, opts UploadOptions) (string, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	if !opts.Overwrite {
		if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(cleanKey),
		}); err == nil {
			return "", fmt.Errorf("storage: key %q already exists", cleanKey)
		}
	}
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(cleanKey),
		Body:   bytes.NewReader(data),
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("storage: s3 put object: %w", err)
	}
	return s.publicBaseURL + "/" + cleanKey, nil
}

var _ BlobStore = (*S3Store)(nil)
