package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/equine-practice/internal/config"
)

var ErrNotConfigured = errors.New("object storage not configured")

type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	URL(key string) string
}

type S3Store struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
}

// NewS3Store returns nil, ErrNotConfigured when no bucket is set.
// A custom endpoint (minio, localstack) switches to path-style addressing.
func NewS3Store(cfg *config.Config) (*S3Store, error) {
	if cfg.S3Bucket == "" {
		return nil, ErrNotConfigured
	}

	opts := s3.Options{
		Region: cfg.S3Region,
	}
	if cfg.S3AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}

	return &S3Store{
		client:   s3.New(opts),
		bucket:   cfg.S3Bucket,
		region:   cfg.S3Region,
		endpoint: strings.TrimRight(cfg.S3Endpoint, "/"),
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) URL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// HorsePhotoKey is the object key of a horse's photo.
func HorsePhotoKey(practiceID, horseID uint) string {
	return fmt.Sprintf("practices/%d/horses/%d.webp", practiceID, horseID)
}
