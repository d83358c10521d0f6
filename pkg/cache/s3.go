package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the part of *s3.Client the S3Store uses.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Object metadata keys. S3 lower-cases user metadata.
const (
	metaETag      = "summon-etag"
	metaStoredAt  = "summon-stored-at"
	metaExpiresAt = "summon-expires-at"
)

// S3Store keeps entries as objects in an S3 bucket, one object per key.
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := cache.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "pages/")
type S3Store struct {
	client S3API
	bucket string
	prefix string
	now    func() time.Time
}

var _ Store = (*S3Store)(nil)

// NewS3Store creates an S3Store writing under prefix in bucket.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

func (s *S3Store) Get(ctx context.Context, key string) (*Entry, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("cache: s3 get %s: %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("cache: s3 read %s: %w", key, err)
	}
	e := &Entry{
		Body:      body,
		ETag:      out.Metadata[metaETag],
		StoredAt:  parseTime(out.Metadata[metaStoredAt]),
		ExpiresAt: parseTime(out.Metadata[metaExpiresAt]),
	}
	if e.Expired(s.now()) {
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *S3Store) Put(ctx context.Context, key string, e *Entry) error {
	meta := map[string]string{metaETag: e.ETag}
	if !e.StoredAt.IsZero() {
		meta[metaStoredAt] = e.StoredAt.UTC().Format(time.RFC3339Nano)
	}
	if !e.ExpiresAt.IsZero() {
		meta[metaExpiresAt] = e.ExpiresAt.UTC().Format(time.RFC3339Nano)
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + key),
		Body:        bytes.NewReader(e.Body),
		ContentType: aws.String("text/html; charset=utf-8"),
		Metadata:    meta,
	})
	if err != nil {
		return fmt.Errorf("cache: s3 put %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		return fmt.Errorf("cache: s3 delete %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) Close() error { return nil }

func parseTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
