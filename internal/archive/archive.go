// Package archive stores raw webhook payloads and job reports in S3.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/httpclient"
)

const (
	KindWebhook      = "webhooks"
	KindSyncReport   = "sync-reports"
	KindReminderRuns = "reminder-runs"
)

type Archiver interface {
	Put(ctx context.Context, kind string, body []byte) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3 struct {
	client objectPutter
	bucket string
	prefix string
	now    func() time.Time
}

// New returns nil when no bucket or credentials are configured.
func New(cfg config.ArchiveConfig) *S3 {
	if cfg.Bucket == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil
	}

	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		HTTPClient:  httpclient.New(httpclient.Options{}),
	}
	if cfg.Endpoint != "" {
		// S3-compatible stores (MinIO, R2) need path-style addressing
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	return newS3(s3.New(opts), cfg.Bucket, cfg.Prefix)
}

func newS3(client objectPutter, bucket, prefix string) *S3 {
	return &S3{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}
}

// Put writes body as a JSON object under prefix/kind/yyyy/mm/dd and returns its key.
func (a *S3) Put(ctx context.Context, kind string, body []byte) (string, error) {
	now := a.now().UTC()
	key := path.Join(a.prefix, kind, now.Format("2006/01/02"),
		fmt.Sprintf("%s-%s.json", now.Format("150405"), uuid.NewString()))

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", a.bucket, key, err)
	}

	return key, nil
}

// FromConfig returns a nil Archiver when archiving is disabled.
func FromConfig(cfg config.ArchiveConfig) Archiver {
	if s := New(cfg); s != nil {
		return s
	}
	return nil
}
