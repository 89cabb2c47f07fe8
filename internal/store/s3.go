package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/arogya-labs/referral-digitizer/internal/common"
)

// S3Config holds the settings for the S3-backed artifact store.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, for S3-compatible stores
	AccessKeyID     string // if empty, the default AWS credential chain applies
	SecretAccessKey string
}

// S3Store implements ArtifactStore on an S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	log    *slog.Logger
}

var _ ArtifactStore = (*S3Store)(nil)

func NewS3Store(ctx context.Context, cfg S3Config, logger *slog.Logger) (*S3Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 store: %w: bucket is required", common.ErrInvalidInput)
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Store{client: client, bucket: cfg.Bucket, log: logger}, nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var keys []string
	p := s3.NewListObjectsV2Paginator(s.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			s.log.Error("store.list.error", "bucket", s.bucket, "prefix", prefix, "error", err)
			return nil, fmt.Errorf("%w: list %q: %v", common.ErrStore, prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", common.ErrNotFound, key)
		}
		s.log.Error("store.get.error", "key", key, "error", err)
		return nil, fmt.Errorf("%w: get %q: %v", common.ErrStore, key, err)
	}
	defer func() {
		if cerr := out.Body.Close(); cerr != nil {
			s.log.Warn("store.get.body_close_error", "key", key, "error", cerr)
		}
	}()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %v", common.ErrStore, key, err)
	}
	s.log.Info("store.get.ok", "key", key, "bytes", len(data), "elapsed_ms", time.Since(start).Milliseconds())
	return data, nil
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	start := time.Now()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.log.Error("store.put.error", "key", key, "error", err)
		return fmt.Errorf("%w: put %q: %v", common.ErrStore, key, err)
	}
	s.log.Info("store.put.ok", "key", key, "bytes", len(data), "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}
