package filedeps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store reads data files stored as <prefix>/<name> objects in a bucket.
// Objects named *.zst or typed application/zstd are decompressed.
type S3Store struct {
	client S3API
	bucket string
	prefix string
	logger *slog.Logger
}

func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix, logger: slog.Default()}
}

// NewS3StoreFromEnv creates an S3 client from the default AWS configuration.
func NewS3StoreFromEnv(ctx context.Context, region, bucket, prefix string) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewS3Store(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func (s *S3Store) Open(ctx context.Context, name string) ([]byte, error) {
	key := path.Join(s.prefix, name)
	b, err := s.get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		b, err = s.get(ctx, key+".zst")
	}
	return b, err
}

func (s *S3Store) get(ctx context.Context, key string) ([]byte, error) {
	s.logger.Debug("downloading data file from s3", "bucket", s.bucket, "key", key)
	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to download %s from s3: %w (bucket: %s)", key, err, s.bucket)
	}
	defer obj.Body.Close()

	if (obj.ContentType != nil && *obj.ContentType == "application/zstd") || path.Ext(key) == ".zst" {
		return decompress(obj.Body)
	}
	b, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return b, nil
}
