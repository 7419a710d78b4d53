package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vidfriends/formatlist/internal/config"
	"github.com/vidfriends/formatlist/internal/videos"
)

// ObjectGetter is the subset of the S3 client used to read snapshots.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Uploader is the subset of the S3 upload manager used to write snapshots.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3SnapshotStore implements videos.SnapshotStore on an S3-compatible bucket.
type S3SnapshotStore struct {
	client   ObjectGetter
	uploader Uploader
	bucket   string
	prefix   string
}

// NewS3SnapshotStore configures a client targeting the provided object store.
func NewS3SnapshotStore(ctx context.Context, cfg config.ObjectStoreConfig) (*S3SnapshotStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 snapshots: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return NewS3SnapshotStoreWithClient(client, uploader, cfg.Bucket, cfg.Prefix), nil
}

// NewS3SnapshotStoreWithClient builds a store from preconfigured clients.
func NewS3SnapshotStoreWithClient(client ObjectGetter, uploader Uploader, bucket, prefix string) *S3SnapshotStore {
	return &S3SnapshotStore{
		client:   client,
		uploader: uploader,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
	}
}

// Key returns the object key a URL's snapshot is stored under.
func (s *S3SnapshotStore) Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	name := hex.EncodeToString(sum[:]) + ".json"
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Save uploads the info document for url.
func (s *S3SnapshotStore) Save(ctx context.Context, url string, data []byte) error {
	if strings.TrimSpace(url) == "" {
		return errors.New("s3 snapshots: url is required")
	}
	key := s.Key(url)

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata:    map[string]string{"source-url": url},
	})
	if err != nil {
		return fmt.Errorf("s3 snapshots upload %s: %w", key, err)
	}
	return nil
}

// Load downloads the info document for url.
func (s *S3SnapshotStore) Load(ctx context.Context, url string) ([]byte, error) {
	key := s.Key(url)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, videos.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("s3 snapshots get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 snapshots read %s: %w", key, err)
	}
	return data, nil
}

var _ videos.SnapshotStore = (*S3SnapshotStore)(nil)
