// Package minio stores uploaded batch files (CSV item lists) in S3-compatible
// object storage so workers can re-read them independently of the API server.
package minio

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/HSCode-Intelligence/internal/config"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
	"github.com/turtacn/HSCode-Intelligence/pkg/types/common"
)

// MaxUploadSize is the largest accepted batch file.
const MaxUploadSize = 32 << 20 // 32 MiB

// objectAPI abstracts the minio client for testing.
type objectAPI interface {
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (*minio.Object, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
}

// UploadStore persists batch upload files.
type UploadStore struct {
	client objectAPI
	bucket string
	logger logging.Logger
}

// NewUploadStore connects to the object store and ensures the bucket exists.
func NewUploadStore(cfg config.MinIOConfig, log logging.Logger) (*UploadStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "failed to create object storage client")
	}

	store := &UploadStore{client: client, bucket: cfg.Bucket, logger: log.Named("upload_store")}
	if err := store.ensureBucket(context.Background()); err != nil {
		return nil, err
	}
	log.Info("connected to object storage",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
	)
	return store, nil
}

// newUploadStoreWithClient injects a client (for testing).
func newUploadStoreWithClient(client objectAPI, bucket string, log logging.Logger) *UploadStore {
	return &UploadStore{client: client, bucket: bucket, logger: log}
}

func (s *UploadStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to check bucket")
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to create bucket")
	}
	return nil
}

// Put stores a batch upload and returns its object key.  Files over
// MaxUploadSize are rejected before any bytes move.
func (s *UploadStore) Put(ctx context.Context, batchID common.ID, reader io.Reader, size int64, contentType string) (string, error) {
	if size > MaxUploadSize {
		return "", errors.New(errors.ErrCodeUploadObjectTooLarge,
			fmt.Sprintf("upload of %d bytes exceeds the %d byte limit", size, MaxUploadSize))
	}

	key := objectKey(batchID)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeExternalService, "failed to store upload")
	}

	s.logger.Info("stored batch upload",
		logging.String("batch_id", string(batchID)),
		logging.String("key", key),
		logging.Int64("size", size),
	)
	return key, nil
}

// Get opens a stored upload for reading; the caller closes it.
func (s *UploadStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "failed to open upload")
	}
	return obj, nil
}

// Delete removes a stored upload.
func (s *UploadStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to delete upload")
	}
	return nil
}

func objectKey(batchID common.ID) string {
	return fmt.Sprintf("batches/%s/%s.csv", time.Now().UTC().Format("2006/01/02"), batchID)
}

//Personal.AI order the ending
