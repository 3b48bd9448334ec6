package minio

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
	"github.com/turtacn/HSCode-Intelligence/pkg/types/common"
)

type fakeObjectAPI struct {
	objects map[string][]byte
	removed []string
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{objects: make(map[string][]byte)}
}

func (f *fakeObjectAPI) PutObject(_ context.Context, _ string, key string, reader io.Reader, _ int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[key] = buf.Bytes()
	return minio.UploadInfo{Key: key, Size: int64(buf.Len())}, nil
}

func (f *fakeObjectAPI) GetObject(context.Context, string, string, minio.GetObjectOptions) (*minio.Object, error) {
	return nil, nil
}

func (f *fakeObjectAPI) RemoveObject(_ context.Context, _ string, key string, _ minio.RemoveObjectOptions) error {
	delete(f.objects, key)
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeObjectAPI) BucketExists(context.Context, string) (bool, error) { return true, nil }

func (f *fakeObjectAPI) MakeBucket(context.Context, string, minio.MakeBucketOptions) error {
	return nil
}

func TestUploadStorePut(t *testing.T) {
	t.Parallel()

	api := newFakeObjectAPI()
	store := newUploadStoreWithClient(api, "hscode-uploads", logging.NewNopLogger())

	body := "product_name,maker_name\n沈香 香水,山田香料\n"
	batchID := common.NewID()
	key, err := store.Put(context.Background(), batchID, strings.NewReader(body), int64(len(body)), "text/csv")
	require.NoError(t, err)

	assert.Contains(t, key, string(batchID))
	assert.Equal(t, []byte(body), api.objects[key])
}

func TestUploadStoreRejectsOversizedFile(t *testing.T) {
	t.Parallel()

	store := newUploadStoreWithClient(newFakeObjectAPI(), "hscode-uploads", logging.NewNopLogger())

	_, err := store.Put(context.Background(), common.NewID(), strings.NewReader(""), MaxUploadSize+1, "text/csv")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUploadObjectTooLarge))
}

func TestUploadStoreDelete(t *testing.T) {
	t.Parallel()

	api := newFakeObjectAPI()
	store := newUploadStoreWithClient(api, "hscode-uploads", logging.NewNopLogger())

	body := "product_name\n沈香 香水\n"
	key, err := store.Put(context.Background(), common.NewID(), strings.NewReader(body), int64(len(body)), "text/csv")
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), key))
	assert.NotContains(t, api.objects, key)
}

//Personal.AI order the ending
