package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjects — ObjectStore в памяти.
type fakeObjects struct {
	objects map[string][]byte
	types   map[string]string
	fail    error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) PutObject(_ context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.fail != nil {
		return minio.UploadInfo{}, f.fail
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[bucket+"/"+object] = data
	f.types[bucket+"/"+object] = opts.ContentType
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: size}, nil
}

func (f *fakeObjects) RemoveObject(_ context.Context, bucket, object string, _ minio.RemoveObjectOptions) error {
	delete(f.objects, bucket+"/"+object)
	return nil
}

func TestUploadAndDelete(t *testing.T) {
	ctx := context.Background()
	objects := newFakeObjects()
	svc := NewUploadService(objects, "portfolio", "https://cdn.site.dev/portfolio/")
	svc.now = func() time.Time { return time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC) }

	body := []byte("\x89PNG fake")
	url, err := svc.Upload(ctx, "image/png; charset=binary", int64(len(body)), bytes.NewReader(body))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.site.dev/portfolio/uploads/2025/07/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	key := "portfolio/" + strings.TrimPrefix(url, "https://cdn.site.dev/portfolio/")
	assert.Equal(t, body, objects.objects[key])
	assert.Equal(t, "image/png", objects.types[key])

	require.NoError(t, svc.Delete(ctx, url))
	assert.Empty(t, objects.objects)
}

func TestUploadRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc := NewUploadService(newFakeObjects(), "portfolio", "https://cdn.site.dev/portfolio")

	_, err := svc.Upload(ctx, "application/pdf", 10, strings.NewReader("x"))
	assert.True(t, errors.Is(err, models.ErrValidation))

	_, err = svc.Upload(ctx, "image/jpeg", MaxUploadSize+1, strings.NewReader("x"))
	assert.True(t, errors.Is(err, models.ErrValidation))

	_, err = svc.Upload(ctx, "image/jpeg", 0, strings.NewReader(""))
	assert.True(t, errors.Is(err, models.ErrValidation))

	err = svc.Delete(ctx, "https://evil.example.com/uploads/x.png")
	assert.True(t, errors.Is(err, models.ErrValidation))

	err = svc.Delete(ctx, "https://cdn.site.dev/portfolio/private/x.png")
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestUploadStorageFailure(t *testing.T) {
	objects := newFakeObjects()
	objects.fail = errors.New("bucket gone")
	svc := NewUploadService(objects, "portfolio", "http://localhost:9000/portfolio")

	_, err := svc.Upload(context.Background(), "image/webp", 3, strings.NewReader("abc"))
	assert.True(t, errors.Is(err, models.ErrWriteFailed))
}

func TestPublicBaseURL(t *testing.T) {
	cfg := &config.Config{MinioEndpoint: "minio:9000", MinioBucket: "portfolio"}
	assert.Equal(t, "http://minio:9000/portfolio", PublicBaseURL(cfg))

	cfg.MinioUseSSL = true
	assert.Equal(t, "https://minio:9000/portfolio", PublicBaseURL(cfg))

	cfg.MinioPublicURL = "https://cdn.site.dev/"
	assert.Equal(t, "https://cdn.site.dev/portfolio", PublicBaseURL(cfg))
}
