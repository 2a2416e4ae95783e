package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/logger"
	"portfolio/internal/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MaxUploadSize — предел размера изображения.
const MaxUploadSize = 10 << 20

var uploadExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/avif": ".avif",
}

// ObjectStore — часть клиента MinIO, нужная для загрузок.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
}

// UploadService кладёт обложки и скриншоты в объектное хранилище и отдаёт
// публичный URL. В документах хранится только URL.
type UploadService struct {
	objects ObjectStore
	bucket  string
	baseURL string
	now     func() time.Time
}

func NewUploadService(objects ObjectStore, bucket, publicBaseURL string) *UploadService {
	return &UploadService{
		objects: objects,
		bucket:  bucket,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		now:     time.Now,
	}
}

// NewMinioClient создаёт клиент и бакет, если его ещё нет.
func NewMinioClient(ctx context.Context, cfg *config.Config) (*minio.Client, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
		logger.Log.Info("Создан бакет MinIO", zap.String("bucket", cfg.MinioBucket))
	}
	return client, nil
}

// PublicBaseURL — префикс URL объектов: MINIO_PUBLIC_URL или адрес самого MinIO.
func PublicBaseURL(cfg *config.Config) string {
	base := strings.TrimRight(cfg.MinioPublicURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.MinioEndpoint
	}
	return base + "/" + cfg.MinioBucket
}

// Upload сохраняет изображение и возвращает его URL.
func (s *UploadService) Upload(ctx context.Context, contentType string, size int64, r io.Reader) (string, error) {
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := uploadExtensions[contentType]
	if !ok {
		return "", models.Validationf("unsupported content type %q", contentType)
	}
	if size <= 0 || size > MaxUploadSize {
		return "", models.Validationf("file size must be between 1 byte and %d bytes", MaxUploadSize)
	}

	key := path.Join("uploads", s.now().UTC().Format("2006/01"), newDocumentID()+ext)
	if _, err := s.objects.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	}); err != nil {
		logger.WithCtx(ctx).Error("Ошибка загрузки файла", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%w: upload %s: %w", models.ErrWriteFailed, key, err)
	}

	url := s.baseURL + "/" + key
	logger.WithCtx(ctx).Info("Файл загружен", zap.String("key", key), zap.Int64("size", size))
	return url, nil
}

// Delete удаляет объект по URL, выданному Upload. Чужие URL игнорируются.
func (s *UploadService) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || !strings.HasPrefix(key, "uploads/") {
		return models.Validationf("url %q does not belong to this storage", url)
	}
	if err := s.objects.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: remove %s: %w", models.ErrWriteFailed, key, err)
	}
	return nil
}

