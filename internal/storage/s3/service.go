package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vidorahq/vidora/backend/internal/config"
	"github.com/vidorahq/vidora/backend/internal/storage"
)

// Service implements storage.ObjectStore against any S3-compatible
// endpoint
type Service struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  storage.Logger
}

// NewService creates a new S3 service instance
func NewService(cfg *config.S3Config, logger storage.Logger) (*Service, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  miniocreds.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %v", err)
	}

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &Service{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
		logger:  logger,
	}, nil
}

// PutObject uploads an object and returns its public URL
func (s *Service) PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %v", key, err)
	}

	s.logger.LogInfo("Object uploaded", map[string]interface{}{
		"key":    key,
		"bucket": s.bucket,
	})
	return s.URL(key), nil
}

// RemoveObject deletes an object by key
func (s *Service) RemoveObject(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %v", key, err)
	}
	return nil
}

// URL returns the public URL for an object key
func (s *Service) URL(key string) string {
	return s.baseURL + "/" + key
}
