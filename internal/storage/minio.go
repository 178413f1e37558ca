package storage

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/volunteerhub/backend/internal/config"
	"github.com/volunteerhub/backend/internal/metrics"
	"github.com/volunteerhub/backend/pkg/logger"
)

// ObjectStore keeps event and avatar images in a MinIO or S3 bucket.
type ObjectStore struct {
	client         *minio.Client
	bucket         string
	publicEndpoint string
	useSSL         bool
}

func NewObjectStore(cfg config.MinIOConfig) (*ObjectStore, error) {
	var creds *credentials.Credentials
	if cfg.AccessKey == "" {
		creds = credentials.NewIAM("")
	} else {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	publicEndpoint := cfg.PublicEndpoint
	if publicEndpoint == "" {
		publicEndpoint = cfg.Endpoint
	}

	return &ObjectStore{
		client:         client,
		bucket:         cfg.Bucket,
		publicEndpoint: publicEndpoint,
		useSSL:         cfg.UseSSL,
	}, nil
}

func (s *ObjectStore) Upload(ctx context.Context, localPath string) (UploadResult, error) {
	file, err := os.Open(localPath)
	if err != nil {
		metrics.MediaOperations.WithLabelValues("upload", "error").Inc()
		return UploadResult{}, fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		metrics.MediaOperations.WithLabelValues("upload", "error").Inc()
		return UploadResult{}, fmt.Errorf("stat %s: %w", localPath, err)
	}

	ext := strings.ToLower(filepath.Ext(localPath))
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName := ObjectName(time.Now(), ext)
	_, err = s.client.PutObject(ctx, s.bucket, objectName, file, info.Size(), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		metrics.MediaOperations.WithLabelValues("upload", "error").Inc()
		logger.Error("media_upload_failed", err, map[string]interface{}{
			"object_name":  objectName,
			"size":         info.Size(),
			"content_type": contentType,
			"bucket":       s.bucket,
		})
		return UploadResult{}, err
	}

	metrics.MediaOperations.WithLabelValues("upload", "ok").Inc()
	logger.Info("media_upload_success", map[string]interface{}{
		"object_name":  objectName,
		"size":         info.Size(),
		"content_type": contentType,
		"bucket":       s.bucket,
	})

	return UploadResult{URL: s.PublicURL(objectName), PublicID: objectName}, nil
}

func (s *ObjectStore) Delete(ctx context.Context, publicID string) error {
	err := s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{})
	if err != nil {
		metrics.MediaOperations.WithLabelValues("delete", "error").Inc()
		logger.Error("media_delete_failed", err, map[string]interface{}{
			"object_name": publicID,
			"bucket":      s.bucket,
		})
		return err
	}
	metrics.MediaOperations.WithLabelValues("delete", "ok").Inc()
	logger.Info("media_delete_success", map[string]interface{}{
		"object_name": publicID,
		"bucket":      s.bucket,
	})
	return nil
}

// PublicURL is the stable, path-style URL of an object.
func (s *ObjectStore) PublicURL(objectName string) string {
	if strings.HasPrefix(s.publicEndpoint, "http://") || strings.HasPrefix(s.publicEndpoint, "https://") {
		return strings.TrimRight(s.publicEndpoint, "/") + "/" + path.Join(s.bucket, objectName)
	}
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   s.publicEndpoint,
		Path:   "/" + path.Join(s.bucket, objectName),
	}
	return u.String()
}

func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed creating bucket %s: %w", s.bucket, err)
	}
	return nil
}

// ObjectName builds a collision-free key grouped by upload month.
func ObjectName(now time.Time, ext string) string {
	return fmt.Sprintf("%s/%s%s", now.UTC().Format("2006/01"), uuid.New().String(), ext)
}
