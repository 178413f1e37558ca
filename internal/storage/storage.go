package storage

import (
	"context"
	"time"
)

// UploadResult identifies an uploaded asset: URL is what clients render,
// PublicID is the handle needed to delete it later.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// MediaStore is the port to the external object store. Upload either returns
// a complete result or an error; there is no partial success.
type MediaStore interface {
	Upload(ctx context.Context, localPath string) (UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

type timeoutStore struct {
	next    MediaStore
	timeout time.Duration
}

// WithTimeout bounds every call to next by d on top of the caller's context.
// A non-positive d returns next unchanged.
func WithTimeout(next MediaStore, d time.Duration) MediaStore {
	if d <= 0 {
		return next
	}
	return &timeoutStore{next: next, timeout: d}
}

func (s *timeoutStore) Upload(ctx context.Context, localPath string) (UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.Upload(ctx, localPath)
}

func (s *timeoutStore) Delete(ctx context.Context, publicID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.Delete(ctx, publicID)
}
