// Package storagetest provides an in-memory MediaStore for tests.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/volunteerhub/backend/internal/storage"
)

var ErrUploadRejected = errors.New("upload rejected")

type FakeStore struct {
	mu sync.Mutex

	// FailOnUpload makes the n-th upload call (1-based) fail. Zero disables.
	FailOnUpload int
	// FailDeletes makes Delete return an error for the listed public ids.
	FailDeletes map[string]bool

	uploadCalls int
	objects     map[string]string
	deleted     []string
}

func New() *FakeStore {
	return &FakeStore{objects: map[string]string{}, FailDeletes: map[string]bool{}}
}

func (f *FakeStore) Upload(ctx context.Context, localPath string) (storage.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.uploadCalls++
	if f.FailOnUpload > 0 && f.uploadCalls == f.FailOnUpload {
		return storage.UploadResult{}, ErrUploadRejected
	}
	if err := ctx.Err(); err != nil {
		return storage.UploadResult{}, err
	}
	if _, err := os.Stat(localPath); err != nil {
		return storage.UploadResult{}, err
	}

	publicID := fmt.Sprintf("fake/%d%s", f.uploadCalls, filepath.Ext(localPath))
	f.objects[publicID] = localPath
	return storage.UploadResult{URL: "https://media.test/" + publicID, PublicID: publicID}, nil
}

func (f *FakeStore) Delete(ctx context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, publicID)
	if f.FailDeletes[publicID] {
		return fmt.Errorf("delete %s failed", publicID)
	}
	delete(f.objects, publicID)
	return nil
}

// Stored returns the public ids currently held.
func (f *FakeStore) Stored() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.objects))
	for id := range f.objects {
		ids = append(ids, id)
	}
	return ids
}

func (f *FakeStore) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func (f *FakeStore) UploadCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploadCalls
}
