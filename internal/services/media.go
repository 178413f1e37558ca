package services

import (
	"context"
	"os"

	"github.com/volunteerhub/backend/internal/apperr"
	"github.com/volunteerhub/backend/internal/metrics"
	"github.com/volunteerhub/backend/internal/storage"
	"github.com/volunteerhub/backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const mediaConcurrency = 3

// uploadAll uploads every path and returns results in input order. If any
// upload fails, the assets already stored by this call are deleted and an
// UploadFailed error is returned.
func uploadAll(ctx context.Context, store storage.MediaStore, paths []string) ([]storage.UploadResult, error) {
	if len(paths) == 0 {
		return []storage.UploadResult{}, nil
	}

	results := make([]storage.UploadResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(mediaConcurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			res, err := store.Upload(gctx, path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var uploaded []string
		for _, res := range results {
			if res.PublicID != "" {
				uploaded = append(uploaded, res.PublicID)
			}
		}
		metrics.MediaRollbacks.Add(float64(len(uploaded)))
		deleteAll(ctx, store, uploaded)
		return nil, apperr.UploadFailed("image upload failed", err)
	}

	return results, nil
}

// deleteAll removes assets best-effort. Failures are logged and never
// returned; cleanup keeps going when the request context is cancelled.
func deleteAll(ctx context.Context, store storage.MediaStore, publicIDs []string) {
	if len(publicIDs) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)
	var g errgroup.Group
	g.SetLimit(mediaConcurrency)
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		id := id
		g.Go(func() error {
			if err := store.Delete(ctx, id); err != nil {
				logger.Warn("media_cleanup_failed", map[string]interface{}{
					"public_id": id,
					"error":     err.Error(),
				})
			}
			return nil
		})
	}
	_ = g.Wait()
}

func removeTempFiles(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("temp_file_cleanup_failed", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	}
}

func splitUploads(results []storage.UploadResult) (urls, publicIDs []string) {
	urls = make([]string, 0, len(results))
	publicIDs = make([]string, 0, len(results))
	for _, res := range results {
		urls = append(urls, res.URL)
		publicIDs = append(publicIDs, res.PublicID)
	}
	return urls, publicIDs
}
