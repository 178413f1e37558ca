package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/volunteerhub/backend/internal/apperr"
	"github.com/volunteerhub/backend/internal/config"
	"github.com/volunteerhub/backend/pkg/logger"
)

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// formValue returns nil when key is absent so partial updates can tell
// "not supplied" from "empty".
func formValue(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	value := values[0]
	return &value
}

// saveUploads writes the multipart files under field to the temp dir and
// returns their paths. The caller owns the files from then on. Non-multipart
// requests yield no files.
func saveUploads(c *fiber.Ctx, field string, limit int, cfg config.UploadConfig) ([]string, error) {
	if !isMultipart(c) {
		return nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperr.Validation("invalid multipart form")
	}

	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > limit {
		return nil, apperr.Validation(fmt.Sprintf("a maximum of %d %s is allowed", limit, pluralize(field, limit)))
	}

	maxBytes := int64(cfg.MaxImageMB) * 1024 * 1024
	for _, fh := range files {
		if maxBytes > 0 && fh.Size > maxBytes {
			return nil, apperr.Validation(fmt.Sprintf("%s must be at most %d MB", fh.Filename, cfg.MaxImageMB))
		}
		if !allowedType(fh, cfg.AllowedMIME) {
			return nil, apperr.Validation(fmt.Sprintf("%s has an unsupported file type", fh.Filename))
		}
	}

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		path := filepath.Join(cfg.TempDir, "upload-"+uuid.New().String()+extensionFor(fh))
		if err := c.SaveFile(fh, path); err != nil {
			removeFiles(paths)
			return nil, apperr.Internal("failed saving upload", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func allowedType(fh *multipart.FileHeader, allowed []string) bool {
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(fh.Header.Get(fiber.HeaderContentType), ";", 2)[0]))
	if contentType == "" || contentType == fiber.MIMEOctetStream {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename)))
		contentType = strings.SplitN(contentType, ";", 2)[0]
	}
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, contentType) {
			return true
		}
	}
	return false
}

func extensionFor(fh *multipart.FileHeader) string {
	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(fh.Header.Get(fiber.HeaderContentType)); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

func pluralize(field string, n int) string {
	if n == 1 {
		return strings.TrimSuffix(field, "s")
	}
	return field
}

func removeFiles(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("temp_file_cleanup_failed", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	}
}
