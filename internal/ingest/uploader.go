package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/arogya-labs/referral-digitizer/constants"
	"github.com/arogya-labs/referral-digitizer/internal/common"
	"github.com/arogya-labs/referral-digitizer/internal/store"
)

// Uploader copies local scan files into the artifact store root, where the
// extraction pipeline can pick them up by key.
type Uploader struct {
	Store  store.ArtifactStore
	Logger *slog.Logger
}

func NewUploader(st store.ArtifactStore, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{Store: st, Logger: logger}
}

// UploadScan uploads one local image file and returns its storage key.
// The key is the file's base name; re-uploading the same file overwrites.
func (u *Uploader) UploadScan(ctx context.Context, path string) (string, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if _, ok := constants.AllowedImageExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: unsupported scan extension %q", common.ErrInvalidInput, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read scan %q: %w", path, err)
	}

	key := filepath.Base(path)
	if err := u.Store.Put(ctx, key, data, constants.ImageContentType(ext)); err != nil {
		return "", fmt.Errorf("upload scan %q: %w", path, err)
	}

	u.Logger.Info("ingest.upload.ok", "path", path, "key", key, "bytes", len(data))
	return key, nil
}
