// internal/storage/sync.go
package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/kiranakart/forecast/pkg/logger"
)

// CopyAll copies every object under srcPrefix from src to dst, re-rooting
// keys under dstPrefix. Returns the number of objects copied.
func CopyAll(ctx context.Context, src, dst ObjectStorage, srcPrefix, dstPrefix string) (int, error) {
	objects, err := src.ListObjects(ctx, srcPrefix)
	if err != nil {
		return 0, err
	}

	copied := 0
	for _, obj := range objects {
		rel := strings.TrimPrefix(strings.TrimPrefix(obj.Key, srcPrefix), "/")
		if rel == "" {
			continue
		}
		data, err := src.ReadObject(ctx, obj.Key)
		if err != nil {
			return copied, fmt.Errorf("failed reading %s: %w", obj.Key, err)
		}
		dstKey := path.Join(dstPrefix, rel)
		if err := dst.UploadObject(ctx, dstKey, data); err != nil {
			return copied, fmt.Errorf("failed uploading %s: %w", dstKey, err)
		}
		logger.Log.Debug().Str("key", dstKey).Int64("size", obj.Size).Msg("Copied object")
		copied++
	}
	return copied, nil
}

// DownloadAll downloads every object under prefix into destDir, stripping
// the prefix from the local paths. Returns the number of objects written.
func DownloadAll(ctx context.Context, src ObjectStorage, prefix, destDir string) (int, error) {
	objects, err := src.ListObjects(ctx, prefix)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, obj := range objects {
		rel := strings.TrimPrefix(strings.TrimPrefix(obj.Key, prefix), "/")
		if rel == "" {
			continue
		}
		destPath := filepath.Join(destDir, filepath.FromSlash(rel))
		if err := src.DownloadObject(ctx, obj.Key, destPath); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
