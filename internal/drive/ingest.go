// internal/drive/ingest.go
package drive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kiranakart/forecast/pkg/logger"
)

// ExportSource is the part of the Drive client the export fetch uses.
type ExportSource interface {
	FindFolderByPath(path string) (string, error)
	ListCSVExports(folderID string) ([]*File, error)
	DownloadFile(fileID string, w io.Writer) error
}

// FetchLatestSalesExport finds the newest CSV in the configured Drive folder
// and downloads it into dataDir. Returns the local path of the downloaded
// file.
func FetchLatestSalesExport(src ExportSource, folderPath, dataDir string) (string, error) {
	folderID, err := src.FindFolderByPath(folderPath)
	if err != nil {
		return "", fmt.Errorf("resolve drive folder %q: %w", folderPath, err)
	}

	files, err := src.ListCSVExports(folderID)
	if err != nil {
		return "", fmt.Errorf("list drive folder %q: %w", folderPath, err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no CSV export found in drive folder %q", folderPath)
	}
	latest := files[0]

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir %s: %w", dataDir, err)
	}

	destPath := filepath.Join(dataDir, latest.Name)
	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", destPath, err)
	}
	defer out.Close()

	if err := src.DownloadFile(latest.ID, out); err != nil {
		return "", fmt.Errorf("download %s: %w", latest.Name, err)
	}

	logger.Log.Info().
		Str("file", latest.Name).
		Str("modified", latest.ModifiedTime).
		Str("dest", destPath).
		Msg("sales export downloaded")
	return destPath, nil
}
