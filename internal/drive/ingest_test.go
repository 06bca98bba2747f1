// internal/drive/ingest_test.go
package drive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExportSource struct {
	folderID string
	files    []*File
	contents map[string]string
}

func (f *fakeExportSource) FindFolderByPath(path string) (string, error) {
	if f.folderID == "" {
		return "", fmt.Errorf("folder not found: %s", path)
	}
	return f.folderID, nil
}

func (f *fakeExportSource) ListCSVExports(folderID string) ([]*File, error) {
	return f.files, nil
}

func (f *fakeExportSource) DownloadFile(fileID string, w io.Writer) error {
	body, ok := f.contents[fileID]
	if !ok {
		return fmt.Errorf("no such file: %s", fileID)
	}
	_, err := io.WriteString(w, body)
	return err
}

func TestFetchLatestSalesExport(t *testing.T) {
	src := &fakeExportSource{
		folderID: "folder-1",
		files: []*File{
			{ID: "f2", Name: "sales_2025-08.csv", ModifiedTime: "2025-08-28T10:00:00Z"},
			{ID: "f1", Name: "sales_2025-07.csv", ModifiedTime: "2025-07-31T10:00:00Z"},
		},
		contents: map[string]string{"f2": "sale_date,product_name\n"},
	}

	dataDir := t.TempDir()
	path, err := FetchLatestSalesExport(src, "exports/sales", dataDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "sales_2025-08.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sale_date,product_name\n", string(data))
}

func TestFetchLatestSalesExportNoCSV(t *testing.T) {
	src := &fakeExportSource{folderID: "folder-1"}

	_, err := FetchLatestSalesExport(src, "exports/sales", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no CSV export")
}

func TestFetchLatestSalesExportMissingFolder(t *testing.T) {
	src := &fakeExportSource{}

	_, err := FetchLatestSalesExport(src, "exports/none", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve drive folder")
}
