package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanshika/reelpath/internal/catalog"
)

// WriteDataset serializes the catalog as YAML to path, creating parent
// directories as needed.
func WriteDataset(dataset catalog.Dataset, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	if err := catalog.WriteDataset(file, dataset); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode catalog for %s: %w", path, err)
	}
	return file.Close()
}
