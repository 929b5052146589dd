package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/tandem-analyzer/internal/common"
	"github.com/Veraticus/tandem-analyzer/internal/config"
	"github.com/Veraticus/tandem-analyzer/internal/model"
)

// FilesFromPaths stats each path and returns what an upload records about
// it: the base name and the size in bytes.
func FilesFromPaths(paths []string) ([]model.FileInfo, error) {
	files := make([]model.FileInfo, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(config.ExpandPath(path))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", common.ErrInvalidDataset, path)
		}
		files = append(files, model.FileInfo{Name: filepath.Base(path), Size: info.Size()})
	}
	return files, nil
}
