package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tandem-analyzer/internal/common"
	"github.com/Veraticus/tandem-analyzer/internal/model"
)

func TestFilesFromPaths(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "pump_export.csv")
	second := filepath.Join(dir, "cgm.json")
	require.NoError(t, os.WriteFile(first, make([]byte, 2048), 0o600))
	require.NoError(t, os.WriteFile(second, nil, 0o600))

	files, err := FilesFromPaths([]string{first, second})
	require.NoError(t, err)
	assert.Equal(t, []model.FileInfo{
		{Name: "pump_export.csv", Size: 2048},
		{Name: "cgm.json", Size: 0},
	}, files)
}

func TestFilesFromPaths_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := FilesFromPaths([]string{filepath.Join(dir, "nope.csv")})
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := FilesFromPaths([]string{dir})
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrInvalidDataset)
	})
}
