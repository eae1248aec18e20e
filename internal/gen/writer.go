package gen

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files to the output directory.
// It creates the directory if it doesn't exist. It returns the written paths.
func WriteFiles(files []GeneratedFile, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return nil, errors.Wrap(err, "creating output directory")
	}

	paths := make([]string, 0, len(files))

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		if err := os.WriteFile(outputPath, file.Content, filePerm); err != nil {
			return paths, errors.Wrapf(err, "writing file %s", file.Filename)
		}

		paths = append(paths, outputPath)
	}

	return paths, nil
}
