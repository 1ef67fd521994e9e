package validation

import (
	"fmt"
	"os"
	"path/filepath"
)

// PrepareFile validates path and creates its parent directory so the file
// can be opened for writing.
func PrepareFile(path string) (string, error) {
	validated, err := NewFilePathValidator().ValidateFile(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(validated), 0o755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", validated, err)
	}
	return validated, nil
}
