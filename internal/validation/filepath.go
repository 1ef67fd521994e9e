package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilePathValidator validates paths of files the application writes
// (history database, log file).
type FilePathValidator struct {
	// AllowedBaseDirs restricts files to specific base directories; empty allows all
	AllowedBaseDirs []string
	// MaxPathLength is the maximum allowed path length
	MaxPathLength int
}

// NewFilePathValidator creates a validator that accepts any directory
func NewFilePathValidator() *FilePathValidator {
	return &FilePathValidator{
		AllowedBaseDirs: []string{},
		MaxPathLength:   4096,
	}
}

// ValidateAndSanitize expands a leading ~/, makes the path absolute and
// rejects traversal or control characters.
func (v *FilePathValidator) ValidateAndSanitize(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > v.MaxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", v.MaxPathLength)
	}
	if strings.Contains(path, "\x00") {
		return "", fmt.Errorf("path contains null bytes")
	}
	for _, char := range path {
		if char < 32 && char != '\t' {
			return "", fmt.Errorf("path contains control characters")
		}
	}

	if len(path) >= 2 && path[:2] == "~/" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	} else if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("invalid tilde usage")
	}

	for _, component := range strings.Split(filepath.ToSlash(path), "/") {
		if component == ".." {
			return "", fmt.Errorf("directory traversal not allowed")
		}
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("cannot make path absolute: %w", err)
		}
		path = absPath
	}
	path = filepath.Clean(path)

	if err := v.validateBaseDirs(path); err != nil {
		return "", err
	}
	return path, nil
}

func (v *FilePathValidator) validateBaseDirs(path string) error {
	if len(v.AllowedBaseDirs) == 0 {
		return nil
	}
	for _, baseDir := range v.AllowedBaseDirs {
		absBaseDir, err := filepath.Abs(baseDir)
		if err != nil {
			continue
		}
		relPath, err := filepath.Rel(absBaseDir, path)
		if err != nil {
			continue
		}
		if !strings.HasPrefix(relPath, "..") {
			return nil
		}
	}
	return fmt.Errorf("path not within allowed directories: %v", v.AllowedBaseDirs)
}

// ValidateFile ensures a file path is safe and does not name a directory
func (v *FilePathValidator) ValidateFile(path string) (string, error) {
	validatedPath, err := v.ValidateAndSanitize(path)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(validatedPath); err == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", validatedPath)
	}
	return validatedPath, nil
}
