// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrPathEmpty = errors.New("path cannot be empty")
	ErrIsDir     = errors.New("path is a directory")
)

// ReadText reads a whole file and returns its content as a string.
// Directories are rejected with ErrIsDir so callers see a read error
// rather than an empty document.
func ReadText(path string) (string, error) {
	if path == "" {
		return "", ErrPathEmpty
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrIsDir, path)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is user-provided
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFileAtomic writes content to path by creating a temporary file in the
// same directory and renaming it over the destination. The destination is
// either fully replaced or left untouched.
// The parent directory must already exist.
func WriteFileAtomic(path, content string, perm os.FileMode) error {
	if path == "" {
		return ErrPathEmpty
	}

	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}

	if syncErr := tmpFile.Sync(); syncErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("syncing temp file: %w", syncErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if chmodErr := os.Chmod(tmpPath, perm); chmodErr != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", chmodErr)
	}

	if renameErr := os.Rename(tmpPath, path); renameErr != nil {
		cleanup()
		return fmt.Errorf("replacing %s: %w", path, renameErr)
	}

	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "docpage" -> false (name)
//   - "./docpage.yaml" -> true (relative path)
//   - "/etc/docpage.yaml" -> true (absolute)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
