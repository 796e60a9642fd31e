package main

import (
	"errors"
	"os"

	"github.com/alnah/go-docpage"
	"github.com/alnah/go-docpage/internal/assets"
	"github.com/alnah/go-docpage/internal/config"
)

// Exit codes for the docpage CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Page written
	ExitGeneral = 1 // Conversion or unexpected error
	ExitUsage   = 2 // Invalid flags, config, or template
	ExitIO      = 3 // Input missing, output unwritable
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, docpage.ErrResourceNotFound) ||
		errors.Is(err, docpage.ErrWriteFailure) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrFileExists) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, docpage.ErrMissingPlaceholder) ||
		errors.Is(err, docpage.ErrInvalidLanguage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) {
		return ExitUsage
	}

	return ExitGeneral
}
