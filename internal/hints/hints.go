// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strings"
)

// UserConfigDir returns the per-user config directory. Replaced in tests.
var UserConfigDir = os.UserConfigDir

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and, when a user config directory exists, where a
// named config would be found.
func ForConfigNotFound(name string) string {
	hint := "use --config /path/to/file.yaml"
	if dir, err := UserConfigDir(); err == nil && name != "" && !strings.ContainsAny(name, `/\`) {
		hint += " or create " + filepath.Join(dir, "docpage", name+".yaml")
	}
	return format(hint)
}

// ForResourceNotFound returns hints for missing source or template files.
func ForResourceNotFound() string {
	return format("relative paths resolve from the working directory; set --source and --template")
}

// ForOutputDirectory returns hints for output write errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForMissingPlaceholder returns hints for templates without {body}.
func ForMissingPlaceholder() string {
	return format("add {body} where the page content goes, or pass --allow-missing-placeholder")
}

// ForInvalidLanguage returns hints for unknown highlight lexer names.
func ForInvalidLanguage() string {
	return format("highlight.languages values are chroma lexer names such as python or rust")
}

// ForUnknownCommand returns hints listing the available commands.
func ForUnknownCommand(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
