package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-docpage/internal/fileutil"
	"github.com/alnah/go-docpage/internal/highlight"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// MaxInputSize limits config file size (1MB).
const MaxInputSize = 1 << 20

// Field length limits.
const (
	MaxPathLength       = 4096
	MaxLangPrefixLength = 50
	MaxStyleLength      = 50
	MaxLanguageTagLen   = 50
)

// Defaults match a docs/ directory that sits next to the project README.
const (
	DefaultSource     = "../README.md"
	DefaultTemplate   = "./template.html"
	DefaultOutput     = "./www/index.html"
	DefaultLangPrefix = "language-"
	DefaultEmoji      = "glyph"
	DefaultStyle      = "github"
	DefaultLogLevel   = "info"
)

// Config holds all configuration for page generation.
type Config struct {
	Source    string          `yaml:"source"`   // Markdown input path
	Template  string          `yaml:"template"` // HTML template containing {body}
	Output    string          `yaml:"output"`   // Page output path
	Render    RenderConfig    `yaml:"render"`
	Highlight HighlightConfig `yaml:"highlight"`
	Log       LogConfig       `yaml:"log"`
}

// RenderConfig defines Markdown rendering options.
type RenderConfig struct {
	HTML                    bool   `yaml:"html"`                    // Pass raw HTML through
	LangPrefix              string `yaml:"langPrefix"`              // Class prefix on highlighted blocks
	Emoji                   string `yaml:"emoji"`                   // "glyph", "entity", "off"
	RewritePaths            bool   `yaml:"rewritePaths"`            // Rebase relative links on the output dir
	AllowMissingPlaceholder bool   `yaml:"allowMissingPlaceholder"` // Warn instead of failing
}

// HighlightConfig defines syntax highlighting options.
type HighlightConfig struct {
	Style     string            `yaml:"style"`     // chroma style for the css command
	Languages map[string]string `yaml:"languages"` // Extra tag -> chroma lexer name
}

// LogConfig defines diagnostic output options.
type LogConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Source:   DefaultSource,
		Template: DefaultTemplate,
		Output:   DefaultOutput,
		Render: RenderConfig{
			HTML:       true,
			LangPrefix: DefaultLangPrefix,
			Emoji:      DefaultEmoji,
		},
		Highlight: HighlightConfig{Style: DefaultStyle},
		Log:       LogConfig{Level: DefaultLogLevel},
	}
}

// Validate checks values and field lengths.
// Called automatically by LoadConfig, but available for callers who
// construct or modify a Config (CLI flag and env overrides).
func (c *Config) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"source", c.Source},
		{"template", c.Template},
		{"output", c.Output},
	} {
		if f.value == "" {
			return fmt.Errorf("%w: %s: required", ErrInvalidValue, f.name)
		}
		if err := validateFieldLength(f.name, f.value, MaxPathLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("render.langPrefix", c.Render.LangPrefix, MaxLangPrefixLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Render.LangPrefix, "\"<>& \t\n") {
		return fmt.Errorf("%w: render.langPrefix: %q contains characters not allowed in a class name", ErrInvalidValue, c.Render.LangPrefix)
	}

	switch strings.ToLower(c.Render.Emoji) {
	case "", "glyph", "entity", "off", "none":
		// valid
	default:
		return fmt.Errorf("%w: render.emoji: %q (must be glyph, entity, or off)", ErrInvalidValue, c.Render.Emoji)
	}

	if err := validateFieldLength("highlight.style", c.Highlight.Style, MaxStyleLength); err != nil {
		return err
	}
	if c.Highlight.Style != "" && !highlight.HasStyle(c.Highlight.Style) {
		return fmt.Errorf("%w: highlight.style: unknown chroma style %q", ErrInvalidValue, c.Highlight.Style)
	}
	for tag, lexer := range c.Highlight.Languages {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%w: highlight.languages: empty language tag", ErrInvalidValue)
		}
		if err := validateFieldLength("highlight.languages key", tag, MaxLanguageTagLen); err != nil {
			return err
		}
		if strings.TrimSpace(lexer) == "" {
			return fmt.Errorf("%w: highlight.languages[%s]: empty lexer name", ErrInvalidValue, tag)
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("%w: log.level: %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over DefaultConfig and validates the result.
// Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: input exceeds %d bytes", ErrConfigParse, MaxInputSize)
	}

	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/docpage/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "docpage", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
