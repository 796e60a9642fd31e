package main

import (
	"log/slog"
	"strings"

	"github.com/alnah/go-docpage/internal/config"
)

// envPrefix namespaces docpage environment variables.
const envPrefix = "DOCPAGE_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // DOCPAGE_CONFIG: config file name or path
	Source     string // DOCPAGE_SOURCE: markdown source path
	Template   string // DOCPAGE_TEMPLATE: template path
	Output     string // DOCPAGE_OUTPUT: output page path
	LogLevel   string // DOCPAGE_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid DOCPAGE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DOCPAGE_CONFIG":    true,
	"DOCPAGE_SOURCE":    true,
	"DOCPAGE_TEMPLATE":  true,
	"DOCPAGE_OUTPUT":    true,
	"DOCPAGE_LOG_LEVEL": true,
}

// loadEnvConfig reads the recognized DOCPAGE_* values through getenv.
func loadEnvConfig(getenv func(string) string) *envConfig {
	return &envConfig{
		ConfigPath: getenv("DOCPAGE_CONFIG"),
		Source:     getenv("DOCPAGE_SOURCE"),
		Template:   getenv("DOCPAGE_TEMPLATE"),
		Output:     getenv("DOCPAGE_OUTPUT"),
		LogLevel:   getenv("DOCPAGE_LOG_LEVEL"),
	}
}

// unknownEnvVars returns unrecognized DOCPAGE_* names from environ.
// Helps catch typos like DOCPAGE_SORCE.
func unknownEnvVars(environ []string) []string {
	var unknown []string
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// warnUnknownEnvVars logs a warning for each unrecognized DOCPAGE_* variable.
func warnUnknownEnvVars(logger *slog.Logger, environ []string) {
	for _, name := range unknownEnvVars(environ) {
		logger.Warn("unknown environment variable (typo?)", slog.String("name", name))
	}
}

// applyEnvConfig applies set environment values over cfg.
// Called after the config file is loaded and before mergeFlags, giving:
// CLI flags > env vars > config file > defaults
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Source != "" {
		cfg.Source = env.Source
	}
	if env.Template != "" {
		cfg.Template = env.Template
	}
	if env.Output != "" {
		cfg.Output = env.Output
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}
