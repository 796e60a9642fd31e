package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alnah/go-docpage"
	"github.com/alnah/go-docpage/internal/config"
	"github.com/alnah/go-docpage/internal/hints"
)

// loadConfig builds the effective configuration for common flags:
// config file (from -c or DOCPAGE_CONFIG) over defaults, then env values.
// CLI flags are applied later by the caller.
func loadConfig(common commonFlags, deps *Dependencies) (*config.Config, error) {
	env := loadEnvConfig(deps.Getenv)

	path := common.config
	if path == "" {
		path = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		cfg, err = config.LoadConfig(path)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(path))
		}
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// resolvePage returns the validated configuration and logger for build
// and watch.
func resolvePage(flags *pageFlags, deps *Dependencies) (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(flags.common, deps)
	if err != nil {
		return nil, nil, err
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := newLogger(deps.Stderr, resolveLevel(cfg.Log.Level, flags.common.quiet, flags.common.verbose))
	warnUnknownEnvVars(logger, deps.Environ())
	return cfg, logger, nil
}

// newRenderer creates a Renderer from configuration.
func newRenderer(cfg *config.Config, logger *slog.Logger) (*docpage.Renderer, error) {
	mode, err := docpage.ParseEmojiMode(cfg.Render.Emoji)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidValue, err)
	}

	return docpage.NewRenderer(
		docpage.WithHTML(cfg.Render.HTML),
		docpage.WithLangPrefix(cfg.Render.LangPrefix),
		docpage.WithEmoji(mode),
		docpage.WithLanguages(cfg.Highlight.Languages),
		docpage.WithStyle(cfg.Highlight.Style),
		docpage.WithRewritePaths(cfg.Render.RewritePaths),
		docpage.WithAllowMissingPlaceholder(cfg.Render.AllowMissingPlaceholder),
		docpage.WithLogger(logger),
	)
}

// runBuild renders the page once.
func runBuild(ctx context.Context, args []string, deps *Dependencies) error {
	flags, err := parsePageFlags(args, false, deps.Stderr)
	if err != nil {
		return err
	}

	cfg, logger, err := resolvePage(flags, deps)
	if err != nil {
		return err
	}

	r, err := newRenderer(cfg, logger)
	if err != nil {
		return err
	}

	start := deps.Now()
	if err := r.RenderFile(ctx, cfg.Source, cfg.Template, cfg.Output); err != nil {
		return err
	}

	if !flags.common.quiet {
		if flags.common.verbose {
			fmt.Fprintf(deps.Stdout, "Created %s (%v)\n", cfg.Output, deps.Now().Sub(start))
		} else {
			fmt.Fprintf(deps.Stdout, "Created %s\n", cfg.Output)
		}
	}
	return nil
}
