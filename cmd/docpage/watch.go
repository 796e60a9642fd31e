package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-docpage/internal/watch"
)

// runWatch renders the page, then re-renders it whenever the source or
// template changes, until ctx is cancelled.
func runWatch(ctx context.Context, args []string, deps *Dependencies) error {
	flags, err := parsePageFlags(args, true, deps.Stderr)
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

	build := func(ctx context.Context) error {
		return r.RenderFile(ctx, cfg.Source, cfg.Template, cfg.Output)
	}
	onBuild := func(err error) {
		if err == nil && !flags.common.quiet {
			fmt.Fprintf(deps.Stdout, "Created %s\n", cfg.Output)
		}
	}

	return watch.Watch(ctx, []string{cfg.Source, cfg.Template}, build, watch.Options{
		Debounce: flags.debounce,
		Logger:   logger,
		OnBuild:  onBuild,
	})
}
