package main

import (
	"bytes"
	"fmt"

	"github.com/alnah/go-docpage"
	"github.com/alnah/go-docpage/internal/fileutil"
)

// filePermissions is rw-r--r--: owner read+write, others read.
const filePermissions = 0o644

// runCSS writes the stylesheet for the highlight token classes.
func runCSS(args []string, deps *Dependencies) error {
	flags, err := parseCSSFlags(args, deps.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common, deps)
	if err != nil {
		return err
	}
	if flags.changed["style"] {
		cfg.Highlight.Style = flags.style
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(deps.Stderr, resolveLevel(cfg.Log.Level, flags.common.quiet, flags.common.verbose))
	r, err := docpage.NewRenderer(
		docpage.WithStyle(cfg.Highlight.Style),
		docpage.WithLanguages(cfg.Highlight.Languages),
		docpage.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if flags.output == "" {
		return r.WriteCSS(deps.Stdout)
	}

	var buf bytes.Buffer
	if err := r.WriteCSS(&buf); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(flags.output, buf.String(), filePermissions); err != nil {
		return fmt.Errorf("%w: %s: %v", docpage.ErrWriteFailure, flags.output, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(deps.Stdout, "Created %s\n", flags.output)
	}
	return nil
}
