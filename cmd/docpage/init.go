package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-docpage"
	"github.com/alnah/go-docpage/internal/assets"
	"github.com/alnah/go-docpage/internal/config"
	"github.com/alnah/go-docpage/internal/fileutil"
)

// ErrFileExists indicates init would overwrite an existing template.
var ErrFileExists = errors.New("file already exists")

// initFlags holds flags for the init command.
type initFlags struct {
	template string
	name     string
	force    bool
	quiet    bool
}

// newInitFlagSet registers the init flags.
func newInitFlagSet(f *initFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.StringVar(&f.template, "template", config.DefaultTemplate, "template path to write")
	fs.StringVar(&f.name, "name", assets.DefaultTemplateName, "starter template name")
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing template")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	return fs
}

// parseInitFlags parses flags for the init command.
func parseInitFlags(args []string, stderr io.Writer) (*initFlags, error) {
	f := &initFlags{}
	fs := newInitFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printInitUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return f, nil
}

// runInit writes a starter template containing {body}.
func runInit(args []string, deps *Dependencies) error {
	flags, err := parseInitFlags(args, deps.Stderr)
	if err != nil {
		return err
	}

	content, err := assets.LoadTemplate(flags.name)
	if err != nil {
		return err
	}

	if !flags.force && fileutil.FileExists(flags.template) {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrFileExists, flags.template)
	}

	if err := fileutil.WriteFileAtomic(flags.template, content, filePermissions); err != nil {
		return fmt.Errorf("%w: %s: %v", docpage.ErrWriteFailure, flags.template, err)
	}
	if !flags.quiet {
		fmt.Fprintf(deps.Stdout, "Created %s\n", flags.template)
	}
	return nil
}
