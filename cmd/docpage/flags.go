package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-docpage/internal/config"
	"github.com/alnah/go-docpage/internal/watch"
)

// ErrUsage wraps flag parsing failures.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds the page inputs and rendering options.
type renderFlags struct {
	source       string
	template     string
	output       string
	html         bool
	langPrefix   string
	emoji        string
	rewritePaths bool
	allowMissing bool
}

// pageFlags holds all flags for the build and watch commands.
type pageFlags struct {
	common   commonFlags
	render   renderFlags
	debounce time.Duration // watch only

	// changed records flags given on the command line, so that only
	// those override env and config values.
	changed map[string]bool
}

// cssFlags holds flags for the css command.
type cssFlags struct {
	common  commonFlags
	style   string
	output  string
	changed map[string]bool
}

// addCommonFlags adds shared flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug diagnostics")
}

// addRenderFlags adds input and rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.source, "source", config.DefaultSource, "markdown source file")
	fs.StringVar(&f.template, "template", config.DefaultTemplate, "HTML template containing {body}")
	fs.StringVarP(&f.output, "output", "o", config.DefaultOutput, "output page path")
	fs.BoolVar(&f.html, "html", true, "pass raw HTML through")
	fs.StringVar(&f.langPrefix, "lang-prefix", config.DefaultLangPrefix, "class prefix for highlighted code blocks")
	fs.StringVar(&f.emoji, "emoji", config.DefaultEmoji, "emoji mode: glyph, entity, off")
	fs.BoolVar(&f.rewritePaths, "rewrite-paths", false, "rebase relative links onto the output directory")
	fs.BoolVar(&f.allowMissing, "allow-missing-placeholder", false, "warn instead of failing when the template lacks {body}")
}

// newPageFlagSet registers the build flags, plus --debounce for watch.
// Shared by parsing and shell completion.
func newPageFlagSet(name string, watchMode bool, f *pageFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	if watchMode {
		fs.DurationVar(&f.debounce, "debounce", watch.DefaultDebounce, "delay before rebuilding after a change")
	}
	return fs
}

// newCSSFlagSet registers the css flags.
func newCSSFlagSet(f *cssFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("css", flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	fs.StringVar(&f.style, "style", config.DefaultStyle, "chroma style name")
	fs.StringVarP(&f.output, "output", "o", "", "stylesheet path (default stdout)")
	return fs
}

// parsePageFlags parses flags for build (watch=false) or watch.
func parsePageFlags(args []string, watchMode bool, stderr io.Writer) (*pageFlags, error) {
	name := "build"
	usage := printBuildUsage
	if watchMode {
		name = "watch"
		usage = printWatchUsage
	}

	f := &pageFlags{}
	fs := newPageFlagSet(name, watchMode, f)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}

	f.changed = changedFlags(fs)
	return f, nil
}

// parseCSSFlags parses flags for the css command.
func parseCSSFlags(args []string, stderr io.Writer) (*cssFlags, error) {
	f := &cssFlags{}
	fs := newCSSFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printCSSUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}

	f.changed = changedFlags(fs)
	return f, nil
}

func changedFlags(fs *flag.FlagSet) map[string]bool {
	changed := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) {
		changed[fl.Name] = true
	})
	return changed
}

// mergeFlags copies explicitly set flags into cfg (CLI wins).
func mergeFlags(f *pageFlags, cfg *config.Config) {
	if f.changed["source"] {
		cfg.Source = f.render.source
	}
	if f.changed["template"] {
		cfg.Template = f.render.template
	}
	if f.changed["output"] {
		cfg.Output = f.render.output
	}
	if f.changed["html"] {
		cfg.Render.HTML = f.render.html
	}
	if f.changed["lang-prefix"] {
		cfg.Render.LangPrefix = f.render.langPrefix
	}
	if f.changed["emoji"] {
		cfg.Render.Emoji = f.render.emoji
	}
	if f.changed["rewrite-paths"] {
		cfg.Render.RewritePaths = f.render.rewritePaths
	}
	if f.changed["allow-missing-placeholder"] {
		cfg.Render.AllowMissingPlaceholder = f.render.allowMissing
	}
}
