package highlight

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// Sentinel errors for highlighting.
var (
	// ErrUnknownLanguage means no grammar is registered for the tag.
	// It selects the plain fallback and is not a failure.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrHighlight means a registered grammar failed on a block.
	ErrHighlight = errors.New("highlighting failed")
)

// DefaultStyle is the chroma style used for generated stylesheets.
const DefaultStyle = "github"

// HasStyle reports whether name is a registered chroma style.
func HasStyle(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}

// Highlighter turns source code into span-tagged HTML for a language tag.
// The returned markup is the interior of the code element only.
// Implementations return an error wrapping ErrUnknownLanguage when lang
// is empty or unsupported.
type Highlighter interface {
	Highlight(code, lang string) (string, error)
}

// HighlighterFunc adapts a function to the Highlighter interface.
type HighlighterFunc func(code, lang string) (string, error)

// Highlight calls f(code, lang).
func (f HighlighterFunc) Highlight(code, lang string) (string, error) {
	return f(code, lang)
}

// Plain never highlights. Every block renders as escaped text.
type Plain struct{}

// Highlight always reports ErrUnknownLanguage.
func (Plain) Highlight(_, lang string) (string, error) {
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
}

// Chroma highlights code with chroma lexers taken from a Registry.
// Output uses CSS classes; see WriteCSS for the matching stylesheet.
type Chroma struct {
	registry  *Registry
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

// ChromaOption configures a Chroma highlighter.
type ChromaOption func(*chromaConfig)

type chromaConfig struct {
	style       string
	classPrefix string
}

// WithStyle selects the chroma style by name. Unknown names fall back to
// chroma's default style.
func WithStyle(name string) ChromaOption {
	return func(c *chromaConfig) { c.style = name }
}

// WithClassPrefix prefixes every token class name.
func WithClassPrefix(prefix string) ChromaOption {
	return func(c *chromaConfig) { c.classPrefix = prefix }
}

// NewChroma creates a Chroma highlighter over registry.
func NewChroma(registry *Registry, opts ...ChromaOption) *Chroma {
	cfg := chromaConfig{style: DefaultStyle}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Chroma{
		registry: registry,
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
			chromahtml.ClassPrefix(cfg.classPrefix),
		),
		style: styles.Get(cfg.style),
	}
}

// Registry returns the registry backing the highlighter.
func (c *Chroma) Registry() *Registry {
	return c.registry
}

// Highlight tokenizes code with the lexer registered for lang.
// Panics raised inside the lexer or formatter are reported as ErrHighlight.
func (c *Chroma) Highlight(code, lang string) (out string, err error) {
	lexer, ok := c.registry.Lookup(lang)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}

	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = fmt.Errorf("%w: %s: panic: %v", ErrHighlight, lang, r)
		}
	}()

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrHighlight, lang, err)
	}

	var buf strings.Builder
	if err := c.formatter.Format(&buf, c.style, iterator); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrHighlight, lang, err)
	}
	return buf.String(), nil
}

// WriteCSS writes the stylesheet for the token classes emitted by Highlight.
func (c *Chroma) WriteCSS(w io.Writer) error {
	return c.formatter.WriteCSS(w, c.style)
}

// escaper escapes exactly & < > " in one left-to-right pass.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Escape entity-escapes the four HTML-special characters & < > ".
// Other characters, including the single quote, are left as is.
func Escape(s string) string {
	return escaper.Replace(s)
}
