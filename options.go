package docpage

import (
	"log/slog"

	"github.com/alnah/go-docpage/internal/highlight"
	"github.com/alnah/go-docpage/internal/pipeline"
)

// Highlighter turns source code into span-tagged HTML for a language tag.
// Highlight returns only the interior of the code element and an error
// wrapping ErrUnknownLanguage for tags it does not support.
type Highlighter = highlight.Highlighter

// HighlighterFunc adapts a plain function to the Highlighter interface.
type HighlighterFunc = highlight.HighlighterFunc

// EmojiMode selects how :shortcode: tokens are written.
type EmojiMode = pipeline.EmojiMode

// Emoji modes.
const (
	EmojiGlyph  = pipeline.EmojiGlyph
	EmojiEntity = pipeline.EmojiEntity
	EmojiOff    = pipeline.EmojiOff
)

// ParseEmojiMode maps "glyph", "entity" and "off" to an EmojiMode.
func ParseEmojiMode(s string) (EmojiMode, error) {
	return pipeline.ParseEmojiMode(s)
}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	html                    bool
	langPrefix              string
	emoji                   EmojiMode
	languages               map[string]string
	highlighter             Highlighter
	style                   string
	rewritePaths            bool
	allowMissingPlaceholder bool
	logger                  *slog.Logger
}

// WithHTML enables or disables raw HTML passthrough. Enabled by default.
func WithHTML(enabled bool) Option {
	return func(r *Renderer) {
		r.cfg.html = enabled
	}
}

// WithLangPrefix replaces the "language-" class prefix written on
// highlighted code blocks.
func WithLangPrefix(prefix string) Option {
	return func(r *Renderer) {
		r.cfg.langPrefix = prefix
	}
}

// WithEmoji sets the emoji substitution mode.
func WithEmoji(mode EmojiMode) Option {
	return func(r *Renderer) {
		r.cfg.emoji = mode
	}
}

// WithLanguages registers extra fenced-code tags, mapping each tag to a
// chroma lexer name. Unknown lexer names make NewRenderer fail.
// Ignored when WithHighlighter is also given.
func WithLanguages(tags map[string]string) Option {
	return func(r *Renderer) {
		if r.cfg.languages == nil {
			r.cfg.languages = make(map[string]string, len(tags))
		}
		for tag, name := range tags {
			r.cfg.languages[tag] = name
		}
	}
}

// WithHighlighter replaces the chroma highlighter.
func WithHighlighter(h Highlighter) Option {
	return func(r *Renderer) {
		r.cfg.highlighter = h
	}
}

// WithStyle sets the chroma style used by WriteCSS.
func WithStyle(name string) Option {
	return func(r *Renderer) {
		r.cfg.style = name
	}
}

// WithRewritePaths makes RenderFile rebase relative img and link targets
// from the Markdown file's directory onto the output file's directory.
func WithRewritePaths(enabled bool) Option {
	return func(r *Renderer) {
		r.cfg.rewritePaths = enabled
	}
}

// WithAllowMissingPlaceholder downgrades a template without {body} from
// an error to a logged warning. The template is then written unchanged.
func WithAllowMissingPlaceholder(allow bool) Option {
	return func(r *Renderer) {
		r.cfg.allowMissingPlaceholder = allow
	}
}

// WithLogger sets the logger for warnings and diagnostics.
// A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.cfg.logger = logger
		}
	}
}
