package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-docpage/internal/highlight"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// HTMLConverter abstracts Markdown to HTML fragment conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// Options configures a GoldmarkConverter. The zero value renders without
// raw HTML, without highlighting, with glyph emoji.
type Options struct {
	HTML        bool                  // pass raw HTML through
	LangPrefix  string                // class prefix for highlighted blocks (default "language-")
	Highlighter highlight.Highlighter // nil renders every block as escaped text
	Emoji       EmojiMode
	Stages      []Stage // nil uses DefaultStages(Emoji)
	Logger      *slog.Logger
}

// GoldmarkConverter converts Markdown to an HTML fragment using goldmark.
// It is immutable after construction and safe for concurrent use.
type GoldmarkConverter struct {
	md     goldmark.Markdown
	stages []Stage
}

// NewGoldmarkConverter creates a GoldmarkConverter with tables,
// strikethrough, heading attributes and the configured stages.
func NewGoldmarkConverter(opts Options) *GoldmarkConverter {
	if opts.LangPrefix == "" {
		opts.LangPrefix = DefaultLangPrefix
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	stages := opts.Stages
	if stages == nil {
		stages = DefaultStages(opts.Emoji)
	}

	rendererOpts := []renderer.Option{
		renderer.WithNodeRenderers(
			util.Prioritized(newCodeBlockRenderer(opts.Highlighter, opts.LangPrefix, opts.Logger), 100),
			util.Prioritized(newAttributeRenderer(opts.HTML), 200),
			util.Prioritized(&sectionRenderer{}, 500),
		),
	}
	if opts.HTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
		),
		goldmark.WithParserOptions(
			parser.WithAttribute(), // {#id .class} after headings
			parser.WithASTTransformers(
				util.Prioritized(&stageTransformer{stages: stages}, 100),
			),
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &GoldmarkConverter{md: md, stages: stages}
}

// Stages returns the stage names in the order they run.
func (c *GoldmarkConverter) Stages() []string {
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.Name()
	}
	return names
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
