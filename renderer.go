package docpage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/alnah/go-docpage/internal/fileutil"
	"github.com/alnah/go-docpage/internal/highlight"
	"github.com/alnah/go-docpage/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ highlight.Highlighter  = (*highlight.Chroma)(nil)
	_ highlight.Highlighter  = highlight.Plain{}
)

// outputPerm is the mode of written pages.
const outputPerm = 0o644

// Renderer turns a Markdown document into a complete HTML page.
// Create with NewRenderer. A Renderer is immutable and safe for
// concurrent use.
type Renderer struct {
	cfg       rendererConfig
	converter pipeline.HTMLConverter
	chroma    *highlight.Chroma // nil when WithHighlighter replaced it
	logger    *slog.Logger
}

// NewRenderer creates a Renderer with raw HTML enabled, glyph emoji and
// chroma highlighting over the default language registry.
// Returns an error wrapping ErrInvalidLanguage if WithLanguages names an
// unknown lexer.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg: rendererConfig{
			html:       true,
			langPrefix: pipeline.DefaultLangPrefix,
			style:      highlight.DefaultStyle,
			logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
	}

	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.cfg.logger

	h := r.cfg.highlighter
	if h == nil {
		registry, err := highlight.ExtendDefault(r.cfg.languages)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLanguage, err)
		}
		r.chroma = highlight.NewChroma(registry, highlight.WithStyle(r.cfg.style))
		h = r.chroma
	}

	r.converter = pipeline.NewGoldmarkConverter(pipeline.Options{
		HTML:        r.cfg.html,
		LangPrefix:  r.cfg.langPrefix,
		Highlighter: h,
		Emoji:       r.cfg.emoji,
		Logger:      r.logger,
	})

	return r, nil
}

// Languages returns the fenced-code tags that get highlighted, sorted.
// Returns nil when a custom highlighter is in use.
func (r *Renderer) Languages() []string {
	if r.chroma == nil {
		return nil
	}
	return r.chroma.Registry().Languages()
}

// WriteCSS writes the stylesheet matching the highlight token classes.
func (r *Renderer) WriteCSS(w io.Writer) error {
	if r.chroma == nil {
		return fmt.Errorf("%w: custom highlighter has no stylesheet", highlight.ErrHighlight)
	}
	return r.chroma.WriteCSS(w)
}

// Render converts markdown and substitutes it into the first {body} of
// template. It performs no I/O and never rewrites paths.
func (r *Renderer) Render(ctx context.Context, markdown, template string) (string, error) {
	return r.render(ctx, markdown, template, "", "")
}

// RenderFile reads markdownPath and templatePath, renders the page and
// writes it to outputPath. The output is written to a temporary file in
// the same directory and renamed into place, so a failed run leaves any
// previous output intact.
//
// Read errors wrap ErrResourceNotFound; write errors wrap ErrWriteFailure.
func (r *Renderer) RenderFile(ctx context.Context, markdownPath, templatePath, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	markdown, err := fileutil.ReadText(markdownPath)
	if err != nil {
		return fmt.Errorf("%w: markdown %s: %v", ErrResourceNotFound, markdownPath, err)
	}
	template, err := fileutil.ReadText(templatePath)
	if err != nil {
		return fmt.Errorf("%w: template %s: %v", ErrResourceNotFound, templatePath, err)
	}

	var sourceDir, outputDir string
	if r.cfg.rewritePaths {
		sourceDir, outputDir, err = absDirs(markdownPath, outputPath)
		if err != nil {
			return err
		}
	}

	page, err := r.render(ctx, markdown, template, sourceDir, outputDir)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(outputPath, page, outputPerm); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailure, outputPath, err)
	}

	r.logger.Debug("page written",
		slog.String("source", markdownPath),
		slog.String("template", templatePath),
		slog.String("output", outputPath),
		slog.Int("bytes", len(page)),
	)
	return nil
}

func (r *Renderer) render(ctx context.Context, markdown, template, sourceDir, outputDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fragment, err := r.converter.ToHTML(ctx, markdown)
	if err != nil {
		return "", fmt.Errorf("converting to HTML: %w", err)
	}

	if sourceDir != "" && outputDir != "" {
		fragment, err = pipeline.RewriteRelativePaths(fragment, sourceDir, outputDir)
		if err != nil {
			return "", fmt.Errorf("rewriting relative paths: %w", err)
		}
	}

	if n := pipeline.CountPlaceholders(template); n > 1 {
		r.logger.Warn("template has more than one placeholder, only the first is replaced",
			slog.String("placeholder", pipeline.Placeholder),
			slog.Int("count", n),
		)
	}

	page, err := pipeline.Substitute(template, fragment)
	if errors.Is(err, pipeline.ErrMissingPlaceholder) {
		if !r.cfg.allowMissingPlaceholder {
			return "", err
		}
		r.logger.Warn("template has no placeholder, writing it unchanged",
			slog.String("placeholder", pipeline.Placeholder),
		)
		return page, nil
	}
	return page, err
}

// absDirs returns the absolute directories of the source and output files.
func absDirs(markdownPath, outputPath string) (string, string, error) {
	src, err := filepath.Abs(markdownPath)
	if err != nil {
		return "", "", fmt.Errorf("resolving %s: %w", markdownPath, err)
	}
	out, err := filepath.Abs(outputPath)
	if err != nil {
		return "", "", fmt.Errorf("resolving %s: %w", outputPath, err)
	}
	return filepath.Dir(src), filepath.Dir(out), nil
}
