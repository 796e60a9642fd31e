package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-docpage/internal/highlight"
)

// DefaultLangPrefix is the class prefix for highlighted code blocks.
const DefaultLangPrefix = "language-"

// codeBlockRenderer renders fenced code blocks through a Highlighter.
//
//	known tag:   <pre class="hljs language-TAG"><code>TOKENS</code></pre>
//	otherwise:   <pre class="hljs"><code>ESCAPED</code></pre>
//
// A failing highlighter only affects its own block: the failure is logged
// and the block falls back to escaped text.
type codeBlockRenderer struct {
	highlighter highlight.Highlighter
	langPrefix  string
	logger      *slog.Logger
}

func newCodeBlockRenderer(h highlight.Highlighter, langPrefix string, logger *slog.Logger) *codeBlockRenderer {
	if h == nil {
		h = highlight.Plain{}
	}
	return &codeBlockRenderer{highlighter: h, langPrefix: langPrefix, logger: logger}
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var lang string
	if l := n.Language(source); l != nil {
		lang = string(l)
	}

	var code strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	_, _ = w.WriteString(r.block(code.String(), lang))
	return ast.WalkSkipChildren, nil
}

// block returns the complete <pre> element for one code block.
func (r *codeBlockRenderer) block(code, lang string) string {
	if lang != "" {
		tokens, err := r.safeHighlight(code, lang)
		if err == nil {
			return `<pre class="hljs ` + r.langPrefix + highlight.Escape(lang) + `"><code>` +
				tokens + "</code></pre>\n"
		}
		if !errors.Is(err, highlight.ErrUnknownLanguage) {
			r.logger.Warn("highlight failed, rendering plain text",
				slog.String("lang", lang),
				slog.String("error", err.Error()))
		}
	}
	return `<pre class="hljs"><code>` + highlight.Escape(code) + "</code></pre>\n"
}

// safeHighlight calls the highlighter and turns a panic into ErrHighlight.
func (r *codeBlockRenderer) safeHighlight(code, lang string) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = ""
			err = fmt.Errorf("%w: %s: panic: %v", highlight.ErrHighlight, lang, p)
		}
	}()
	return r.highlighter.Highlight(code, lang)
}
