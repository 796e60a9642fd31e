package docpage

// Notes:
// - Render is tested in memory; RenderFile against t.TempDir() trees
// - Pipeline stage output is covered in internal/pipeline; these tests
//   check composition, error mapping and file-level guarantees
// - Converter failures are injected by swapping r.converter

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

const pageTemplate = "<!doctype html>\n<main>{body}</main>\n"

type failingConverter struct {
	err error
}

func (f failingConverter) ToHTML(context.Context, string) (string, error) {
	return "", f.err
}

func newTestRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := NewRenderer(opts...)
	if err != nil {
		t.Fatalf("NewRenderer() unexpected error: %v", err)
	}
	return r
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// ---------------------------------------------------------------------------
// TestRender - In-memory rendering
// ---------------------------------------------------------------------------

func TestRender(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)

	got, err := r.Render(context.Background(), "# Title\n\nHello :smile:\n", pageTemplate)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	for _, want := range []string{
		"<!doctype html>\n<main>",
		"<section>",
		"<h1>Title</h1>",
		"<p>Hello \U0001F604</p>",
		"</section>\n</main>\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing %q\ngot: %s", want, got)
		}
	}
	if strings.Contains(got, "{body}") {
		t.Errorf("Render() left placeholder in output: %s", got)
	}
}

func TestRender_Idempotent(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	md := "## API {#api .ref}\n\n```ts\nconst x: number = 1;\n```\n\ntext {.lead}\n"

	first, err := r.Render(context.Background(), md, pageTemplate)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	second, err := r.Render(context.Background(), md, pageTemplate)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("Render() not deterministic\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestRender_CodeBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		opts         []Option
		markdown     string
		wantContains []string
		wantAbsent   []string
	}{
		{
			name:         "registered language highlighted",
			markdown:     "```js\nlet a = 1;\n```\n",
			wantContains: []string{`<pre class="hljs language-js"><code>`, "<span"},
		},
		{
			name:         "unknown language escaped",
			markdown:     "```cobol\nIF A < B & C > \"D\"\n```\n",
			wantContains: []string{`<pre class="hljs"><code>IF A &lt; B &amp; C &gt; &quot;D&quot;`},
			wantAbsent:   []string{"<span"},
		},
		{
			name:         "no language escaped",
			markdown:     "```\n<b>\n```\n",
			wantContains: []string{`<pre class="hljs"><code>&lt;b&gt;`},
		},
		{
			name:         "lang prefix replaced",
			opts:         []Option{WithLangPrefix("lang-")},
			markdown:     "```go\nfunc f() {}\n```\n",
			wantContains: []string{`<pre class="hljs lang-go"><code>`},
		},
		{
			name:         "extra language registered",
			opts:         []Option{WithLanguages(map[string]string{"py": "python"})},
			markdown:     "```py\nprint(1)\n```\n",
			wantContains: []string{`<pre class="hljs language-py"><code>`},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRenderer(t, tt.opts...)
			got, err := r.Render(context.Background(), tt.markdown, "{body}")
			if err != nil {
				t.Fatalf("Render() unexpected error: %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\ngot: %s", want, got)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("output should not contain %q\ngot: %s", absent, got)
				}
			}
		})
	}
}

func TestRender_HighlighterFailureIsolated(t *testing.T) {
	t.Parallel()

	logger, logs := bufferLogger()
	h := HighlighterFunc(func(code, lang string) (string, error) {
		if lang == "bad" {
			return "", errors.New("grammar exploded")
		}
		return "<span>" + code + "</span>", nil
	})
	r := newTestRenderer(t, WithHighlighter(h), WithLogger(logger))

	md := "```bad\na<b\n```\n\n```ok\nx\n```\n"
	got, err := r.Render(context.Background(), md, "{body}")
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	if !strings.Contains(got, `<pre class="hljs"><code>a&lt;b`) {
		t.Errorf("failed block not rendered plain\ngot: %s", got)
	}
	if !strings.Contains(got, `<pre class="hljs language-ok"><code><span>`) {
		t.Errorf("healthy block not highlighted\ngot: %s", got)
	}
	if !strings.Contains(logs.String(), "lang=bad") {
		t.Errorf("failure not logged with language tag\nlogs: %s", logs.String())
	}
}

func TestRender_RawHTML(t *testing.T) {
	t.Parallel()

	md := "<div class=\"note\">hi</div>\n"

	on := newTestRenderer(t)
	got, err := on.Render(context.Background(), md, "{body}")
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if !strings.Contains(got, `<div class="note">hi</div>`) {
		t.Errorf("raw HTML not passed through: %s", got)
	}

	off := newTestRenderer(t, WithHTML(false))
	got, err = off.Render(context.Background(), md, "{body}")
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if strings.Contains(got, `<div class="note">`) {
		t.Errorf("raw HTML passed through with WithHTML(false): %s", got)
	}
}

func TestRender_EmojiModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode EmojiMode
		want string
	}{
		{EmojiGlyph, "<p>\U0001F680</p>"},
		{EmojiEntity, "<p>&#x1f680;</p>"},
		{EmojiOff, "<p>:rocket:</p>"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.mode.String(), func(t *testing.T) {
			t.Parallel()

			r := newTestRenderer(t, WithEmoji(tt.mode))
			got, err := r.Render(context.Background(), ":rocket:\n", "{body}")
			if err != nil {
				t.Fatalf("Render() unexpected error: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Render() = %q, want to contain %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRender_Placeholder - {body} policy
// ---------------------------------------------------------------------------

func TestRender_MissingPlaceholder(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	_, err := r.Render(context.Background(), "# x\n", "<html></html>")
	if !errors.Is(err, ErrMissingPlaceholder) {
		t.Errorf("Render() error = %v, want ErrMissingPlaceholder", err)
	}
}

func TestRender_AllowMissingPlaceholder(t *testing.T) {
	t.Parallel()

	logger, logs := bufferLogger()
	r := newTestRenderer(t, WithAllowMissingPlaceholder(true), WithLogger(logger))

	const tmpl = "<html></html>"
	got, err := r.Render(context.Background(), "# x\n", tmpl)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if got != tmpl {
		t.Errorf("Render() = %q, want template unchanged %q", got, tmpl)
	}
	if !strings.Contains(logs.String(), "no placeholder") {
		t.Errorf("missing placeholder not logged\nlogs: %s", logs.String())
	}
}

func TestRender_MultiplePlaceholders(t *testing.T) {
	t.Parallel()

	logger, logs := bufferLogger()
	r := newTestRenderer(t, WithLogger(logger))

	got, err := r.Render(context.Background(), "x\n", "{body}|{body}")
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if got != "<p>x</p>\n|{body}" {
		t.Errorf("Render() = %q, want first placeholder only replaced", got)
	}
	if !strings.Contains(logs.String(), "count=2") {
		t.Errorf("duplicate placeholder not logged\nlogs: %s", logs.String())
	}
}

// ---------------------------------------------------------------------------
// TestRender_Errors - Cancellation and conversion failures
// ---------------------------------------------------------------------------

func TestRender_ContextCanceled(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, "# x\n", "{body}")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestRender_ConversionError(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	r.converter = failingConverter{err: ErrHTMLConversion}

	_, err := r.Render(context.Background(), "# x\n", "{body}")
	if !errors.Is(err, ErrHTMLConversion) {
		t.Errorf("Render() error = %v, want ErrHTMLConversion", err)
	}
}

func TestRender_ConcurrentUse(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	want, err := r.Render(context.Background(), "# T\n\n```ts\nlet a = 1\n```\n", "{body}")
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.Render(context.Background(), "# T\n\n```ts\nlet a = 1\n```\n", "{body}")
			if err != nil {
				t.Errorf("Render() unexpected error: %v", err)
				return
			}
			if got != want {
				t.Errorf("concurrent Render() differs from sequential output")
			}
		}()
	}
	wg.Wait()
}

// ---------------------------------------------------------------------------
// TestNewRenderer - Construction
// ---------------------------------------------------------------------------

func TestNewRenderer_InvalidLanguage(t *testing.T) {
	t.Parallel()

	_, err := NewRenderer(WithLanguages(map[string]string{"x": "no-such-lexer"}))
	if !errors.Is(err, ErrInvalidLanguage) {
		t.Errorf("NewRenderer() error = %v, want ErrInvalidLanguage", err)
	}
}

func TestRenderer_Languages(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	langs := strings.Join(r.Languages(), ",")
	for _, want := range []string{"javascript", "js", "typescript", "ts"} {
		if !strings.Contains(","+langs+",", ","+want+",") {
			t.Errorf("Languages() = %s, missing %q", langs, want)
		}
	}

	custom := newTestRenderer(t, WithHighlighter(HighlighterFunc(func(string, string) (string, error) {
		return "", ErrUnknownLanguage
	})))
	if custom.Languages() != nil {
		t.Errorf("Languages() with custom highlighter = %v, want nil", custom.Languages())
	}
}

func TestRenderer_WriteCSS(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := newTestRenderer(t).WriteCSS(&buf); err != nil {
		t.Fatalf("WriteCSS() unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "{") {
		t.Errorf("WriteCSS() produced no rules: %q", buf.String())
	}

	custom := newTestRenderer(t, WithHighlighter(HighlighterFunc(func(string, string) (string, error) {
		return "", ErrUnknownLanguage
	})))
	if err := custom.WriteCSS(&buf); err == nil {
		t.Error("WriteCSS() with custom highlighter should fail")
	}
}

// ---------------------------------------------------------------------------
// TestRenderFile - File-level behavior
// ---------------------------------------------------------------------------

func TestRenderFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mdPath := filepath.Join(dir, "README.md")
	tmplPath := filepath.Join(dir, "docs", "template.html")
	outPath := filepath.Join(dir, "docs", "www", "index.html")

	writeFile(t, mdPath, "# Project\n\nIntro.\n")
	writeFile(t, tmplPath, pageTemplate)
	writeFile(t, outPath, "stale output that is much longer than the new page will ever be")

	r := newTestRenderer(t)
	if err := r.RenderFile(context.Background(), mdPath, tmplPath, outPath); err != nil {
		t.Fatalf("RenderFile() unexpected error: %v", err)
	}

	got := readFile(t, outPath)
	if !strings.HasPrefix(got, "<!doctype html>\n<main><section>") {
		t.Errorf("output does not start with template prefix: %q", got)
	}
	if strings.Contains(got, "stale") {
		t.Errorf("previous output not fully overwritten: %q", got)
	}

	entries, err := os.ReadDir(filepath.Dir(outPath))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("output dir has %v, want only index.html", names)
	}
}

func TestRenderFile_MatchesRender(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	md := "# A {#a}\n\n## B\n\ntext\n"
	mdPath := filepath.Join(dir, "in.md")
	tmplPath := filepath.Join(dir, "t.html")
	outPath := filepath.Join(dir, "out.html")
	writeFile(t, mdPath, md)
	writeFile(t, tmplPath, pageTemplate)

	r := newTestRenderer(t)
	want, err := r.Render(context.Background(), md, pageTemplate)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if err := r.RenderFile(context.Background(), mdPath, tmplPath, outPath); err != nil {
		t.Fatalf("RenderFile() unexpected error: %v", err)
	}
	if got := readFile(t, outPath); got != want {
		t.Errorf("RenderFile() output differs from Render()\ngot:  %q\nwant: %q", got, want)
	}
}

func TestRenderFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mdPath := filepath.Join(dir, "README.md")
	tmplPath := filepath.Join(dir, "template.html")
	noBody := filepath.Join(dir, "nobody.html")
	writeFile(t, mdPath, "# x\n")
	writeFile(t, tmplPath, pageTemplate)
	writeFile(t, noBody, "<html></html>")

	tests := []struct {
		name     string
		markdown string
		template string
		output   string
		wantErr  error
	}{
		{"missing markdown", filepath.Join(dir, "missing.md"), tmplPath, filepath.Join(dir, "a.html"), ErrResourceNotFound},
		{"markdown is directory", dir, tmplPath, filepath.Join(dir, "b.html"), ErrResourceNotFound},
		{"missing template", mdPath, filepath.Join(dir, "missing.html"), filepath.Join(dir, "c.html"), ErrResourceNotFound},
		{"missing output directory", mdPath, tmplPath, filepath.Join(dir, "nope", "d.html"), ErrWriteFailure},
		{"missing placeholder", mdPath, noBody, filepath.Join(dir, "e.html"), ErrMissingPlaceholder},
	}

	r := newTestRenderer(t)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := r.RenderFile(context.Background(), tt.markdown, tt.template, tt.output)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("RenderFile() error = %v, want %v", err, tt.wantErr)
			}
			if _, statErr := os.Stat(tt.output); !os.IsNotExist(statErr) {
				t.Errorf("output %s should not exist after failure", tt.output)
			}
		})
	}
}

func TestRenderFile_FailureKeepsPreviousOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mdPath := filepath.Join(dir, "README.md")
	tmplPath := filepath.Join(dir, "template.html")
	outPath := filepath.Join(dir, "index.html")
	writeFile(t, mdPath, "# x\n")
	writeFile(t, tmplPath, "<html>no placeholder</html>")
	writeFile(t, outPath, "previous")

	r := newTestRenderer(t)
	err := r.RenderFile(context.Background(), mdPath, tmplPath, outPath)
	if !errors.Is(err, ErrMissingPlaceholder) {
		t.Fatalf("RenderFile() error = %v, want ErrMissingPlaceholder", err)
	}
	if got := readFile(t, outPath); got != "previous" {
		t.Errorf("previous output changed to %q", got)
	}
}

func TestRenderFile_ContextCanceled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mdPath := filepath.Join(dir, "README.md")
	tmplPath := filepath.Join(dir, "template.html")
	outPath := filepath.Join(dir, "index.html")
	writeFile(t, mdPath, "# x\n")
	writeFile(t, tmplPath, pageTemplate)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestRenderer(t).RenderFile(ctx, mdPath, tmplPath, outPath)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RenderFile() error = %v, want context.Canceled", err)
	}
	if _, statErr := os.Stat(outPath); !os.IsNotExist(statErr) {
		t.Error("output should not be written after cancellation")
	}
}

func TestRenderFile_RewritePaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mdPath := filepath.Join(dir, "README.md")
	tmplPath := filepath.Join(dir, "docs", "template.html")
	outPath := filepath.Join(dir, "docs", "www", "index.html")
	writeFile(t, mdPath, "![logo](assets/logo.png)\n\n[site](https://example.com)\n\n```text\nit's \"x\"\n```\n")
	writeFile(t, tmplPath, "{body}")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	r := newTestRenderer(t, WithRewritePaths(true))
	if err := r.RenderFile(context.Background(), mdPath, tmplPath, outPath); err != nil {
		t.Fatalf("RenderFile() unexpected error: %v", err)
	}

	got := readFile(t, outPath)
	if !strings.Contains(got, `src="../../assets/logo.png"`) {
		t.Errorf("image path not rebased\ngot: %s", got)
	}
	if !strings.Contains(got, `href="https://example.com"`) {
		t.Errorf("absolute URL changed\ngot: %s", got)
	}
	if !strings.Contains(got, "<code>it's &quot;x&quot;\n</code>") {
		t.Errorf("code block re-escaped by rewrite\ngot: %s", got)
	}
}
