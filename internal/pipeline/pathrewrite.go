package pipeline

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-docpage/internal/highlight"
)

// RewriteRelativePaths makes relative image and link targets in an HTML
// fragment resolve from outputDir instead of sourceDir. A README at the repo
// root that links "docs/guide.md" keeps working when the page is written to
// "site/www/index.html".
// If either directory is empty, returns the HTML unchanged.
//
// Rewrites:
//   - img[src]
//   - a[href]
//
// Leaves alone URLs with a scheme, protocol-relative URLs, anchors,
// absolute paths and data URIs. Query strings and fragments are kept.
// Only rewritten tags are re-serialized; all other bytes are copied as is.
func RewriteRelativePaths(fragment, sourceDir, outputDir string) (string, error) {
	if sourceDir == "" || outputDir == "" {
		return fragment, nil
	}

	absSource, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}
	absOutput, err := filepath.Abs(outputDir)
	if err != nil {
		return "", err
	}
	if absSource == absOutput {
		return fragment, nil
	}

	z := html.NewTokenizer(strings.NewReader(fragment))
	var buf strings.Builder
	buf.Grow(len(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return buf.String(), nil
		case html.StartTagToken, html.SelfClosingTagToken:
			// TagName and TagAttr lower-case the token buffer in place.
			raw := append([]byte(nil), z.Raw()...)
			if tag, ok := rewriteTag(z, tt, absSource, absOutput); ok {
				buf.WriteString(tag)
			} else {
				buf.Write(raw)
			}
			continue
		}
		buf.Write(z.Raw())
	}
}

// rewriteTag rebuilds an img or a start tag with its target rebased.
// It reports false when the tag needs no change; the caller then copies
// the original bytes.
func rewriteTag(z *html.Tokenizer, tt html.TokenType, sourceDir, outputDir string) (string, bool) {
	name, hasAttr := z.TagName()
	var target string
	switch atom.Lookup(name) {
	case atom.Img:
		target = "src"
	case atom.A:
		target = "href"
	default:
		return "", false
	}

	var b strings.Builder
	changed := false
	b.WriteByte('<')
	b.Write(name)
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		v := string(val)
		if string(key) == target {
			if rebased, ok := rebase(v, sourceDir, outputDir); ok {
				v = rebased
				changed = true
			}
		}
		b.WriteByte(' ')
		b.Write(key)
		b.WriteString(`="`)
		b.WriteString(highlight.Escape(v))
		b.WriteByte('"')
	}
	if tt == html.SelfClosingTagToken {
		b.WriteString(" />")
	} else {
		b.WriteByte('>')
	}
	return b.String(), changed
}

// rebase returns v resolved from sourceDir and made relative to outputDir.
func rebase(v, sourceDir, outputDir string) (string, bool) {
	if !isRelativePath(v) {
		return "", false
	}
	path, suffix := splitSuffix(v)
	rel, err := filepath.Rel(outputDir, filepath.Join(sourceDir, filepath.FromSlash(path)))
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel) + suffix, true
}

// splitSuffix separates "?query" and "#fragment" from a path.
func splitSuffix(v string) (path, suffix string) {
	if idx := strings.IndexAny(v, "?#"); idx >= 0 {
		return v[:idx], v[idx:]
	}
	return v, ""
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}

	// Skip anchors and protocol-relative URLs
	if strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}

	// Skip anything with a scheme (http:, mailto:, data:, file:)
	if idx := strings.IndexAny(path, ":/?#"); idx > 0 && path[idx] == ':' {
		return false
	}

	// Skip absolute paths
	if strings.HasPrefix(path, "/") || filepath.IsAbs(path) {
		return false
	}

	return true
}
