package pipeline

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// attributeRenderer renders the elements that can carry {...} attributes
// and writes every attribute set on them. goldmark's HTML renderer only
// writes names from per-element allow lists, which drops key=value pairs
// such as foo=bar.
//
// Apart from the attribute filter, output matches goldmark's renderer.
type attributeRenderer struct {
	unsafe bool
	writer html.Writer
}

func newAttributeRenderer(unsafe bool) *attributeRenderer {
	return &attributeRenderer{unsafe: unsafe, writer: html.DefaultWriter}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *attributeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindParagraph, r.renderParagraph)
	reg.Register(ast.KindListItem, r.renderListItem)
	reg.Register(ast.KindEmphasis, r.renderEmphasis)
	reg.Register(ast.KindCodeSpan, r.renderCodeSpan)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindImage, r.renderImage)
}

// openTag writes "<tag attrs>".
func openTag(w util.BufWriter, tag string, n ast.Node) {
	_ = w.WriteByte('<')
	_, _ = w.WriteString(tag)
	if n.Attributes() != nil {
		html.RenderAttributes(w, n, nil)
	}
	_ = w.WriteByte('>')
}

func (r *attributeRenderer) renderHeading(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	tag := "h" + string("0123456"[n.Level])
	if entering {
		openTag(w, tag, n)
	} else {
		_, _ = w.WriteString("</" + tag + ">\n")
	}
	return ast.WalkContinue, nil
}

func (r *attributeRenderer) renderParagraph(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		openTag(w, "p", n)
	} else {
		_, _ = w.WriteString("</p>\n")
	}
	return ast.WalkContinue, nil
}

func (r *attributeRenderer) renderListItem(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</li>\n")
		return ast.WalkContinue, nil
	}
	openTag(w, "li", n)
	if fc := n.FirstChild(); fc != nil {
		if _, ok := fc.(*ast.TextBlock); !ok {
			_ = w.WriteByte('\n')
		}
	}
	return ast.WalkContinue, nil
}

func (r *attributeRenderer) renderEmphasis(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Emphasis)
	tag := "em"
	if n.Level == 2 {
		tag = "strong"
	}
	if entering {
		openTag(w, tag, n)
	} else {
		_, _ = w.WriteString("</" + tag + ">")
	}
	return ast.WalkContinue, nil
}

func (r *attributeRenderer) renderCodeSpan(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</code>")
		return ast.WalkContinue, nil
	}
	openTag(w, "code", n)
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*ast.Text)
		if !ok {
			continue
		}
		value := t.Segment.Value(source)
		if len(value) > 0 && value[len(value)-1] == '\n' {
			r.writer.RawWrite(w, value[:len(value)-1])
			r.writer.RawWrite(w, []byte(" "))
		} else {
			r.writer.RawWrite(w, value)
		}
	}
	return ast.WalkSkipChildren, nil
}

// writeDestination writes an escaped URL, or nothing for a dangerous URL
// when raw HTML is disabled.
func (r *attributeRenderer) writeDestination(w util.BufWriter, dest []byte) {
	if r.unsafe || !html.IsDangerousURL(dest) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(dest, true)))
	}
}

func (r *attributeRenderer) renderLink(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<a href="`)
	r.writeDestination(w, n.Destination)
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		r.writer.Write(w, n.Title)
		_ = w.WriteByte('"')
	}
	if n.Attributes() != nil {
		html.RenderAttributes(w, n, nil)
	}
	_ = w.WriteByte('>')
	return ast.WalkContinue, nil
}

func (r *attributeRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)
	_, _ = w.WriteString(`<img src="`)
	r.writeDestination(w, n.Destination)
	_, _ = w.WriteString(`" alt="`)
	r.writeAltText(w, source, n)
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		r.writer.Write(w, n.Title)
		_ = w.WriteByte('"')
	}
	if n.Attributes() != nil {
		html.RenderAttributes(w, n, nil)
	}
	_ = w.WriteByte('>')
	return ast.WalkSkipChildren, nil
}

// writeAltText writes the plain text of n's descendants.
func (r *attributeRenderer) writeAltText(w util.BufWriter, source []byte, n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.String:
			switch {
			case v.IsCode():
				_, _ = w.Write(v.Value)
			case v.IsRaw():
				r.writer.RawWrite(w, v.Value)
			default:
				r.writer.Write(w, v.Value)
			}
		case *ast.Text:
			value := v.Segment.Value(source)
			if v.IsRaw() {
				r.writer.RawWrite(w, value)
			} else {
				r.writer.Write(w, value)
			}
			if v.SoftLineBreak() {
				_ = w.WriteByte('\n')
			}
		default:
			r.writeAltText(w, source, c)
		}
	}
}
