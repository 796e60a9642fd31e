package pipeline

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// AttributesStage attaches trailing {...} attribute blocks to elements.
//
// Heading attributes ("## Title {#id .class}") are handled by goldmark's
// parser; this stage covers the rest:
//   - "*em*{.x}", "[link](u){target=_blank}", "`code`{.y}", "![img](u){width=10}":
//     a block directly after an inline element attaches to that element
//   - "A paragraph. {.note}": a block at the end of a paragraph attaches
//     to the paragraph; at the end of a tight list item it attaches to
//     the <li>
//
// The attribute text is removed from the output. Text that does not parse
// as attributes is left as is.
type AttributesStage struct{}

// Name returns "attributes".
func (s *AttributesStage) Name() string { return "attributes" }

// Apply rewrites attribute blocks in doc.
func (s *AttributesStage) Apply(doc *ast.Document, source []byte) {
	var parents []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindCodeSpan, ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		if n.Type() == ast.TypeBlock || isInlineContainer(n) {
			parents = append(parents, n)
		}
		return ast.WalkContinue, nil
	})

	for _, p := range parents {
		mergeAdjacentText(p)
		attachInlineAttributes(p, source)
	}
	for _, p := range parents {
		switch b := p.(type) {
		case *ast.Paragraph:
			attachBlockAttributes(b, b, source)
		case *ast.TextBlock:
			// Tight list items hold a TextBlock; the attributes belong
			// to the <li>.
			if item, ok := b.Parent().(*ast.ListItem); ok && b.NextSibling() == nil {
				attachBlockAttributes(b, item, source)
			}
		case *ast.Heading:
			normalizeAttributes(b)
		}
	}
}

// normalizeAttributes rewrites attribute values set by goldmark's heading
// parser, such as numbers, into the []byte form the renderer writes.
func normalizeAttributes(n ast.Node) {
	for _, attr := range n.Attributes() {
		switch attr.Value.(type) {
		case []byte, string:
		default:
			n.SetAttribute(attr.Name, []byte(fmt.Sprint(attr.Value)))
		}
	}
}

// isInlineContainer reports inline nodes whose children are inline content.
func isInlineContainer(n ast.Node) bool {
	switch n.Kind() {
	case ast.KindEmphasis, ast.KindLink, ast.KindImage:
		return true
	}
	return false
}

// acceptsInlineAttributes reports inline nodes whose HTML renderer writes
// attributes.
func acceptsInlineAttributes(n ast.Node) bool {
	switch n.Kind() {
	case ast.KindEmphasis, ast.KindLink, ast.KindImage, ast.KindCodeSpan:
		return true
	}
	return false
}

func attachInlineAttributes(parent ast.Node, source []byte) {
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if !acceptsInlineAttributes(c) {
			continue
		}
		t, ok := c.NextSibling().(*ast.Text)
		if !ok || t.IsRaw() {
			continue
		}
		value := t.Segment.Value(source)
		if len(value) == 0 || value[0] != '{' {
			continue
		}
		attrs, consumed, ok := parseAttributeBlock(value)
		if !ok {
			continue
		}
		setAttributes(c, attrs)
		t.Segment = t.Segment.WithStart(t.Segment.Start + consumed)
		if t.Segment.Len() == 0 && !t.SoftLineBreak() && !t.HardLineBreak() {
			parent.RemoveChild(parent, t)
		}
	}
}

// attachBlockAttributes moves a trailing {...} block in the text of block
// onto target.
func attachBlockAttributes(block, target ast.Node, source []byte) {
	t, ok := block.LastChild().(*ast.Text)
	if !ok || t.IsRaw() || t.HardLineBreak() {
		return
	}
	value := t.Segment.Value(source)
	trimmed := bytes.TrimRight(value, " \t")
	if len(trimmed) == 0 || trimmed[len(trimmed)-1] != '}' {
		return
	}
	open := bytes.LastIndexByte(trimmed, '{')
	if open < 0 {
		return
	}
	// The block must stand apart from the text before it, or start its line.
	if open > 0 && trimmed[open-1] != ' ' && trimmed[open-1] != '\t' {
		return
	}
	if open == 0 && !startsLine(t) {
		return
	}

	attrs, consumed, ok := parseAttributeBlock(trimmed[open:])
	if !ok || open+consumed != len(trimmed) {
		return
	}
	setAttributes(target, attrs)

	keep := bytes.TrimRight(trimmed[:open], " \t")
	t.Segment = t.Segment.WithStop(t.Segment.Start + len(keep))
	if len(keep) == 0 {
		if prev, ok := t.PreviousSibling().(*ast.Text); ok {
			prev.SetSoftLineBreak(false)
			prev.SetHardLineBreak(false)
		}
		block.RemoveChild(block, t)
	}
}

// startsLine reports whether t is the first inline on its source line.
func startsLine(t *ast.Text) bool {
	prev := t.PreviousSibling()
	if prev == nil {
		return true
	}
	if pt, ok := prev.(*ast.Text); ok {
		return pt.SoftLineBreak() || pt.HardLineBreak()
	}
	return false
}

// parseAttributeBlock parses a {...} block at the start of b. It returns
// the attributes and the number of bytes consumed.
func parseAttributeBlock(b []byte) (parser.Attributes, int, bool) {
	reader := text.NewReader(b)
	attrs, ok := parser.ParseAttributes(reader)
	if !ok || len(attrs) == 0 {
		return nil, 0, false
	}
	rest, _ := reader.PeekLine()
	return attrs, len(b) - len(rest), true
}

// setAttributes copies attrs onto n. Values are stored as []byte, the only
// form goldmark's HTML renderer writes for every value type.
func setAttributes(n ast.Node, attrs parser.Attributes) {
	for _, attr := range attrs {
		switch v := attr.Value.(type) {
		case nil:
			continue
		case []byte:
			n.SetAttribute(attr.Name, v)
		case string:
			n.SetAttribute(attr.Name, []byte(v))
		default:
			n.SetAttribute(attr.Name, []byte(fmt.Sprint(v)))
		}
	}
}
