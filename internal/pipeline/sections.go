package pipeline

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// KindSection is the node kind of Section.
var KindSection = ast.NewNodeKind("Section")

// Section groups a heading with the content that follows it, up to the
// next heading of the same or a higher level.
type Section struct {
	ast.BaseBlock
	Level int
}

// NewSection returns an empty Section for a heading of the given level.
func NewSection(level int) *Section {
	return &Section{Level: level}
}

// Kind implements ast.Node.
func (n *Section) Kind() ast.NodeKind { return KindSection }

// Dump implements ast.Node.
func (n *Section) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Level": strconv.Itoa(n.Level)}, nil)
}

// SectionsStage turns the flat list of top-level blocks into a nested
// outline of Section nodes. Content before the first heading stays at the
// document root.
type SectionsStage struct{}

// Name returns "sections".
func (s *SectionsStage) Name() string { return "sections" }

// Apply nests doc's top-level blocks under Section nodes.
func (s *SectionsStage) Apply(doc *ast.Document, _ []byte) {
	var blocks []ast.Node
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		blocks = append(blocks, c)
	}
	doc.RemoveChildren(doc)

	var open []*Section
	for _, b := range blocks {
		h, isHeading := b.(*ast.Heading)
		if !isHeading {
			appendTo(doc, open, b)
			continue
		}

		for len(open) > 0 && open[len(open)-1].Level >= h.Level {
			open = open[:len(open)-1]
		}
		sec := NewSection(h.Level)
		appendTo(doc, open, sec)
		sec.AppendChild(sec, h)
		open = append(open, sec)
	}
}

// appendTo adds n to the innermost open section, or to doc when none is open.
func appendTo(doc *ast.Document, open []*Section, n ast.Node) {
	if len(open) == 0 {
		doc.AppendChild(doc, n)
		return
	}
	top := open[len(open)-1]
	top.AppendChild(top, n)
}

// sectionRenderer writes Section nodes as <section> elements.
type sectionRenderer struct{}

func (r *sectionRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindSection, r.renderSection)
}

func (r *sectionRenderer) renderSection(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<section>\n")
	} else {
		_, _ = w.WriteString("</section>\n")
	}
	return ast.WalkContinue, nil
}
