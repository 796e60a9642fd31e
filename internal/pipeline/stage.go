package pipeline

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Stage is one content transformation over the parsed document.
// Stages run in slice order after parsing and before rendering.
type Stage interface {
	Name() string
	Apply(doc *ast.Document, source []byte)
}

// StageFunc adapts a function to the Stage interface.
type StageFunc struct {
	StageName string
	Fn        func(doc *ast.Document, source []byte)
}

// Name returns the stage name.
func (s StageFunc) Name() string { return s.StageName }

// Apply calls the wrapped function.
func (s StageFunc) Apply(doc *ast.Document, source []byte) { s.Fn(doc, source) }

// DefaultStages returns the fixed stage order: attributes, sections, emoji.
// Attributes must run before sections so they land on the heading itself.
// EmojiOff drops the emoji stage.
func DefaultStages(emoji EmojiMode) []Stage {
	stages := []Stage{
		&AttributesStage{},
		&SectionsStage{},
	}
	if emoji != EmojiOff {
		stages = append(stages, NewEmojiStage(emoji))
	}
	return stages
}

// stageTransformer runs a stage list as a single goldmark AST transformer,
// so the order is the slice order and not goldmark's priority ordering.
type stageTransformer struct {
	stages []Stage
}

func (t *stageTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	for _, s := range t.stages {
		s.Apply(doc, source)
	}
}

// mergeAdjacentText joins consecutive plain text siblings under parent whose
// segments are contiguous in the source. Inline parsing splits text at
// unmatched delimiters like "_", which would hide ":heavy_check_mark:" or
// "{data-x=a_b}" from the stages that scan text.
func mergeAdjacentText(parent ast.Node) {
	c := parent.FirstChild()
	for c != nil {
		t, ok := c.(*ast.Text)
		if !ok || t.IsRaw() || t.SoftLineBreak() || t.HardLineBreak() {
			c = c.NextSibling()
			continue
		}
		next, ok := t.NextSibling().(*ast.Text)
		if !ok || next.IsRaw() || next.Segment.Start != t.Segment.Stop {
			c = c.NextSibling()
			continue
		}
		t.Segment = t.Segment.WithStop(next.Segment.Stop)
		t.SetSoftLineBreak(next.SoftLineBreak())
		t.SetHardLineBreak(next.HardLineBreak())
		parent.RemoveChild(parent, next)
		// Stay on t: the merged node may join its new next sibling too.
	}
}
