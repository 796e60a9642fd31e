package pipeline

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark-emoji/definition"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// EmojiMode selects how :shortcode: tokens are written.
type EmojiMode int

const (
	// EmojiGlyph writes the Unicode emoji.
	EmojiGlyph EmojiMode = iota
	// EmojiEntity writes numeric character references (&#x1f604;).
	EmojiEntity
	// EmojiOff disables emoji substitution.
	EmojiOff
)

// ParseEmojiMode maps "glyph", "entity" and "off" to an EmojiMode.
func ParseEmojiMode(s string) (EmojiMode, error) {
	switch strings.ToLower(s) {
	case "", "glyph":
		return EmojiGlyph, nil
	case "entity":
		return EmojiEntity, nil
	case "off", "none":
		return EmojiOff, nil
	}
	return EmojiGlyph, fmt.Errorf("invalid emoji mode %q (must be glyph, entity, or off)", s)
}

// String returns the mode name.
func (m EmojiMode) String() string {
	switch m {
	case EmojiEntity:
		return "entity"
	case EmojiOff:
		return "off"
	default:
		return "glyph"
	}
}

// EmojiStage replaces :shortcode: tokens in text with emoji. Unknown
// shortcodes, code spans, code blocks and raw HTML are left untouched.
type EmojiStage struct {
	mode   EmojiMode
	emojis definition.Emojis
}

// NewEmojiStage creates an EmojiStage using the GitHub shortcode set.
func NewEmojiStage(mode EmojiMode) *EmojiStage {
	return &EmojiStage{mode: mode, emojis: definition.Github()}
}

// Name returns "emoji".
func (s *EmojiStage) Name() string { return "emoji" }

// Apply substitutes shortcodes in every eligible text node of doc.
func (s *EmojiStage) Apply(doc *ast.Document, source []byte) {
	var parents []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindCodeSpan, ast.KindFencedCodeBlock, ast.KindCodeBlock,
			ast.KindHTMLBlock, ast.KindRawHTML, ast.KindAutoLink:
			return ast.WalkSkipChildren, nil
		}
		if n.HasChildren() {
			parents = append(parents, n)
		}
		return ast.WalkContinue, nil
	})

	for _, p := range parents {
		mergeAdjacentText(p)
		var texts []*ast.Text
		for c := p.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok && !t.IsRaw() {
				texts = append(texts, t)
			}
		}
		for _, t := range texts {
			s.replaceIn(p, t, source)
		}
	}
}

// replaceIn splits t around each known shortcode, inserting the emoji as a
// String node. t keeps the tail so its line-break flags stay at the end.
func (s *EmojiStage) replaceIn(parent ast.Node, t *ast.Text, source []byte) {
	value := t.Segment.Value(source)
	base := t.Segment.Start
	last := 0

	for i := 0; i < len(value); i++ {
		if value[i] != ':' {
			continue
		}
		end := indexShortcodeEnd(value, i+1)
		if end < 0 {
			continue
		}
		emoji, ok := s.emojis.Get(string(value[i+1 : end]))
		if !ok {
			// The closing colon may open the next shortcode.
			i = end - 1
			continue
		}

		if i > last {
			before := ast.NewTextSegment(text.NewSegment(base+last, base+i))
			parent.InsertBefore(parent, t, before)
		}
		glyph := ast.NewString([]byte(s.render(emoji)))
		glyph.SetCode(true)
		parent.InsertBefore(parent, t, glyph)

		last = end + 1
		i = end
	}

	if last > 0 {
		t.Segment = t.Segment.WithStart(base + last)
	}
}

func (s *EmojiStage) render(e *definition.Emoji) string {
	if s.mode != EmojiEntity {
		return string(e.Unicode)
	}
	var b strings.Builder
	for _, r := range e.Unicode {
		fmt.Fprintf(&b, "&#x%x;", r)
	}
	return b.String()
}

// indexShortcodeEnd returns the index of the colon closing a shortcode
// name that starts at from, or -1.
func indexShortcodeEnd(b []byte, from int) int {
	for j := from; j < len(b); j++ {
		c := b[j]
		switch {
		case c == ':':
			if j == from {
				return -1
			}
			return j
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '_', c == '+', c == '-':
		default:
			return -1
		}
	}
	return -1
}
