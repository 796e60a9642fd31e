// Package highlight provides syntax highlighting for fenced code blocks.
//
// A Registry holds the closed set of language grammars, built once and
// never mutated. A Highlighter turns code into span-tagged HTML for a
// registered tag. Chroma is the production implementation; Plain and
// HighlighterFunc exist for callers that want escaped output or a stub.
package highlight
