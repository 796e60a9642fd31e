// Package pipeline implements the Markdown-to-HTML page pipeline.
//
// The stages run in a fixed order:
//   - parse Markdown with goldmark (tables, strikethrough, heading attributes)
//   - attributes: trailing {...} blocks on paragraphs and inline elements
//   - sections: wrap each heading and its content in nested <section> elements
//   - emoji: replace :shortcode: tokens with emoji
//   - render, with fenced code blocks passed through a highlight.Highlighter
//   - optionally rewrite relative links for the output location
//   - substitute the fragment into the template's {body} placeholder
//
// Reading inputs and writing the page are handled by the root docpage
// package. This package works on strings only.
package pipeline
