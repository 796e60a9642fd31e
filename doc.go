// Package docpage renders a Markdown document into a static HTML page.
//
// # Quick Start
//
// Create a renderer and render a file into a template:
//
//	r, err := docpage.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = r.RenderFile(ctx, "../README.md", "./template.html", "./www/index.html")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The template must contain the literal token {body}. Its first occurrence
// is replaced by the rendered Markdown; the rest of the template is copied
// byte for byte.
//
// # Rendering Pipeline
//
// Rendering is a single synchronous pass:
//
//  1. Parse Markdown with goldmark (CommonMark, GFM tables and strikethrough)
//  2. Attach {#id .class key=value} attributes to headings, paragraphs and
//     inline elements
//  3. Wrap each heading and the content it introduces in <section>
//  4. Replace :shortcode: emoji
//  5. Highlight fenced code blocks with chroma; unknown languages and
//     highlighter failures fall back to escaped plain text
//  6. Substitute the fragment into the template and write it atomically
//
// # Configuration
//
// Use functional options to customize the renderer:
//
//	r, err := docpage.NewRenderer(
//	    docpage.WithHTML(false),
//	    docpage.WithEmoji(docpage.EmojiEntity),
//	    docpage.WithLanguages(map[string]string{"py": "python"}),
//	    docpage.WithLogger(slog.Default()),
//	)
//
// A Renderer holds no mutable state after construction and may be shared
// across goroutines.
//
// # Errors
//
// Missing inputs wrap ErrResourceNotFound and unwritable outputs wrap
// ErrWriteFailure. A template without {body} fails with
// ErrMissingPlaceholder unless WithAllowMissingPlaceholder is set.
package docpage
