package docpage

import (
	"errors"

	"github.com/alnah/go-docpage/internal/highlight"
	"github.com/alnah/go-docpage/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	// ErrResourceNotFound indicates an input file is missing or unreadable.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrWriteFailure indicates the output document could not be written.
	ErrWriteFailure = errors.New("write failure")

	// ErrMissingPlaceholder indicates the template lacks the {body} token.
	ErrMissingPlaceholder = pipeline.ErrMissingPlaceholder

	// ErrHTMLConversion indicates goldmark failed to render the document.
	ErrHTMLConversion = pipeline.ErrHTMLConversion

	// ErrInvalidLanguage indicates a WithLanguages entry names no known lexer.
	ErrInvalidLanguage = errors.New("invalid highlight language")

	// ErrUnknownLanguage is returned by highlighters for unregistered tags.
	// The renderer treats it as a plain-text fallback, not a failure.
	ErrUnknownLanguage = highlight.ErrUnknownLanguage
)
