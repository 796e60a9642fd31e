package pipeline

import (
	"errors"
	"strings"
)

// Placeholder marks where the rendered fragment goes in a template.
const Placeholder = "{body}"

// ErrMissingPlaceholder indicates the template has no {body} token.
var ErrMissingPlaceholder = errors.New("template has no " + Placeholder + " placeholder")

// Substitute replaces the first {body} in template with fragment.
// When the placeholder is absent it returns the template unchanged along
// with ErrMissingPlaceholder, so lenient callers can still write it.
func Substitute(template, fragment string) (string, error) {
	idx := strings.Index(template, Placeholder)
	if idx < 0 {
		return template, ErrMissingPlaceholder
	}
	return template[:idx] + fragment + template[idx+len(Placeholder):], nil
}

// CountPlaceholders returns how many {body} tokens template contains.
func CountPlaceholders(template string) int {
	return strings.Count(template, Placeholder)
}
