package highlight

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// ErrNilLexer indicates a registry entry without a grammar.
var ErrNilLexer = errors.New("nil lexer")

// defaultLanguages maps the language tags accepted in fenced code blocks
// to chroma lexer names.
var defaultLanguages = map[string]string{
	"javascript": "javascript",
	"js":         "javascript",
	"typescript": "typescript",
	"ts":         "typescript",
	"go":         "go",
	"bash":       "bash",
	"sh":         "bash",
	"json":       "json",
	"yaml":       "yaml",
	"html":       "html",
	"css":        "css",
}

// Registry maps language tags to syntax grammars. A Registry is immutable
// once constructed and safe for concurrent use.
type Registry struct {
	lexers map[string]chroma.Lexer
}

// NewRegistry builds a Registry from tag -> lexer pairs. Tags are
// normalized to lower case. The map is copied, so later changes to it
// do not affect the Registry.
func NewRegistry(entries map[string]chroma.Lexer) (*Registry, error) {
	r := &Registry{lexers: make(map[string]chroma.Lexer, len(entries))}
	for tag, lexer := range entries {
		if lexer == nil {
			return nil, fmt.Errorf("%w: %q", ErrNilLexer, tag)
		}
		key := normalizeTag(tag)
		if key == "" {
			return nil, fmt.Errorf("empty language tag")
		}
		r.lexers[key] = lexer
	}
	return r, nil
}

// RegistryFromNames builds a Registry by resolving each chroma lexer name.
// Returns an error naming the first unknown lexer.
func RegistryFromNames(names map[string]string) (*Registry, error) {
	entries := make(map[string]chroma.Lexer, len(names))
	for tag, name := range names {
		lexer := lexers.Get(name)
		if lexer == nil {
			return nil, fmt.Errorf("%w: no chroma lexer named %q for tag %q", ErrNilLexer, name, tag)
		}
		entries[tag] = lexer
	}
	return NewRegistry(entries)
}

// DefaultRegistry returns the registry seeded with JavaScript, TypeScript
// and a handful of languages common in project READMEs.
func DefaultRegistry() *Registry {
	r, err := RegistryFromNames(defaultLanguages)
	if err != nil {
		// The default table only names lexers bundled with chroma.
		panic(err)
	}
	return r
}

// ExtendDefault returns the default registry plus extra tag -> lexer name
// entries. Extra entries replace default tags of the same name.
func ExtendDefault(extra map[string]string) (*Registry, error) {
	names := maps.Clone(defaultLanguages)
	for tag, name := range extra {
		names[normalizeTag(tag)] = name
	}
	return RegistryFromNames(names)
}

// Lookup returns the grammar registered for tag.
func (r *Registry) Lookup(tag string) (chroma.Lexer, bool) {
	if r == nil {
		return nil, false
	}
	lexer, ok := r.lexers[normalizeTag(tag)]
	return lexer, ok
}

// Has reports whether tag names a registered language.
func (r *Registry) Has(tag string) bool {
	_, ok := r.Lookup(tag)
	return ok
}

// Languages returns the registered tags in sorted order.
func (r *Registry) Languages() []string {
	if r == nil {
		return nil
	}
	tags := make([]string, 0, len(r.lexers))
	for tag := range r.lexers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Len returns the number of registered tags.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.lexers)
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
