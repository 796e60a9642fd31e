package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// DefaultTemplateName is the starter template written by init.
const DefaultTemplateName = "default"

//go:embed templates/*.html
var templates embed.FS

// LoadTemplate loads an embedded HTML template by name.
// The name should not include the .html extension.
func LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := templates.ReadFile("templates/" + name + ".html")
	if err != nil {
		return "", fmt.Errorf("%w: %q (available: %s)", ErrTemplateNotFound, name, strings.Join(TemplateNames(), ", "))
	}

	return string(content), nil
}

// TemplateNames returns the embedded template names, sorted.
func TemplateNames() []string {
	entries, err := fs.ReadDir(templates, "templates")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}
