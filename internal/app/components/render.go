// Package components holds the server-rendered widgets of the class-management UI.
// A component keeps only transient UI state and exposes user actions as methods
// that call back into the page that owns the data.
package components

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("components").
		Funcs(template.FuncMap{
			"classes": classes,
		}).
		ParseFS(templateFS, "templates/*.html"),
)

// classes joins non-empty css class fragments
func classes(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func render(w io.Writer, name string, data any) error {
	return templates.ExecuteTemplate(w, name, data)
}

// Renderer is implemented by every component
type Renderer interface {
	Render(w io.Writer) error
}

// HTML renders a component into a fragment for embedding in a page template
func HTML(r Renderer) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
