package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer writes the dashboard page.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded page templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("dashboard.html").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page for d.
func (r *Renderer) Render(w io.Writer, d Dashboard) error {
	if err := r.tmpl.ExecuteTemplate(w, "dashboard.html", d); err != nil {
		return fmt.Errorf("view: failed to render dashboard: %w", err)
	}
	return nil
}
