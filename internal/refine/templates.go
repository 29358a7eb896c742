package refine

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateNames = []string{
	"light",
	"grammar",
	"image_conversational",
	"image_structured",
	"guided",
}

// templateBuilder renders the system instruction for each strategy.
type templateBuilder struct {
	templates map[string]*template.Template
}

func newTemplateBuilder() (*templateBuilder, error) {
	tb := &templateBuilder{templates: make(map[string]*template.Template)}

	funcMap := template.FuncMap{
		"truncate": truncate,
		"join":     strings.Join,
		"percent":  func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) },
	}

	for _, name := range templateNames {
		filename := fmt.Sprintf("templates/%s.tmpl", name)
		tmpl, err := template.New(name + ".tmpl").Funcs(funcMap).ParseFS(templateFS, filename)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		tb.templates[name] = tmpl
	}
	return tb, nil
}

func (tb *templateBuilder) render(name string, data any) (string, error) {
	tmpl, ok := tb.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
