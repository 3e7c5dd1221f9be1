package report

import (
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// figuresTemplate renders a batch of figures as an HTML fragment.
var figuresTemplate = template.Must(template.ParseFS(templateFS, "templates/figures.html.tmpl"))
