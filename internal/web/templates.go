package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

func parseTemplates() (*template.Template, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"date": formatDate,
	}).ParseFS(templatesFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// formatDate renders a timestamp as YYYY-MM-DD and collapses nil to "".
func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	}
	return ""
}
