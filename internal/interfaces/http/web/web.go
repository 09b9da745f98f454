// Package web holds the embedded page templates.
package web

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"helpdesk/internal/shared/biztime"
)

//go:embed templates/*.html
var templateFS embed.FS

const timeLayout = "2006-01-02 15:04"

// FuncMap is shared by every page template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.In(biztime.Location()).Format(timeLayout)
		},
		"formatTimePtr": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.In(biztime.Location()).Format(timeLayout)
		},
		"label": func(s string) string {
			return strings.ReplaceAll(s, "_", " ")
		},
	}
}

// Templates parses all page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}
