// Package web holds the server-rendered page templates.
package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every page template with the shared helpers.
func Templates() (*template.Template, error) {
	return template.New("pages").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		// 렌더된 본문은 관리자가 작성한 HTML 이므로 이스케이프하지 않는다.
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
		"date": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"add": func(a, b int) int { return a + b },
	}
}
