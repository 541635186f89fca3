package http

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

var funcMap = template.FuncMap{
	"ordinal": humanize.Ordinal,
	"ago":     humanize.Time,
	"count": func(n int64) string {
		return humanize.Comma(n)
	},
	"date": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
}

// loadTemplates parses every *.html page. Pages are looked up by file name;
// layout.html only holds the shared header and footer blocks.
func loadTemplates(dir string) (*template.Template, error) {
	var fsys fs.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}
