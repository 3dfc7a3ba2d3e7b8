// Package web renders the embedded HTML templates. Every page template
// is parsed together with the shared layout; Render executes the "base"
// block so the layout wraps the page content.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
)

//go:embed templates/*.html
var files embed.FS

var pages = mustParse()

func mustParse() map[string]*template.Template {
	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		panic(err)
	}
	out := make(map[string]*template.Template, len(names))
	for _, n := range names {
		name := path.Base(n)
		if name == "layout.html" {
			continue
		}
		out[name] = template.Must(template.ParseFS(files, "templates/layout.html", n))
	}
	return out
}

func Render(w io.Writer, name string, data any) error {
	t, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}
