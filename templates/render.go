// Package templates renders the server-side HTML pages. The templates are
// embedded so the binary is self-contained.
package templates

import (
	"bytes"
	"crypto/md5"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"
)

//go:embed html/*.html
var files embed.FS

var pages = []string{
	"index", "post", "add", "edit", "register", "login", "about", "contact",
}

var funcs = template.FuncMap{
	"gravatar": Gravatar,
	"safe":     func(s string) template.HTML { return template.HTML(s) },
	"datefmt":  func(t time.Time) string { return t.Format("January 2, 2006") },
}

// Gravatar returns the avatar URL for an email address. Presentation only.
func Gravatar(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=100&d=retro&r=g", sum)
}

type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t, err := template.New("base.html").Funcs(funcs).
			ParseFS(files, "html/base.html", "html/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = t
	}
	return &Renderer{templates: templates}, nil
}

// Render writes the named page. The page is rendered into a buffer first so
// a template error never leaves a half-written response.
func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := rd.templates[name]
	if !ok {
		return fmt.Errorf("unknown template: %s", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
