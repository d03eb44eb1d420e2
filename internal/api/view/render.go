package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"judge_web/internal/domain/model"
	"path"
	"slices"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// shared are parsed into every page.
var shared = []string{"templates/layout.html", "templates/partials.html"}

// Page is the data every full page is rendered with.
type Page struct {
	Title     string
	Active    string
	User      *model.User
	Alerts    []model.Alert
	DismissMs int
	Data      any
}

type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
	dismissMs int
}

func NewRenderer(dismissMs int) (*Renderer, error) {
	entries, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template), dismissMs: dismissMs}

	r.fragments, err = template.New("fragments").Funcs(funcs).ParseFS(templateFS, "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse partials: %w", err)
	}
	for _, entry := range entries {
		if slices.Contains(shared, entry) {
			continue
		}
		name := strings.TrimSuffix(path.Base(entry), ".html")
		files := append(append([]string{}, shared...), entry)
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page name wrapped in the layout. The page is executed into
// a buffer first so a template error never leaves half a document.
func (r *Renderer) Render(w io.Writer, name string, page Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if page.DismissMs == 0 {
		page.DismissMs = r.dismissMs
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Fragment renders one shared partial, for live updates.
func (r *Renderer) Fragment(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render fragment %s: %w", name, err)
	}
	return buf.String(), nil
}

var funcs = template.FuncMap{
	"variant": func(s model.SubmissionStatus) string { return string(s.Variant()) },
	"percent": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"datetime": func(t model.Timestamp) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format(time.DateTime)
	},
}
