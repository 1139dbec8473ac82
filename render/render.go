// Package render executes the site's HTML templates. Pages live under
// pages/ and each one is parsed together with the shared base.templ layout.
// In prod mode the pages are parsed once from the embedded filesystem; in
// dev mode every render re-reads them from disk so edits show up without a
// restart.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/Masterminds/sprig/v3"

	"github.com/mb256/web/config"
)

type Renderer struct {
	dev   bool
	dir   string
	fsys  fs.FS
	funcs template.FuncMap
	pages map[string]*template.Template
}

// New builds a Renderer over the embedded template filesystem. The extra
// funcs are merged on top of the sprig set and are available to every page.
func New(cfg *config.Config, embedded fs.FS, extra template.FuncMap) (*Renderer, error) {
	funcs := sprig.HtmlFuncMap()
	for name, fn := range extra {
		funcs[name] = fn
	}

	r := &Renderer{
		dev:   cfg.Dev(),
		dir:   cfg.Templates.Dir,
		fsys:  embedded,
		funcs: funcs,
	}
	if r.dev {
		return r, nil
	}

	pages, err := load(r.fsys, funcs)
	if err != nil {
		return nil, err
	}
	r.pages = pages
	return r, nil
}

// Render writes the named page to w. The output is buffered so a template
// error never leaves a half-written response behind.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	pages, err := r.load()
	if err != nil {
		return err
	}

	tmpl, ok := pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("cannot render %s: %w", name, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// Pages returns the names of all known pages, sorted.
func (r *Renderer) Pages() ([]string, error) {
	pages, err := r.load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(pages))
	for name := range pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *Renderer) load() (map[string]*template.Template, error) {
	if !r.dev {
		return r.pages, nil
	}
	return load(os.DirFS(r.dir), r.funcs)
}

func load(fsys fs.FS, funcs template.FuncMap) (map[string]*template.Template, error) {
	matches, err := fs.Glob(fsys, "pages/*.templ")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(matches))
	for _, p := range matches {
		name := strings.TrimSuffix(path.Base(p), ".templ")
		tmpl, err := template.New("base.templ").
			Option("missingkey=error").
			Funcs(funcs).
			ParseFS(fsys, "base.templ", p)
		if err != nil {
			return nil, fmt.Errorf("cannot parse page %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}
