package render

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mb256/web/config"
)

const testBase = `<!DOCTYPE html>
<html>
<head><title>{{.title}}</title></head>
<body>{{template "content" .}}</body>
</html>
`

func testConfig(env, dir string) *config.Config {
	cfg := &config.Config{}
	cfg.Site.Env = env
	cfg.Templates.Dir = dir
	return cfg
}

func testTemplates(pages map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{
		"base.templ": &fstest.MapFile{Data: []byte(testBase)},
	}
	for name, content := range pages {
		fsys["pages/"+name+".templ"] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestRender(t *testing.T) {
	fsys := testTemplates(map[string]string{
		"info": `{{define "content"}}<h1>{{.title}}</h1>{{end}}`,
	})

	r, err := New(testConfig("prod", ""), fsys, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, "info", map[string]any{"title": "Info"})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "<title>Info</title>")
	assert.Contains(t, buf.String(), "<h1>Info</h1>")
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := New(testConfig("prod", ""), testTemplates(nil), nil)
	require.NoError(t, err)

	err = r.Render(&bytes.Buffer{}, "nope", nil)
	assert.ErrorContains(t, err, `template "nope" not found`)
}

func TestRenderMissingKey(t *testing.T) {
	fsys := testTemplates(map[string]string{
		"info": `{{define "content"}}{{.absent}}{{end}}`,
	})

	r, err := New(testConfig("prod", ""), fsys, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, "info", map[string]any{"title": "Info"})
	require.Error(t, err)

	// Nothing reaches the writer when rendering fails.
	assert.Zero(t, buf.Len())
}

func TestRenderParseError(t *testing.T) {
	fsys := testTemplates(map[string]string{
		"info": `{{define "content"}}{{end`,
	})

	_, err := New(testConfig("prod", ""), fsys, nil)
	assert.ErrorContains(t, err, "cannot parse page info")
}

func TestRenderSprigFuncs(t *testing.T) {
	fsys := testTemplates(map[string]string{
		"info": `{{define "content"}}{{.title | upper}}{{end}}`,
	})

	r, err := New(testConfig("prod", ""), fsys, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "info", map[string]any{"title": "info"}))
	assert.Contains(t, buf.String(), "INFO")
}

func TestRenderExtraFuncs(t *testing.T) {
	fsys := testTemplates(map[string]string{
		"info": `{{define "content"}}<link href="{{asset "/static/css/site.css"}}">{{end}}`,
	})

	extra := template.FuncMap{
		"asset": func(p string) string { return p + "?v=abc123" },
	}
	r, err := New(testConfig("prod", ""), fsys, extra)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "info", map[string]any{"title": "Info"}))
	assert.Contains(t, buf.String(), "/static/css/site.css?v=abc123")
}

func TestRenderDevReparses(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pages"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.templ"), []byte(testBase), 0o644))

	page := filepath.Join(dir, "pages", "info.templ")
	require.NoError(t, os.WriteFile(page, []byte(`{{define "content"}}first{{end}}`), 0o644))

	r, err := New(testConfig("dev", dir), testTemplates(nil), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "info", map[string]any{"title": "Info"}))
	assert.Contains(t, buf.String(), "first")

	require.NoError(t, os.WriteFile(page, []byte(`{{define "content"}}second{{end}}`), 0o644))

	buf.Reset()
	require.NoError(t, r.Render(&buf, "info", map[string]any{"title": "Info"}))
	assert.Contains(t, buf.String(), "second")
}

func TestPages(t *testing.T) {
	fsys := testTemplates(map[string]string{
		"info":  `{{define "content"}}{{end}}`,
		"about": `{{define "content"}}{{end}}`,
	})

	r, err := New(testConfig("prod", ""), fsys, nil)
	require.NoError(t, err)

	pages, err := r.Pages()
	require.NoError(t, err)
	assert.Equal(t, []string{"about", "info"}, pages)
}
