// Package assets prepares the site's static files for serving. In prod mode
// CSS and JS are minified once at startup and addressed through content-hashed
// URLs so they can be cached forever; dev mode serves everything as-is.
package assets

import (
	"bytes"
	"compress/gzip"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minjs "github.com/tdewolff/minify/v2/js"
)

// Asset is one minified file prepared at startup.
type Asset struct {
	Data        []byte
	Gzip        []byte // nil when compression failed
	ContentType string
	Hash        string
}

type Assets struct {
	dev       bool
	fsys      fs.FS
	minified  map[string]*Asset // "css/site.min.css" -> prepared bytes
	versioned map[string]string // "/static/css/site.css" -> "/static/css/site.min.css?v=<hash>"
}

// New prepares the assets found in fsys, which must be rooted at the public
// directory. In dev mode nothing is prepared and Path returns its input
// unchanged.
func New(fsys fs.FS, dev bool) (*Assets, error) {
	a := &Assets{
		dev:       dev,
		fsys:      fsys,
		minified:  make(map[string]*Asset),
		versioned: make(map[string]string),
	}
	if dev {
		return a, nil
	}

	m := minify.New()
	m.AddFunc("text/css", mincss.Minify)
	m.AddFunc("application/javascript", minjs.Minify)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := path.Ext(p)
		if ext != ".css" && ext != ".js" {
			return nil
		}
		if strings.Contains(path.Base(p), ".min") {
			return nil
		}

		original, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("cannot read asset %s: %w", p, err)
		}

		mediatype := "text/css"
		if ext == ".js" {
			mediatype = "application/javascript"
		}

		var buf bytes.Buffer
		if err := m.Minify(mediatype, &buf, bytes.NewReader(original)); err != nil {
			return fmt.Errorf("cannot minify %s: %w", p, err)
		}
		minified := buf.Bytes()

		sum := md5.Sum(minified)
		hash := hex.EncodeToString(sum[:])[:6]

		name := strings.TrimSuffix(p, ext) + ".min" + ext
		a.minified[name] = &Asset{
			Data:        minified,
			Gzip:        gzipBytes(minified),
			ContentType: mediatype,
			Hash:        hash,
		}
		a.versioned["/static/"+p] = fmt.Sprintf("/static/%s?v=%s", name, hash)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Path maps an asset URL to its minified, content-versioned form. Unknown
// paths and dev mode return the input unchanged, so templates reference
// assets the same way in both modes.
func (a *Assets) Path(p string) string {
	if a.dev {
		return p
	}
	if versioned, ok := a.versioned[p]; ok {
		return versioned
	}
	return p
}

// Minified returns the prepared asset stored under name, e.g. "css/site.min.css".
func (a *Assets) Minified(name string) (*Asset, bool) {
	asset, ok := a.minified[name]
	return asset, ok
}

// Open opens a raw asset from the underlying filesystem.
func (a *Assets) Open(name string) (fs.File, error) {
	return a.fsys.Open(name)
}

func gzipBytes(data []byte) []byte {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil
	}
	if err := gz.Close(); err != nil {
		return nil
	}
	return buf.Bytes()
}
