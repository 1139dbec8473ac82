package handlers

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// StaticHandlers manages static file serving
type StaticHandlers struct {
	container *Container
}

// NewStaticHandlers creates a new static file handler
func NewStaticHandlers(container *Container) *StaticHandlers {
	return &StaticHandlers{container: container}
}

// ServeStatic serves the files under /static/ plus root files like
// /robots.txt. Dev mode serves from disk with caching disabled so edits show
// up immediately; prod mode serves the minified assets and the embedded
// filesystem with immutable cache headers.
func (h *StaticHandlers) ServeStatic(w http.ResponseWriter, r *http.Request) {
	// Clean the path to prevent directory traversal.
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" || name == "." || strings.HasPrefix(name, "..") {
		http.NotFound(w, r)
		return
	}

	if h.container.Config.Dev() {
		h.serveDisk(w, r, name)
		return
	}
	h.serveEmbedded(w, r, name)
}

func (h *StaticHandlers) serveDisk(w http.ResponseWriter, r *http.Request, name string) {
	SetNoCacheHeaders(w)

	full := filepath.Join(h.container.Config.HTTP.Dir, filepath.FromSlash(name))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	if contentType := getContentType(name); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	http.ServeFile(w, r, full)
}

func (h *StaticHandlers) serveEmbedded(w http.ResponseWriter, r *http.Request, name string) {
	if asset, ok := h.container.Assets.Minified(name); ok {
		w.Header().Set("Content-Type", asset.ContentType)
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")

		if asset.Gzip != nil && acceptsGzip(r) {
			w.Header().Set("Content-Encoding", "gzip")
			w.Header().Set("Vary", "Accept-Encoding")
			http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(asset.Gzip))
			return
		}
		http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(asset.Data))
		return
	}

	file, err := h.container.Assets.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Directory listings are disabled.
	if info.IsDir() {
		http.NotFound(w, r)
		return
	}

	if contentType := getContentType(name); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")

	if seeker, ok := file.(io.ReadSeeker); ok {
		http.ServeContent(w, r, info.Name(), info.ModTime(), seeker)
		return
	}
	io.Copy(w, file)
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

// getContentType returns the appropriate content type for a file
func getContentType(filename string) string {
	ext := path.Ext(filename)
	switch ext {
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	case ".webp":
		return "image/webp"
	case ".ico":
		return "image/x-icon"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	case ".ttf":
		return "font/ttf"
	case ".otf":
		return "font/otf"
	default:
		return ""
	}
}
