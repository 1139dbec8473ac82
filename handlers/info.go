package handlers

import (
	"net/http"
)

// InfoHandlers handles info page requests
type InfoHandlers struct {
	container *Container
}

// NewInfoHandlers creates a new InfoHandlers instance
func NewInfoHandlers(container *Container) *InfoHandlers {
	return &InfoHandlers{container: container}
}

// Index serves the info page. The response is the same for every request;
// method, headers, query string and body are not consulted.
func (h *InfoHandlers) Index(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"title":      h.container.Config.Site.Title,
		"livereload": h.container.Config.Dev(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.container.Renderer.Render(w, "info", data); err != nil {
		h.container.Logger.Error("cannot render info page", "error", err)
		http.Error(w, "Could not render template", http.StatusInternalServerError)
	}
}
