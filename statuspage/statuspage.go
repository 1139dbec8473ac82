// Package statuspage renders HTTP error responses as HTML or plain text,
// depending on what the client accepts.
package statuspage

import (
	"bytes"
	htmlTemplate "html/template"
	"net/http"
	textTemplate "text/template"

	"github.com/golang/gddo/httputil/header"
)

// Context holds the data needed to render a status page.
type Context struct {
	Code    int
	Text    string
	Message string
}

// Writer renders status pages using a pair of templates. The zero value
// renders with the built-in templates.
type Writer struct {
	HTMLTemplate *htmlTemplate.Template
	TextTemplate *textTemplate.Template
}

// DefaultWriter is the status page writer used when no other is configured.
var DefaultWriter = &Writer{}

// Write renders the status page for statusCode with its standard message.
func (wr *Writer) Write(w http.ResponseWriter, r *http.Request, statusCode int) error {
	return wr.WriteMessage(w, r, statusCode, StatusMessage(statusCode))
}

// WriteMessage renders the status page for statusCode with a custom message.
// The page is HTML when the request prefers it and plain text otherwise; if
// the HTML template fails, the text rendering is used as a fallback.
func (wr *Writer) WriteMessage(w http.ResponseWriter, r *http.Request, statusCode int, message string) error {
	var buf bytes.Buffer
	var contentType string

	pageCtx := Context{
		Code:    statusCode,
		Text:    http.StatusText(statusCode),
		Message: message,
	}

	if useHTML(r) {
		tmpl := wr.HTMLTemplate
		if tmpl == nil {
			tmpl = defaultHTMLTemplate
		}
		if err := tmpl.Execute(&buf, pageCtx); err == nil {
			contentType = "text/html"
		}
	}

	if contentType == "" {
		tmpl := wr.TextTemplate
		if tmpl == nil {
			tmpl = defaultTextTemplate
		}
		contentType = "text/plain"
		buf.Reset()
		if err := tmpl.Execute(&buf, pageCtx); err != nil {
			return err
		}
	}

	w.Header().Set("Content-Type", contentType+"; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := buf.WriteTo(w)
	return err
}

// Handler returns a handler that always writes the page for statusCode. It
// backs the router's not-found and method-not-allowed handlers.
func (wr *Writer) Handler(statusCode int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wr.Write(w, r, statusCode)
	})
}

// Handler is the DefaultWriter's Handler.
func Handler(statusCode int) http.Handler {
	return DefaultWriter.Handler(statusCode)
}

// useHTML reports whether the request prefers an HTML response over plain
// text.
func useHTML(r *http.Request) bool {
	htmlQ := -1.0
	textQ := 0.0

	for _, spec := range header.ParseAccept(r.Header, "Accept") {
		switch spec.Value {
		case "text/html", "application/xhtml+xml":
			if spec.Q > htmlQ {
				htmlQ = spec.Q
			}
		case "text/plain", "*/*":
			if spec.Q > textQ {
				textQ = spec.Q
			}
		}
	}

	return htmlQ > textQ
}

const defaultHTMLSource = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Code}} {{.Text}}</title>
<style>
body { font-family: system-ui, sans-serif; color: #1f2430; margin: 0; }
main { max-width: 36rem; margin: 18vh auto 0; padding: 0 1.5rem; }
h1 { font-size: 4rem; margin: 0; }
p.status { color: #5b6170; margin-top: 0.25rem; }
</style>
</head>
<body>
<main>
<h1>{{.Code}}</h1>
<p class="status">{{.Text}}</p>
<p>{{.Message}}</p>
</main>
</body>
</html>
`

const defaultTextSource = `{{.Code}} {{.Text}}

{{.Message}}
`

var defaultHTMLTemplate *htmlTemplate.Template
var defaultTextTemplate *textTemplate.Template

func init() {
	defaultHTMLTemplate = htmlTemplate.Must(
		htmlTemplate.New("status-page").Parse(defaultHTMLSource),
	)
	defaultTextTemplate = textTemplate.Must(
		textTemplate.New("status-page").Parse(defaultTextSource),
	)
}
