package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"github.com/hpungsan/nudge/internal/errors"
)

// errorBody is the JSON error shape of every endpoint.
type errorBody struct {
	Error string `json:"error"`
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError maps err to a status and a JSON error body. Client errors carry
// their message; anything else is logged and reported generically.
func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if status := errors.StatusOf(err); status < http.StatusInternalServerError {
		var nErr *errors.NudgeError
		stderrors.As(err, &nErr)
		renderJSON(w, status, errorBody{Error: nErr.Message})
		return
	}

	h.logger.Error("request failed",
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	renderJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal Server Error"})
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// renderMarkdown converts markdown text to HTML using goldmark.
// Raw HTML in the source is dropped by the renderer.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<main>
{{.Body}}
</main>
<footer>nudge {{.Version}}</footer>
</body>
</html>
`))

type reportPage struct {
	Title   string
	Version string
	Body    template.HTML
}

// renderHTML executes the report page into a buffer first so that a template
// failure still produces a clean 500.
func (h *Handlers) renderHTML(w http.ResponseWriter, r *http.Request, page reportPage) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, page); err != nil {
		h.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
