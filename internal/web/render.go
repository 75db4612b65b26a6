package web

import (
	"bytes"
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hpungsan/stringvault/internal/errors"
)

//go:embed docs/api.md
var apiDocs string

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>stringvault API {{.Version}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Renderer writes JSON responses and the rendered API reference.
type Renderer struct {
	logger  *slog.Logger
	version string
	docs    []byte
}

// NewRenderer creates a Renderer and renders the embedded API reference once.
func NewRenderer(logger *slog.Logger, version string) *Renderer {
	r := &Renderer{logger: logger, version: version}

	var buf bytes.Buffer
	err := docsPage.Execute(&buf, struct {
		Version string
		Body    template.HTML
	}{version, renderMarkdown(apiDocs)})
	if err != nil {
		logger.Error("docs template execution failed", "error", err)
	}
	r.docs = buf.Bytes()

	return r
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// renderJSON writes a JSON response.
func (r *Renderer) renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		r.logger.Error("failed to encode JSON", "error", err)
	}
}

// renderError writes {"error": {code, message, status, details}}.
// Internal errors are logged and replaced with a generic message so SQL
// errors and file paths never reach the client.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var vErr *errors.VaultError
	if !stderrors.As(err, &vErr) {
		vErr = errors.NewInternal(err)
	}

	errorObj := map[string]any{
		"code":    string(vErr.Code),
		"message": vErr.Message,
		"status":  vErr.Status,
	}
	if vErr.Code == errors.ErrInternal {
		r.logger.Error("request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", requestIDFrom(req.Context()),
			"error", err,
		)
		errorObj["message"] = "an internal error occurred"
	} else if vErr.Details != nil {
		errorObj["details"] = vErr.Details
	}

	r.renderJSON(w, vErr.Status, map[string]any{"error": errorObj})
}

// renderDocs writes the pre-rendered API reference page.
func (r *Renderer) renderDocs(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(r.docs)
}
