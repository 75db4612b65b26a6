package web

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/hpungsan/stringvault/internal/analysis"
	"github.com/hpungsan/stringvault/internal/config"
	"github.com/hpungsan/stringvault/internal/errors"
	"github.com/hpungsan/stringvault/internal/ops"
)

// maxBodyBytes bounds the POST /strings request body.
const maxBodyBytes = 1 << 20

// Handlers contains HTTP route handlers for the JSON API.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
	version  string
}

// HandleCreate handles POST /strings: analyze and store a new string.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	value, err := decodeValue(w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	rec, err := ops.Create(r.Context(), h.db, h.cfg, ops.CreateInput{Value: value})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderJSON(w, http.StatusCreated, rec)
}

// HandleGet handles GET /strings/{value}: fetch by raw value.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := ops.Get(r.Context(), h.db, ops.GetInput{Value: r.PathValue("value")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderJSON(w, http.StatusOK, rec)
}

// HandleDelete handles DELETE /strings/{value}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, err := ops.Delete(r.Context(), h.db, ops.DeleteInput{Value: r.PathValue("value")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleList handles GET /strings: list with optional property filters.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.List(r.Context(), h.db, ops.ListInput{Filters: filters})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderJSON(w, http.StatusOK, result)
}

// HandleFilterByNaturalLanguage handles GET /strings/filter-by-natural-language.
func (h *Handlers) HandleFilterByNaturalLanguage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("query") {
		h.renderer.renderError(w, r, errors.NewValidation("query", "query parameter is required"))
		return
	}

	result, err := ops.Search(r.Context(), h.db, ops.SearchInput{Query: q.Get("query")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderJSON(w, http.StatusOK, result)
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}

	h.renderer.renderJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// HandleDocs handles GET /docs: the rendered API reference.
func (h *Handlers) HandleDocs(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderDocs(w)
}

// decodeValue reads {"value": "<string>"} from the request body.
func decodeValue(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	var body map[string]json.RawMessage
	if err := dec.Decode(&body); err != nil {
		return "", bodyError(err, "request body must be a JSON object")
	}
	// Only whitespace may follow the object.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return "", bodyError(err, "request body must be a single JSON object")
	}

	raw, ok := body["value"]
	if !ok {
		return "", errors.NewValidation("value", "value is required")
	}

	var value string
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" || json.Unmarshal(raw, &value) != nil {
		return "", errors.NewValidation("value", "value must be a string")
	}
	return value, nil
}

func bodyError(err error, msg string) error {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return errors.NewValidation("value", "request body too large")
	}
	return errors.NewValidation("body", msg)
}

// parseFilters reads the list filters from query parameters. Empty
// parameters are treated as absent.
func parseFilters(r *http.Request) (analysis.Filters, error) {
	var f analysis.Filters
	q := r.URL.Query()

	if s := q.Get("is_palindrome"); s != "" {
		b, err := parseBool(s)
		if err != nil {
			return f, errors.NewValidation("is_palindrome", "is_palindrome must be a boolean")
		}
		f.IsPalindrome = &b
	}

	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"min_length", &f.MinLength},
		{"max_length", &f.MaxLength},
		{"word_count", &f.WordCount},
	} {
		s := q.Get(p.name)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return f, errors.NewValidation(p.name, p.name+" must be an integer")
		}
		*p.dst = &n
	}

	if s := q.Get("contains_character"); s != "" {
		f.ContainsCharacter = &s
	}

	return f, nil
}

// parseBool accepts the usual spellings of a boolean query parameter.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, strconv.ErrSyntax
}
