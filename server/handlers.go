package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tsawler/tickmatrix"
	"github.com/tsawler/tickmatrix/config"
	"github.com/tsawler/tickmatrix/report"
)

// formatPage returns the annotated page instead of a report.
const formatPage = "page"

// WarningsHeader carries the number of warnings raised by a validation.
const WarningsHeader = "X-Tickmatrix-Warnings"

type handlers struct {
	cfg    *config.Config
	logger *zap.Logger
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// validate handles POST /api/validate. The body is the HTML page. Query
// parameters: parent and child override the configured scopes, format is
// "page" (annotated HTML, the default) or a report format.
func (h *handlers) validate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	parent := firstNonEmpty(q.Get("parent"), h.cfg.Matrix.ParentScope)
	child := firstNonEmpty(q.Get("child"), h.cfg.Matrix.ChildScope)
	if parent == "" || child == "" {
		h.writeError(w, http.StatusBadRequest, errors.New("parent and child scopes are required"))
		return
	}

	format := strings.ToLower(firstNonEmpty(q.Get("format"), formatPage))
	var reportFormat report.Format
	if format != formatPage {
		f, err := report.ParseFormat(format)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err)
			return
		}
		reportFormat = f
	}

	v := h.validator(w, r).Parent(parent).Child(child)

	var buf bytes.Buffer
	if reportFormat == "" {
		res, err := v.Render(&buf)
		if err != nil {
			h.writeError(w, statusFor(err), err)
			return
		}
		h.logResult(parent, child, len(res.Warnings))
		w.Header().Set(WarningsHeader, strconv.Itoa(len(res.Warnings)))
		h.write(w, "text/html; charset=utf-8", buf.Bytes())
		return
	}

	rep, err := v.Report()
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}
	if err := rep.Write(&buf, reportFormat); err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.logResult(parent, child, len(rep.Result.Warnings))
	w.Header().Set(WarningsHeader, strconv.Itoa(len(rep.Result.Warnings)))
	h.write(w, contentType(reportFormat), buf.Bytes())
}

// labels handles POST /api/labels?scope=<class>, returning the label set.
func (h *handlers) labels(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		h.writeError(w, http.StatusBadRequest, errors.New("scope is required"))
		return
	}

	set, err := h.validator(w, r).Labels(scope)
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}
	h.writeJSON(w, http.StatusOK, set)
}

// validator wraps the size-limited request body.
func (h *handlers) validator(w http.ResponseWriter, r *http.Request) *tickmatrix.Validator {
	body := http.MaxBytesReader(w, r.Body, h.cfg.Server.MaxBodyBytes)
	return tickmatrix.FromReader(body).
		ContentType(r.Header.Get("Content-Type")).
		WithOptions(h.cfg.Options())
}

func (h *handlers) logResult(parent, child string, warnings int) {
	h.logger.Debug("validated page",
		zap.String("parent", parent),
		zap.String("child", child),
		zap.Int("warnings", warnings))
}

func (h *handlers) write(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *handlers) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	h.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, tickmatrix.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}

func contentType(f report.Format) string {
	switch f {
	case report.FormatJSON:
		return "application/json"
	case report.FormatHTML:
		return "text/html; charset=utf-8"
	case report.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		panic(fmt.Sprintf("unhandled report format %q", f))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
