package pkgrouter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgerror"
)

// Handler returns the payload to encode, or an error to map to a status.
type Handler func(ctx context.Context, r *http.Request) (any, error)

// RawResponse is written as-is (for example a PNG) instead of being wrapped
// in the JSON envelope.
type RawResponse interface {
	ContentType() string
	Body() []byte
}

// Optional hooks a payload can implement to shape the envelope.
type (
	statusCoder interface{ StatusCode() int }
	messenger   interface{ Message() string }
	metaHolder  interface{ Meta() map[string]any }
)

const defaultMessage = "request has been successfully"

type Router struct {
	hr  *httprouter.Router
	mws []Middleware
}

// NewRouter builds a router with recovery, correlation IDs, access logging
// and metrics installed, plus the / and /health probes.
func NewRouter(cid Generator) *Router {
	r := &Router{
		hr: &httprouter.Router{
			RedirectTrailingSlash:  true,
			RedirectFixedPath:      true,
			HandleMethodNotAllowed: true,
			HandleOPTIONS:          true,
			NotFound: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, errorResponse{Message: "endpoint not found"}, http.StatusNotFound)
			}),
			MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, errorResponse{Message: "method not allowed"}, http.StatusMethodNotAllowed)
			}),
		},
		mws: []Middleware{
			middlewareRecoverer,
			middlewareCorrelationID(cid),
			middlewareLogging,
			middlewareMetrics,
		},
	}

	r.Handle(http.MethodGet, "/", probe("hi from gocountry"))
	r.Handle(http.MethodGet, "/health", probe("server is running well"))

	return r
}

func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.Handle(http.MethodGet, path, r.adapt(h), mws...)
}

func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.Handle(http.MethodPost, path, r.adapt(h), mws...)
}

func (r *Router) DELETE(path string, h Handler, mws ...Middleware) {
	r.Handle(http.MethodDelete, path, r.adapt(h), mws...)
}

// Handle registers a plain http.Handler behind the router middleware.
func (r *Router) Handle(method, path string, h http.Handler, mws ...Middleware) {
	chain := make([]Middleware, 0, len(r.mws)+len(mws))
	chain = append(chain, r.mws...)
	chain = append(chain, mws...)

	r.hr.Handler(method, path, withRoute(path, Chain(h, chain...)))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

func (r *Router) adapt(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(req.Context(), req)
		if err != nil {
			writeError(req.Context(), w, err)
			return
		}
		writeSuccess(w, resp)
	})
}

// probe answers liveness checks with a fixed message.
type probe string

func (p probe) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"message": string(p)}, http.StatusOK)
}

type errorResponse struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error,omitempty"`
}

type successResponse struct {
	Message string         `json:"message"`
	Data    any            `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// writeError exposes only *pkgerror.Error messages; anything else is a 500.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var perr *pkgerror.Error
	if !errors.As(err, &perr) {
		slog.ErrorContext(ctx, "unhandled error", "error", err)
		writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		return
	}

	if perr.StatusCode() >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", "error", err, "code", perr.Code())
	}
	writeJSON(w, errorResponse{Message: perr.Msg(), Error: perr.Details()}, perr.StatusCode())
}

func writeSuccess(w http.ResponseWriter, resp any) {
	code := http.StatusOK
	if sc, ok := resp.(statusCoder); ok {
		code = sc.StatusCode()
	}

	if resp == nil || code == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if raw, ok := resp.(RawResponse); ok {
		w.Header().Set("Content-Type", raw.ContentType())
		w.WriteHeader(code)
		if _, err := w.Write(raw.Body()); err != nil {
			slog.Error("failed to write raw body", "error", err)
		}
		return
	}

	body := successResponse{Message: defaultMessage, Data: resp}
	if m, ok := resp.(messenger); ok {
		body.Message = m.Message()
	}
	if m, ok := resp.(metaHolder); ok {
		body.Meta = m.Meta()
	}

	writeJSON(w, body, code)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode json response", "error", err)
	}
}
