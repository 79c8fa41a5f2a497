package pkgrouter

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/gocountry/internal/pkg/pkglog"
)

// Generator generates a unique string (used for correlation/request IDs).
type Generator interface {
	Generate() string
}

const (
	// HeaderCorrelationID is echoed on every response.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is accepted as a fallback on incoming requests.
	HeaderRequestID = "X-Request-ID"

	maxCIDLen = 128
)

// incomingCIDHeaders are checked in order.
var incomingCIDHeaders = [...]string{HeaderCorrelationID, HeaderRequestID}

// normalizeCID rejects values that could break header or log lines and caps
// the length of whatever the client sent.
func normalizeCID(v string) string {
	v = strings.TrimSpace(v)
	if strings.ContainsAny(v, "\r\n") {
		return ""
	}
	if len(v) > maxCIDLen {
		return v[:maxCIDLen]
	}
	return v
}

func middlewareCorrelationID(gen Generator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var cid string
			for _, h := range incomingCIDHeaders {
				if cid = normalizeCID(r.Header.Get(h)); cid != "" {
					break
				}
			}

			ctx := r.Context()
			if cid == "" {
				ctx = pkglog.EnsureCorrelationID(ctx, gen)
			} else {
				ctx = pkglog.SetCorrelationID(ctx, cid)
			}

			if cid = pkglog.GetCorrelationID(ctx); cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
