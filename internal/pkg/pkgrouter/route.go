package pkgrouter

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type routeContextKey struct{}

// withRoute records the registered path pattern so middleware can label logs
// and metrics by route instead of by raw URL.
func withRoute(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), routeContextKey{}, pattern)))
	})
}

func matchedRoutePath(r *http.Request) string {
	if pattern, ok := r.Context().Value(routeContextKey{}).(string); ok && pattern != "" {
		return pattern
	}
	return r.URL.Path
}

// GetParam returns the named path parameter of the current route, or "".
func GetParam(ctx context.Context, key string) string {
	return httprouter.ParamsFromContext(ctx).ByName(key)
}
