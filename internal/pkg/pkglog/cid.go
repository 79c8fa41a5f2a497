package pkglog

import "context"

type correlationIDKey struct{}

// GetCorrelationID returns the correlation ID carried by ctx, or "" if none.
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	cid, _ := ctx.Value(correlationIDKey{}).(string)
	return cid
}

// SetCorrelationID returns a copy of ctx carrying cid. An empty cid leaves ctx
// unchanged.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	if cid == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey{}, cid)
}

// EnsureCorrelationID keeps an existing correlation ID or attaches a new one
// from gen. Background jobs use it so a whole refresh run shares one ID.
func EnsureCorrelationID(ctx context.Context, gen interface{ Generate() string }) context.Context {
	if GetCorrelationID(ctx) != "" || gen == nil {
		return ctx
	}
	return SetCorrelationID(ctx, gen.Generate())
}
