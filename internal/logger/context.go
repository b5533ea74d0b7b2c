package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds request-scoped logging context for one query/fetch.
type LogContext struct {
	TraceID   string    // correlation id for the CLI invocation
	SpanID    string    // correlation id for a single fetch
	Backend   string    // backend name (dnsdb, circl, ...)
	QueryMode string    // rrset/name, rdata/name, rdata/ip, rrset/raw, rdata/raw
	FetchID   int       // index of the fetch within its query
	StartTime time.Time // for duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for the given backend.
func NewLogContext(backend string) *LogContext {
	return &LogContext{
		Backend:   backend,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		TraceID:   lc.TraceID,
		SpanID:    lc.SpanID,
		Backend:   lc.Backend,
		QueryMode: lc.QueryMode,
		FetchID:   lc.FetchID,
		StartTime: lc.StartTime,
	}
}

// WithQueryMode returns a copy with the query mode set
func (lc *LogContext) WithQueryMode(mode string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.QueryMode = mode
	}
	return clone
}

// WithFetch returns a copy with the fetch index set
func (lc *LogContext) WithFetch(fetchID int) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.FetchID = fetchID
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
