package logging

import "context"

type requestIDKey struct{}

// WithRequestID returns a context whose log lines carry request_id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored by WithRequestID.
func RequestID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// contextArgs prepends context-carried attributes to args.
func contextArgs(ctx context.Context, args []any) []any {
	id, ok := RequestID(ctx)
	if !ok {
		return args
	}
	return append([]any{"request_id", id}, args...)
}
