// Package logging defines the structured-logging interface used across the
// feedback server and its slog-backed implementation.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are key/value pairs:
//
//	log.Info(ctx, "entry submitted", "entry", key, "site", siteKey)
//
// Pairs attached to ctx with ContextWith are added to every record.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

type argsKey struct{}

// ContextWith returns a copy of ctx carrying args in addition to the pairs
// already attached to it.
func ContextWith(ctx context.Context, args ...any) context.Context {
	prev := contextArgs(ctx)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(append(merged, prev...), args...)
	return context.WithValue(ctx, argsKey{}, merged)
}

func contextArgs(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	args, _ := ctx.Value(argsKey{}).([]any)
	return args
}
