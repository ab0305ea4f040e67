package port

// Logger is the structured logger handed to application services.
// Arguments are alternating key/value pairs, as in log/slog.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a Logger that adds args to every entry.
	With(args ...any) Logger
}
