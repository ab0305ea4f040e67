package logger

import "multichain_wallet/internal/app/port"

// slogAdapter implements port.Logger on top of the package-level functions,
// so services always write through the current global logger.
type slogAdapter struct {
	attrs []any
}

// NewSlogAdapter creates a port.Logger backed by the global logger.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

func (a *slogAdapter) args(args []any) []any {
	if len(a.attrs) == 0 {
		return args
	}
	merged := make([]any, 0, len(a.attrs)+len(args))
	merged = append(merged, a.attrs...)
	return append(merged, args...)
}

func (a *slogAdapter) Info(msg string, args ...any) {
	Info(msg, a.args(args)...)
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	Debug(msg, a.args(args)...)
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	Warn(msg, a.args(args)...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	Error(msg, a.args(args)...)
}

// With returns a child adapter carrying extra key/value pairs.
func (a *slogAdapter) With(args ...any) port.Logger {
	return &slogAdapter{attrs: a.args(args)}
}

// Nop returns a port.Logger that discards everything. Used in tests.
func Nop() port.Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)        {}
func (nopLogger) Debug(string, ...any)       {}
func (nopLogger) Warn(string, ...any)        {}
func (nopLogger) Error(string, ...any)       {}
func (n nopLogger) With(...any) port.Logger { return n }
