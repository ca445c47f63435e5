package mosq

// Logger is the optional logging hook for bridge anomalies and connection
// events. It is satisfied by *slog.Logger. If no logger is set, the
// client stays silent.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger discards everything; the default until SetLogger is called.
type noopLogger struct{}

func (noopLogger) Error(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
