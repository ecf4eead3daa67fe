package catalogservice

// Logger is the minimal logging surface the client needs.
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
}
