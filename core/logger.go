package core

// Logger is any leveled logging service.
// Implementations may inspect args for known types (eg. an authenticated user)
// and attach them to the log entry as metadata.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
