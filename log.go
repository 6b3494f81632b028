package stdf

// Logger receives diagnostic events from a Reader. Fields are alternating
// key/value pairs. github.com/zerodha/logf's Logger satisfies it.
type Logger interface {
	Debug(msg string, fields ...any)
	Warn(msg string, fields ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
