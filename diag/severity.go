// Package diag carries the small severity vocabulary that package cfg
// attaches to its StructuralError.
package diag

// Severity classifies a diagnostic's importance.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	FatalError
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case FatalError:
		return "FATAL_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Entry is one diagnostic notice: a severity plus a human-readable message
// and the routine it concerns.
type Entry struct {
	Severity Severity
	Message  string
	Routine  string
}

func (e Entry) String() string {
	if e.Routine == "" {
		return e.Severity.String() + ": " + e.Message
	}
	return e.Severity.String() + ": " + e.Routine + ": " + e.Message
}
