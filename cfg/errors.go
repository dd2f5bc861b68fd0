package cfg

import "github.com/embervm/emberc/diag"

// StructuralError reports a malformed routine shape the builder refuses to
// turn into a graph. These must propagate to the caller rather than be
// silently patched over or swallowed.
type StructuralError struct {
	Reason   string
	Severity diag.Severity
}

func (e *StructuralError) Error() string {
	return "cfg: " + e.Reason
}

func newStructuralError(reason string) *StructuralError {
	return &StructuralError{Reason: reason, Severity: diag.Error}
}
