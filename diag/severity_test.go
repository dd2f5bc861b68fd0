package diag

import "testing"

func TestEntryString(t *testing.T) {
	e := Entry{Severity: Warning, Message: "something looked odd", Routine: "foo"}
	want := "WARNING: foo: something looked odd"
	if got := e.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	bare := Entry{Severity: Error, Message: "no routine context"}
	if got, want := bare.String(), "ERROR: no routine context"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSeverityString(t *testing.T) {
	cases := map[Severity]string{
		Info:       "INFO",
		Warning:    "WARNING",
		Error:      "ERROR",
		FatalError: "FATAL_ERROR",
	}
	for sev, want := range cases {
		if got := sev.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", sev, got, want)
		}
	}
}
