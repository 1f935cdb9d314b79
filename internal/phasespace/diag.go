package phasespace

import "fmt"

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityInfo marks informational notes.
	SeverityInfo Severity = iota
	// SeverityWarning marks degraded or approximate results.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	}
	return "unknown"
}

// Diagnostic is one non-fatal condition met during an analysis call.
type Diagnostic struct {
	Severity Severity
	Op       string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s]: %s", d.Severity, d.Op, d.Message)
}

// Diag collects diagnostics across calls. A nil *Diag is valid and drops
// everything, so callers that do not care simply pass nil.
type Diag struct {
	entries []Diagnostic
}

func (d *Diag) report(sev Severity, op, format string, args ...any) {
	if d == nil {
		return
	}
	d.entries = append(d.entries, Diagnostic{
		Severity: sev,
		Op:       op,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Warningf records a warning-level diagnostic.
func (d *Diag) Warningf(op, format string, args ...any) {
	d.report(SeverityWarning, op, format, args...)
}

// Infof records an informational diagnostic.
func (d *Diag) Infof(op, format string, args ...any) {
	d.report(SeverityInfo, op, format, args...)
}

// Entries returns the collected diagnostics in order.
func (d *Diag) Entries() []Diagnostic {
	if d == nil {
		return nil
	}
	return d.entries
}

// HasWarnings reports whether any warning-level entry was collected.
func (d *Diag) HasWarnings() bool {
	if d == nil {
		return false
	}
	for _, e := range d.entries {
		if e.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// Clear drops all collected entries.
func (d *Diag) Clear() {
	if d != nil {
		d.entries = d.entries[:0]
	}
}
