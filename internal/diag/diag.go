package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Severity classifies a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Severity Severity
	Location string
	Message  string
}

// Reporter collects diagnostics and writes them to an output stream as they
// arrive. Format is either "text" or "json"; anything else falls back to text.
// A Reporter may be shared by goroutines generating independent buffers.
type Reporter struct {
	mu       sync.Mutex
	w        io.Writer
	format   string
	errors   int
	warnings int
	entries  []Diagnostic
}

// NewReporter creates a reporter writing to w. A nil writer discards output
// but still records diagnostics.
func NewReporter(w io.Writer, format string) *Reporter {
	if w == nil {
		w = io.Discard
	}
	if format != "json" {
		format = "text"
	}
	return &Reporter{w: w, format: format}
}

// Errorf records an error at loc.
func (r *Reporter) Errorf(loc string, format string, args ...any) {
	r.report(Diagnostic{Severity: Error, Location: loc, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a warning at loc.
func (r *Reporter) Warnf(loc string, format string, args ...any) {
	r.report(Diagnostic{Severity: Warning, Location: loc, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any error has been recorded.
func (r *Reporter) HasErrors() bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors > 0
}

// ErrorCount returns the number of errors recorded so far.
func (r *Reporter) ErrorCount() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors
}

// Diagnostics returns a copy of everything reported so far.
func (r *Reporter) Diagnostics() []Diagnostic {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Diagnostic(nil), r.entries...)
}

func (r *Reporter) report(d Diagnostic) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.Severity == Error {
		r.errors++
	} else {
		r.warnings++
	}
	r.entries = append(r.entries, d)
	r.write(d)
}

type jsonDiagnostic struct {
	Severity string `json:"severity"`
	Location string `json:"location,omitempty"`
	Message  string `json:"message"`
}

func (r *Reporter) write(d Diagnostic) {
	if r.format == "json" {
		data, err := json.Marshal(jsonDiagnostic{
			Severity: d.Severity.String(),
			Location: d.Location,
			Message:  d.Message,
		})
		if err != nil {
			return
		}
		fmt.Fprintln(r.w, string(data))
		return
	}
	if d.Location == "" {
		fmt.Fprintf(r.w, "%s: %s\n", d.Severity, d.Message)
		return
	}
	fmt.Fprintf(r.w, "%s: %s: %s\n", d.Location, d.Severity, d.Message)
}
