package integrity

import (
	"encoding/json"
	"sort"

	"github.com/jorge-barreto/folio/internal/content"
)

// Severity of a finding. Errors block publication; warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one record in an integrity report.
type Finding struct {
	Severity  Severity     `json:"severity"`
	Namespace content.Path `json:"-"`
	Key       string       `json:"key"`
	SourceRef string       `json:"sourceRef"`
	Message   string       `json:"message"`
}

// MarshalJSON renders the namespace slash-joined, matching the form used on
// the command line.
func (f Finding) MarshalJSON() ([]byte, error) {
	type record struct {
		Severity  Severity `json:"severity"`
		Namespace string   `json:"namespace"`
		Key       string   `json:"key"`
		SourceRef string   `json:"sourceRef"`
		Message   string   `json:"message"`
	}
	return json.Marshal(record{
		Severity:  f.Severity,
		Namespace: f.Namespace.String(),
		Key:       f.Key,
		SourceRef: f.SourceRef,
		Message:   f.Message,
	})
}

// Ref is the namespace/key the finding is about.
func (f Finding) Ref() string {
	return content.Composite(f.Namespace, f.Key)
}

// Report is the output of a check.
type Report struct {
	Findings []Finding
}

func (r *Report) add(sev Severity, e *content.Entry, msg string) {
	f := Finding{Severity: sev, Message: msg}
	if e != nil {
		f.Namespace = e.Namespace
		f.Key = e.Key
		f.SourceRef = e.SourceRef
	}
	r.Findings = append(r.Findings, f)
}

// Add appends a finding. The pipeline uses it to fold build errors into the
// same report format.
func (r *Report) Add(f Finding) {
	r.Findings = append(r.Findings, f)
}

// HasErrors reports whether any finding blocks publication.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Counts returns the number of errors and warnings.
func (r *Report) Counts() (errs, warnings int) {
	for _, f := range r.Findings {
		switch f.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warnings++
		}
	}
	return errs, warnings
}

// ExitCode is 1 when the report contains an error, 0 otherwise.
func (r *Report) ExitCode() int {
	if r.HasErrors() {
		return 1
	}
	return 0
}

// Sort orders findings errors-first, then by ref and message.
func (r *Report) Sort() {
	sort.SliceStable(r.Findings, func(i, j int) bool {
		a, b := r.Findings[i], r.Findings[j]
		if a.Severity != b.Severity {
			return a.Severity == SeverityError
		}
		if a.Ref() != b.Ref() {
			return a.Ref() < b.Ref()
		}
		return a.Message < b.Message
	})
}

// JSON encodes the findings as an array of records. An empty report encodes
// as [].
func (r *Report) JSON() ([]byte, error) {
	findings := r.Findings
	if findings == nil {
		findings = []Finding{}
	}
	return json.MarshalIndent(findings, "", "  ")
}
