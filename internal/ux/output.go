package ux

import (
	"fmt"
	"io"
	"time"

	"github.com/jorge-barreto/folio/internal/integrity"
	"github.com/jorge-barreto/folio/internal/pipeline"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// RunHeader prints a timestamped header for a build run.
func RunHeader(w io.Writer, name string, out *pipeline.Outcome) {
	fmt.Fprintf(w, "\n%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
	fmt.Fprintf(w, "%s[%s]%s  %s%s%s %s(run %s)%s\n",
		Dim, timestamp(), Reset, Bold, name, Reset, Dim, out.RunID, Reset)
	fmt.Fprintf(w, "%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
}

// Stages prints one line per completed stage with its duration.
func Stages(w io.Writer, out *pipeline.Outcome) {
	for i, st := range out.Timings {
		failed := i == len(out.Timings)-1 && out.State == pipeline.Rejected
		if failed {
			fmt.Fprintf(w, "%s[%s]%s  %s✗ %s failed (%s)%s\n",
				Dim, timestamp(), Reset, Red, st.Name, st.Elapsed, Reset)
			continue
		}
		fmt.Fprintf(w, "%s[%s]%s  %s✓ %s (%s)%s\n",
			Dim, timestamp(), Reset, Green, st.Name, st.Elapsed, Reset)
	}
}

// Summary prints the final verdict of a run.
func Summary(w io.Writer, out *pipeline.Outcome) {
	errs, warns := out.Report.Counts()
	if out.Published() {
		fmt.Fprintf(w, "\n%s[%s]%s  %s%s══ Published %d entries from %d modules (%s) ══%s\n",
			Dim, timestamp(), Reset, Bold, Green, out.Registry.Len(), out.Modules, out.Registry.Fingerprint(), Reset)
		if warns > 0 {
			fmt.Fprintf(w, "  %s%s%s\n", Yellow, plural(warns, "warning"), Reset)
		}
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintf(w, "\n%s[%s]%s  %s%s══ Rejected: %s, %s ══%s\n\n",
		Dim, timestamp(), Reset, Bold, Red, plural(errs, "error"), plural(warns, "warning"), Reset)
}

// RenderOutcome prints the stages, the report and the summary of a run.
func RenderOutcome(w io.Writer, name string, out *pipeline.Outcome) {
	RunHeader(w, name, out)
	Stages(w, out)
	if len(out.Report.Findings) > 0 {
		fmt.Fprintln(w)
		RenderReport(w, out.Report)
	}
	Summary(w, out)
}

// RenderReport prints findings, errors first.
func RenderReport(w io.Writer, r *integrity.Report) {
	if len(r.Findings) == 0 {
		fmt.Fprintf(w, "  %s✓ no findings%s\n", Green, Reset)
		return
	}
	for _, f := range r.Findings {
		color, mark := Yellow, "⚠"
		if f.Severity == integrity.SeverityError {
			color, mark = Red, "✗"
		}
		ref := f.Ref()
		if ref == "" {
			ref = "(registry)"
		}
		src := ""
		if f.SourceRef != "" {
			src = fmt.Sprintf(" %s(%s)%s", Dim, f.SourceRef, Reset)
		}
		fmt.Fprintf(w, "  %s%s %-7s%s %s%s%s%s  %s\n",
			color, mark, f.Severity, Reset, Bold, ref, Reset, src, f.Message)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
