package sweep

import (
	"fmt"
	"io"
)

// WriteSummary prints one line per attempted account plus a closing
// count, so a long sweep ends with exactly which accounts need a second
// look. Written to stderr by callers, stdout stays with the children.
func (r Result) WriteSummary(w io.Writer) {
	if len(r.Outcomes) == 0 && r.Skipped == 0 {
		fmt.Fprintln(w, "no accounts matched")
		return
	}
	fmt.Fprintln(w, "sweep summary:")
	for _, outcome := range r.Outcomes {
		fmt.Fprintf(w, "  %s (%s): %s\n", outcome.Account.ID, outcome.Account.Name, outcome.status())
	}
	if r.Skipped > 0 {
		fmt.Fprintf(w, "  interrupted, %d account(s) not attempted\n", r.Skipped)
	}
	if failed := r.FailedCount(); failed > 0 {
		fmt.Fprintf(w, "%d of %d accounts failed\n", failed, len(r.Outcomes))
		return
	}
	if r.Skipped > 0 {
		return
	}
	fmt.Fprintf(w, "all %d accounts succeeded\n", len(r.Outcomes))
}

func (o Outcome) status() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	switch {
	case o.ExitCode == 0:
		return "ok"
	case o.ExitCode < 0:
		return "terminated"
	default:
		return fmt.Sprintf("exit %d", o.ExitCode)
	}
}
