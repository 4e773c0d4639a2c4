package pipeline

import (
	"fmt"
	"time"
)

// StageTiming records how long one stage took.
type StageTiming struct {
	Stage    State         `json:"-"`
	Name     string        `json:"stage"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end,omitempty"`
	Duration time.Duration `json:"-"`
	Elapsed  string        `json:"duration,omitempty"`
}

type timings []StageTiming

func (t *timings) start(s State) {
	*t = append(*t, StageTiming{Stage: s, Name: s.String(), Start: time.Now()})
}

// end closes the most recent open entry for s.
func (t *timings) end(s State) time.Duration {
	for i := len(*t) - 1; i >= 0; i-- {
		e := &(*t)[i]
		if e.Stage == s && e.End.IsZero() {
			e.End = time.Now()
			e.Duration = e.End.Sub(e.Start)
			e.Elapsed = FormatDuration(e.Duration)
			return e.Duration
		}
	}
	return 0
}

// FormatDuration renders d for humans: "850ms", "2.4s", "1m 05s".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %02ds", m, s)
}
