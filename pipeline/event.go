package pipeline

import "fmt"

// EventKind identifies a progress event
type EventKind int

const (
	SampleStarted EventKind = iota
	TrackScheduled
	StemRendered
	SampleCommitted
	SampleFailed
	RunFinished
)

var eventNames = [...]string{"sample-started", "track-scheduled", "stem-rendered", "sample-committed", "sample-failed", "run-finished"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return fmt.Sprintf("event(%d)", int(k))
	}
	return eventNames[k]
}

// Event reports pipeline progress. Fields that do not apply to a kind are zero.
type Event struct {
	Kind       EventKind
	Sample     int
	Instrument string
	Notes      int      // TrackScheduled
	Files      []string // SampleCommitted
	Err        error    // SampleFailed, RunFinished
}

func (e Event) String() string {
	switch e.Kind {
	case TrackScheduled:
		return fmt.Sprintf("sample %d: scheduled %s (%d notes)", e.Sample, e.Instrument, e.Notes)
	case StemRendered:
		return fmt.Sprintf("sample %d: rendered %s", e.Sample, e.Instrument)
	case SampleCommitted:
		return fmt.Sprintf("sample %d: wrote %d files", e.Sample, len(e.Files))
	case SampleFailed:
		return fmt.Sprintf("sample %d: %v", e.Sample, e.Err)
	case RunFinished:
		if e.Err != nil {
			return fmt.Sprintf("run finished with errors: %v", e.Err)
		}
		return "run finished"
	}
	return fmt.Sprintf("sample %d: %s", e.Sample, e.Kind)
}
