package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"go-stems/pipeline"
	"go-stems/theme"
	"go-stems/widgets"
)

type stemState int

const (
	statePending stemState = iota
	stateScheduled
	stateRendered
)

// Model shows the progress of a batch run
type Model struct {
	Theme       *theme.Theme
	events      <-chan pipeline.Event
	cancel      context.CancelFunc
	instruments []string
	total       int

	current  int
	stems    map[string]stemState
	notes    map[string]int
	written  []int
	files    int
	failed   map[int]error
	finished bool
	runErr   error
	quitting bool
}

// EventMsg carries one pipeline event into the program
type EventMsg pipeline.Event

// ClosedMsg is sent once the event channel is closed
type ClosedMsg struct{}

// NewModel watches events for a run of total samples over instruments.
// cancel stops the run when the user quits.
func NewModel(th *theme.Theme, events <-chan pipeline.Event, cancel context.CancelFunc, instruments []string, total int) Model {
	return Model{
		Theme:       th,
		events:      events,
		cancel:      cancel,
		instruments: instruments,
		total:       total,
		stems:       map[string]stemState{},
		notes:       map[string]int{},
		failed:      map[int]error{},
	}
}

// ListenForEvents waits for the next pipeline event
func ListenForEvents(events <-chan pipeline.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return ClosedMsg{}
		}
		return EventMsg(ev)
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForEvents(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case EventMsg:
		m.apply(pipeline.Event(msg))
		return m, ListenForEvents(m.events)

	case ClosedMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) apply(ev pipeline.Event) {
	switch ev.Kind {
	case pipeline.SampleStarted:
		m.current = ev.Sample
		clear(m.stems)
		clear(m.notes)
	case pipeline.TrackScheduled:
		m.stems[ev.Instrument] = stateScheduled
		m.notes[ev.Instrument] = ev.Notes
	case pipeline.StemRendered:
		m.stems[ev.Instrument] = stateRendered
	case pipeline.SampleCommitted:
		m.written = append(m.written, ev.Sample)
		m.files += len(ev.Files)
	case pipeline.SampleFailed:
		m.failed[ev.Sample] = ev.Err
	case pipeline.RunFinished:
		m.finished = true
		m.runErr = ev.Err
	}
}

// Finished reports whether the run has ended
func (m Model) Finished() bool {
	return m.finished
}

func (m Model) View() string {
	if m.quitting && !m.finished {
		return m.Theme.Dim().Render("cancelled") + "\n"
	}
	sym := m.Theme.Symbols

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(m.Theme.Header().Render(fmt.Sprintf("go-stems  sample %d/%d", min(m.current+1, m.total), m.total)))
	out.WriteString("\n\n")

	width := 0
	for _, name := range m.instruments {
		width = max(width, len(name))
	}
	for i, name := range m.instruments {
		mark, style := sym.Pending, m.Theme.Dim()
		switch m.stems[name] {
		case stateScheduled:
			mark = sym.Onset
			style = style.Foreground(m.Theme.Lane(i, len(m.instruments)))
		case stateRendered:
			mark, style = sym.Done, m.Theme.OK()
		}
		detail := ""
		if n, ok := m.notes[name]; ok {
			detail = fmt.Sprintf("%d notes", n)
		}
		fmt.Fprintf(&out, "  %s %-*s  %s\n", style.Render(string(mark)), width, name, m.Theme.Dim().Render(detail))
	}

	out.WriteString("\n")
	fmt.Fprintf(&out, "  %s %d written, %d files", m.Theme.OK().Render(string(sym.Done)), len(m.written), m.files)
	if len(m.failed) > 0 {
		fmt.Fprintf(&out, "   %s %d failed", m.Theme.Error().Render(string(sym.Failed)), len(m.failed))
	}
	out.WriteString("\n")
	for i := 0; i < m.total; i++ {
		if err, ok := m.failed[i]; ok {
			out.WriteString(m.Theme.Error().Render(fmt.Sprintf("  sample %d: %v", i, err)))
			out.WriteString("\n")
		}
	}

	out.WriteString("\n")
	if m.finished {
		out.WriteString(m.Theme.Dim().Render("done"))
	} else {
		out.WriteString(m.Theme.Dim().Render(widgets.RenderKeyHelp([]widgets.KeySection{
			{Keys: []widgets.KeyBinding{{Key: "q", Desc: "cancel the run"}}},
		})))
	}
	out.WriteString("\n")
	return out.String()
}
