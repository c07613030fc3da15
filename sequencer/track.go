package sequencer

import (
	"sort"

	"go-stems/midi"
)

// NoteTrack is everything one instrument plays in a sample
type NoteTrack struct {
	Instrument Instrument
	Notes      []midi.Note
}

// End returns the latest note end, or zero for an empty track
func (t NoteTrack) End() float64 {
	var end float64
	for _, n := range t.Notes {
		end = max(end, n.End)
	}
	return end
}

// Sorted returns a copy of the notes ordered by start time, then pitch
func (t NoteTrack) Sorted() []midi.Note {
	out := make([]midi.Note, len(t.Notes))
	copy(out, t.Notes)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].Pitch < out[j].Pitch
	})
	return out
}

// Part converts the track to what the MIDI writer takes
func (t NoteTrack) Part() midi.Part {
	return midi.Part{
		Name:    t.Instrument.Name,
		Program: t.Instrument.Program,
		Channel: t.Instrument.Channel,
		Notes:   t.Notes,
	}
}

// PitchRange returns the lowest and highest pitch in the track
func (t NoteTrack) PitchRange() (lo, hi uint8) {
	if len(t.Notes) == 0 {
		return 0, 0
	}
	lo, hi = 127, 0
	for _, n := range t.Notes {
		lo = min(lo, n.Pitch)
		hi = max(hi, n.Pitch)
	}
	return lo, hi
}
