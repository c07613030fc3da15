package midi

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	// Resolution is the ticks per quarter note of written files
	Resolution = 960
	// Tempo of written files; note times are converted at this rate
	Tempo = 120.0
)

// Part is one instrument's notes plus what a synth needs to voice them
type Part struct {
	Name    string
	Program *uint8 // nil leaves the channel on its default program
	Channel uint8
	Notes   []Note
}

type timedMessage struct {
	tick uint32
	off  bool // note offs sort before note ons on the same tick
	key  uint8
	msg  gomidi.Message
}

func secondsToTicks(sec float64) uint32 {
	if sec <= 0 {
		return 0
	}
	return uint32(math.Round(sec * Resolution * Tempo / 60))
}

func ticksToSeconds(ticks uint64, resolution, bpm float64) float64 {
	return float64(ticks) * 60 / (resolution * bpm)
}

// Encode builds a single-track Standard MIDI File from a part
func Encode(p Part) (*smf.SMF, error) {
	var events []timedMessage
	for i, n := range p.Notes {
		if err := n.Validate(); err != nil {
			return nil, fmt.Errorf("note %d: %w", i, err)
		}
		on := secondsToTicks(n.Start)
		off := secondsToTicks(n.End)
		if off <= on {
			off = on + 1
		}
		events = append(events,
			timedMessage{tick: on, key: n.Pitch, msg: gomidi.NoteOn(n.Channel, n.Pitch, n.Velocity)},
			timedMessage{tick: off, off: true, key: n.Pitch, msg: gomidi.NoteOff(n.Channel, n.Pitch)},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.tick != b.tick {
			return a.tick < b.tick
		}
		if a.off != b.off {
			return a.off
		}
		return a.key < b.key
	})

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(Resolution)

	var tr smf.Track
	if p.Name != "" {
		tr.Add(0, smf.MetaTrackSequenceName(p.Name))
	}
	tr.Add(0, smf.MetaTempo(Tempo))
	if p.Program != nil {
		tr.Add(0, gomidi.ProgramChange(p.Channel, *p.Program))
	}

	var last uint32
	for _, ev := range events {
		tr.Add(ev.tick-last, ev.msg)
		last = ev.tick
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return nil, fmt.Errorf("add track: %w", err)
	}
	return s, nil
}

// Write encodes a part and writes it to w
func Write(w io.Writer, p Part) error {
	s, err := Encode(p)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return err
}

// WriteFile encodes a part to a .mid file
func WriteFile(path string, p Part) error {
	s, err := Encode(p)
	if err != nil {
		return err
	}
	return s.WriteFile(path)
}

// Decode reads the notes back out of a Standard MIDI File. Tracks are
// merged; the first tempo event sets the tick to seconds conversion.
func Decode(r io.Reader) (Part, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return Part{}, err
	}
	return decode(s)
}

// ReadFile decodes a .mid file
func ReadFile(path string) (Part, error) {
	f, err := os.Open(path)
	if err != nil {
		return Part{}, err
	}
	defer f.Close()
	return Decode(f)
}

func decode(s *smf.SMF) (Part, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return Part{}, fmt.Errorf("unsupported time format %v", s.TimeFormat)
	}
	resolution := float64(mt)
	bpm := Tempo
	if tc := s.TempoChanges(); len(tc) > 0 && tc[0].BPM > 0 {
		bpm = tc[0].BPM
	}

	type open struct {
		tick uint64
		vel  uint8
	}

	var p Part
	for _, tr := range s.Tracks {
		var abs uint64
		pending := map[[2]uint8][]open{}
		for _, ev := range tr {
			abs += uint64(ev.Delta)
			msg := gomidi.Message(ev.Message)

			var ch, key, vel, prog uint8
			var name string
			switch {
			case ev.Message.GetMetaTrackName(&name):
				if p.Name == "" {
					p.Name = name
				}
			case msg.GetProgramChange(&ch, &prog):
				pr := prog
				p.Program = &pr
				p.Channel = ch
			case msg.GetNoteStart(&ch, &key, &vel):
				k := [2]uint8{ch, key}
				pending[k] = append(pending[k], open{tick: abs, vel: vel})
				p.Channel = ch
			case msg.GetNoteEnd(&ch, &key):
				k := [2]uint8{ch, key}
				q := pending[k]
				if len(q) == 0 {
					continue
				}
				on := q[0]
				pending[k] = q[1:]
				p.Notes = append(p.Notes, Note{
					Pitch:    key,
					Velocity: on.vel,
					Start:    ticksToSeconds(on.tick, resolution, bpm),
					End:      ticksToSeconds(abs, resolution, bpm),
					Channel:  ch,
				})
			}
		}
	}

	sort.SliceStable(p.Notes, func(i, j int) bool {
		if p.Notes[i].Start != p.Notes[j].Start {
			return p.Notes[i].Start < p.Notes[j].Start
		}
		return p.Notes[i].Pitch < p.Notes[j].Pitch
	})
	return p, nil
}
