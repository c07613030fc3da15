package sequencer

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go-stems/harmony"
	"go-stems/midi"
)

// Range is an inclusive integer range for velocity draws
type Range struct {
	Min int `yaml:"min" envconfig:"MIN"`
	Max int `yaml:"max" envconfig:"MAX"`
}

func (r Range) draw(rng *rand.Rand) uint8 {
	return uint8(r.Min + rng.IntN(r.Max-r.Min+1))
}

func (r Range) validate(name string) error {
	if r.Min < 1 || r.Max > 127 || r.Min > r.Max {
		return fmt.Errorf("%s range [%d, %d] must satisfy 1 <= min <= max <= 127", name, r.Min, r.Max)
	}
	return nil
}

// Scheduler turns a chord progression into timed notes for one instrument.
// All randomness comes from the rng passed to Schedule.
type Scheduler struct {
	SlotDuration       float64 // seconds per chord
	ArpeggioDelay      float64 // seconds between arpeggiated notes
	Jitter             float64 // max onset delay for humanized harmony
	HitDuration        float64 // length of each drum hit
	ReferencePitch     int     // MIDI note of pitch class C for chord voicing
	Velocity           Range
	PercussionVelocity Range
	Kit                DrumKit
	Groove             Groove
}

// DefaultScheduler returns a scheduler with 2 second slots
func DefaultScheduler() Scheduler {
	return Scheduler{
		SlotDuration:       2.0,
		ArpeggioDelay:      0.2,
		Jitter:             0.2,
		HitDuration:        0.1,
		ReferencePitch:     60,
		Velocity:           Range{Min: 80, Max: 120},
		PercussionVelocity: Range{Min: 80, Max: 120},
		Kit:                Kits[DefaultKit],
		Groove:             DefaultGroove,
	}
}

// Validate rejects timing that would break the per-slot note bounds
func (s Scheduler) Validate() error {
	var errs []error
	if s.SlotDuration <= 0 {
		errs = append(errs, fmt.Errorf("slot duration must be positive, got %v", s.SlotDuration))
	}
	// triads: the last of three arpeggiated notes must still sound
	if s.ArpeggioDelay < 0 || 2*s.ArpeggioDelay >= s.SlotDuration {
		errs = append(errs, fmt.Errorf("arpeggio delay %v leaves no room in a %vs slot", s.ArpeggioDelay, s.SlotDuration))
	}
	if s.Jitter < 0 || s.Jitter >= s.SlotDuration {
		errs = append(errs, fmt.Errorf("jitter %v must be in [0, slot duration)", s.Jitter))
	}
	if s.HitDuration <= 0 {
		errs = append(errs, fmt.Errorf("hit duration must be positive, got %v", s.HitDuration))
	}
	// highest voiced pitch is B + augmented fifth + octave lead
	if s.ReferencePitch < 0 || s.ReferencePitch+11+8+12 > 127 {
		errs = append(errs, fmt.Errorf("reference pitch %d out of range", s.ReferencePitch))
	}
	if err := s.Velocity.validate("velocity"); err != nil {
		errs = append(errs, err)
	}
	if err := s.PercussionVelocity.validate("percussion velocity"); err != nil {
		errs = append(errs, err)
	}
	if len(s.Groove) == 0 {
		errs = append(errs, errors.New("drum groove is empty"))
	}
	return errors.Join(errs...)
}

// Schedule voices every chord of p for inst. Slot i covers
// [i*SlotDuration, (i+1)*SlotDuration); no note starts before its slot and,
// except for drum hits, none ends after it. Drum hits keep their groove
// offsets whatever the slot length, so a long groove runs into the next slot.
func (s Scheduler) Schedule(p harmony.Progression, inst Instrument, rng *rand.Rand) (NoteTrack, error) {
	if !inst.Idiom.Valid() {
		return NoteTrack{}, fmt.Errorf("%s: %w: %q", inst.Name, ErrUnknownIdiom, inst.Idiom)
	}
	track := NoteTrack{Instrument: inst}
	for i, chord := range p {
		start := float64(i) * s.SlotDuration
		end := start + s.SlotDuration
		track.Notes = s.slot(track.Notes, chord, inst, start, end, rng)
	}
	return track, nil
}

func (s Scheduler) slot(notes []midi.Note, chord harmony.Chord, inst Instrument, start, end float64, rng *rand.Rand) []midi.Note {
	pitches := chord.Pitches(s.ReferencePitch)
	ch := inst.Channel
	add := func(pitch int, vel uint8, from, to float64) {
		notes = append(notes, midi.Note{
			Pitch:    uint8(pitch),
			Velocity: vel,
			Start:    from,
			End:      to,
			Channel:  ch,
		})
	}

	switch inst.Idiom {
	case IdiomChordal:
		for _, p := range pitches {
			add(p, s.Velocity.draw(rng), start, end)
		}

	case IdiomArpeggio:
		length := s.SlotDuration - float64(len(pitches)-1)*s.ArpeggioDelay
		for k, p := range pitches {
			from := start + float64(k)*s.ArpeggioDelay
			add(p, s.Velocity.draw(rng), from, min(from+length, end))
		}

	case IdiomRootOnly:
		add(pitches[0], s.Velocity.draw(rng), start, end)

	case IdiomPercussive:
		for _, h := range s.Groove {
			from := start + h.Offset
			add(int(s.Kit.Note(h.Voice)), s.PercussionVelocity.draw(rng), from, from+s.HitDuration)
		}

	case IdiomHumanizedHarmony:
		for _, p := range pitches {
			vel := s.Velocity.draw(rng)
			from := start + rng.Float64()*s.Jitter
			add(p, vel, from, end)
		}

	case IdiomMelodicLead:
		add(pitches[0]+12, s.Velocity.draw(rng), start, end)
	}
	return notes
}

// ScheduleAll schedules each instrument in order from the same stream
func (s Scheduler) ScheduleAll(p harmony.Progression, insts []Instrument, rng *rand.Rand) ([]NoteTrack, error) {
	tracks := make([]NoteTrack, 0, len(insts))
	for _, inst := range insts {
		t, err := s.Schedule(p, inst, rng)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}
