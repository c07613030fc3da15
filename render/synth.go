package render

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"go-stems/audio"
	"go-stems/midi"
	"go-stems/sequencer"
)

// Timbre is a simple additive voice: harmonic amplitudes plus envelope
type Timbre struct {
	Partials []float64 // amplitude of harmonic 1, 2, 3, ...
	Attack   float64   // seconds
	Decay    float64   // exponential decay rate per second, 0 for sustain
	Release  float64   // seconds of fade after note end
}

// timbres by General MIDI program family (program / 8)
var timbres = map[int]Timbre{
	0: {Partials: []float64{1, 0.5, 0.3, 0.15, 0.08}, Attack: 0.005, Decay: 1.8, Release: 0.08}, // piano
	3: {Partials: []float64{1, 0.6, 0.4, 0.25, 0.1}, Attack: 0.002, Decay: 2.5, Release: 0.05},  // guitar
	4: {Partials: []float64{1, 0.35, 0.1}, Attack: 0.01, Decay: 0.6, Release: 0.05},             // bass
	5: {Partials: []float64{1, 0.5, 0.33, 0.25, 0.2, 0.17}, Attack: 0.08, Release: 0.15},        // strings
	8: {Partials: []float64{1, 0.05, 0.33, 0.05, 0.2, 0.05, 0.14}, Attack: 0.03, Release: 0.1},  // reed
}

var defaultTimbre = Timbre{Partials: []float64{1, 0.3}, Attack: 0.01, Release: 0.05}

// TimbreFor picks the voice for an instrument's program
func TimbreFor(inst sequencer.Instrument) Timbre {
	if inst.Program == nil {
		return defaultTimbre
	}
	if t, ok := timbres[int(*inst.Program)/8]; ok {
		return t
	}
	return defaultTimbre
}

// Synth is a small deterministic additive synthesizer. Identical input
// always gives identical samples, including the noise in drum hits.
type Synth struct {
	Gain float64 // per-note peak amplitude at velocity 127
}

// NewSynth returns a synth with the given per-note gain
func NewSynth(gain float64) *Synth {
	return &Synth{Gain: gain}
}

func (s *Synth) Identity() string {
	return fmt.Sprintf("synth/v1/gain=%g", s.Gain)
}

func (s *Synth) Render(ctx context.Context, track sequencer.NoteTrack, rate beep.SampleRate) (*audio.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap(track, err)
	}
	if rate <= 0 {
		return nil, wrap(track, fmt.Errorf("invalid sample rate %d", rate))
	}

	timbre := TimbreFor(track.Instrument)
	var voices []beep.Streamer
	for _, n := range track.Notes {
		if err := n.Validate(); err != nil {
			return nil, wrap(track, err)
		}
		var v beep.Streamer
		if track.Instrument.Percussive() {
			v = newDrumVoice(n, rate)
		} else {
			v = newToneVoice(n, timbre, rate)
		}
		offset := audio.FrameCount(rate, n.Start)
		voices = append(voices, beep.Seq(beep.Silence(offset), v))
	}
	if len(voices) == 0 {
		return audio.NewSilence(rate, 0), nil
	}

	out := &effects.Volume{Streamer: beep.Mix(voices...), Base: 2, Silent: s.Gain <= 0}
	if s.Gain > 0 {
		out.Volume = math.Log2(s.Gain)
	}
	buf, err := audio.Collect(out, rate)
	if err != nil {
		return nil, wrap(track, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, wrap(track, err)
	}
	return buf, nil
}

// toneVoice renders one pitched note
type toneVoice struct {
	timbre  Timbre
	freq    float64
	amp     float64
	rate    float64
	pos     int
	hold    int // frames until note off
	release int
	phase   []float64
}

func newToneVoice(n midi.Note, t Timbre, rate beep.SampleRate) *toneVoice {
	return &toneVoice{
		timbre:  t,
		freq:    440 * math.Pow(2, (float64(n.Pitch)-69)/12),
		amp:     float64(n.Velocity) / 127,
		rate:    float64(rate),
		hold:    audio.FrameCount(rate, n.Duration()),
		release: audio.FrameCount(rate, t.Release),
		phase:   make([]float64, len(t.Partials)),
	}
}

func (v *toneVoice) Stream(samples [][2]float64) (n int, ok bool) {
	total := v.hold + v.release
	for i := range samples {
		if v.pos >= total {
			return i, i > 0
		}
		t := float64(v.pos) / v.rate

		env := 1.0
		if v.timbre.Attack > 0 && t < v.timbre.Attack {
			env = t / v.timbre.Attack
		}
		if v.timbre.Decay > 0 {
			env *= math.Exp(-v.timbre.Decay * t)
		}
		if v.pos >= v.hold && v.release > 0 {
			env *= float64(total-v.pos) / float64(v.release)
		}

		var val float64
		for k, a := range v.timbre.Partials {
			f := v.freq * float64(k+1)
			if f >= v.rate/2 {
				break
			}
			val += a * math.Sin(2*math.Pi*v.phase[k])
			v.phase[k] += f / v.rate
			v.phase[k] -= math.Floor(v.phase[k])
		}
		val *= env * v.amp

		samples[i][0] = val
		samples[i][1] = val
		v.pos++
	}
	return len(samples), true
}

func (v *toneVoice) Err() error { return nil }

// drumVoice renders one hit: kicks and toms as swept sines, the rest as
// seeded noise with a short decay
type drumVoice struct {
	pitch uint8
	amp   float64
	rate  float64
	pos   int
	total int
	phase float64
	noise *rand.Rand
}

func newDrumVoice(n midi.Note, rate beep.SampleRate) *drumVoice {
	seed := uint64(n.Pitch)<<32 | uint64(audio.FrameCount(rate, n.Start))
	return &drumVoice{
		pitch: n.Pitch,
		amp:   float64(n.Velocity) / 127,
		rate:  float64(rate),
		total: audio.FrameCount(rate, max(n.Duration(), 0.15)),
		noise: rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15)),
	}
}

func (d *drumVoice) tonal() bool {
	// kicks and GM toms
	switch d.pitch {
	case 35, 36, 41, 43, 45, 47, 48, 50:
		return true
	}
	return false
}

func (d *drumVoice) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if d.pos >= d.total {
			return i, i > 0
		}
		t := float64(d.pos) / d.rate
		var val float64
		if d.tonal() {
			// pitch falls from ~150 Hz toward ~50 Hz
			f := 50 + 100*math.Exp(-t*30)
			val = math.Sin(2*math.Pi*d.phase) * math.Exp(-t*12)
			d.phase += f / d.rate
			d.phase -= math.Floor(d.phase)
		} else {
			decay := 40.0
			if d.pitch == 38 || d.pitch == 40 {
				decay = 18
			}
			val = (d.noise.Float64()*2 - 1) * math.Exp(-t*decay)
		}
		val *= d.amp
		samples[i][0] = val
		samples[i][1] = val
		d.pos++
	}
	return len(samples), true
}

func (d *drumVoice) Err() error { return nil }
