package sequencer

import "fmt"

// Voice indexes a slot in a drum kit
type Voice int

const (
	VoiceKick Voice = iota
	VoiceSnare
	VoiceClosedHat
	VoiceOpenHat
	VoiceLowTom
	VoiceMidTom
	VoiceHighTom
	VoiceCrash
	VoiceRide
	VoiceClap
	VoiceRimshot
	VoiceCowbell
	VoiceClave
	VoiceMaracas
	VoiceLowConga
	VoiceHighConga
	NumVoices
)

var voiceNames = [NumVoices]string{
	"kick", "snare", "closed-hat", "open-hat", "low-tom", "mid-tom", "high-tom", "crash",
	"ride", "clap", "rimshot", "cowbell", "clave", "maracas", "low-conga", "high-conga",
}

func (v Voice) String() string {
	if v < 0 || v >= NumVoices {
		return fmt.Sprintf("voice(%d)", int(v))
	}
	return voiceNames[v]
}

// ParseVoice looks up a voice by name ("kick", "closed-hat", ...)
func ParseVoice(name string) (Voice, error) {
	for i, n := range voiceNames {
		if n == name {
			return Voice(i), nil
		}
	}
	return 0, fmt.Errorf("unknown drum voice %q", name)
}

// DrumKit maps the drum voices to MIDI notes
type DrumKit struct {
	Name  string
	Notes [NumVoices]uint8
}

// Note returns the MIDI note for a voice
func (k DrumKit) Note(v Voice) uint8 {
	return k.Notes[v]
}

// Kits contains all available drum kit mappings
var Kits = map[string]DrumKit{
	"gm": {
		Name:  "General MIDI",
		Notes: [NumVoices]uint8{36, 38, 42, 46, 41, 43, 45, 49, 51, 39, 37, 56, 75, 70, 64, 63},
	},
	"rd8": {
		// RD-8 puts the snare on 40 and shifts the toms up
		Name:  "Behringer RD-8",
		Notes: [NumVoices]uint8{36, 40, 42, 46, 45, 48, 50, 49, 51, 39, 37, 56, 75, 70, 64, 63},
	},
	"tr8s": {
		Name:  "Roland TR-8S",
		Notes: [NumVoices]uint8{36, 38, 42, 46, 41, 43, 45, 49, 51, 39, 37, 56, 75, 70, 62, 63},
	},
	"er1": {
		// perc synths on 36/38/40/41, the rest are PCM or unused
		Name:  "Korg ER-1",
		Notes: [NumVoices]uint8{36, 38, 42, 46, 40, 41, 43, 49, 45, 39, 37, 56, 75, 70, 64, 63},
	},
}

// KitNames returns the list of available kit names
func KitNames() []string {
	return []string{"gm", "rd8", "tr8s", "er1"}
}

// LookupKit returns a kit by name
func LookupKit(name string) (DrumKit, error) {
	if kit, ok := Kits[name]; ok {
		return kit, nil
	}
	return DrumKit{}, fmt.Errorf("unknown drum kit %q (have %v)", name, KitNames())
}

// DefaultKit is the default kit name
const DefaultKit = "gm"
