package midi

import "fmt"

// DrumChannel is the General MIDI percussion channel (channel 10, zero based)
const DrumChannel uint8 = 9

// Note is a scheduled note with absolute times in seconds
type Note struct {
	Pitch    uint8   `yaml:"pitch" msgpack:"p"`
	Velocity uint8   `yaml:"velocity" msgpack:"v"`
	Start    float64 `yaml:"start" msgpack:"s"`
	End      float64 `yaml:"end" msgpack:"e"`
	Channel  uint8   `yaml:"channel" msgpack:"c"`
}

// Duration returns End - Start
func (n Note) Duration() float64 {
	return n.End - n.Start
}

// Validate checks the MIDI ranges and that the note has positive length
func (n Note) Validate() error {
	switch {
	case n.Pitch > 127:
		return fmt.Errorf("pitch %d out of range", n.Pitch)
	case n.Velocity > 127:
		return fmt.Errorf("velocity %d out of range", n.Velocity)
	case n.Channel > 15:
		return fmt.Errorf("channel %d out of range", n.Channel)
	case n.Start < 0:
		return fmt.Errorf("note starts before zero (%.3fs)", n.Start)
	case n.End <= n.Start:
		return fmt.Errorf("note end %.3fs not after start %.3fs", n.End, n.Start)
	}
	return nil
}

func (n Note) String() string {
	return fmt.Sprintf("ch%d %3d v%3d %.3f-%.3f", n.Channel, n.Pitch, n.Velocity, n.Start, n.End)
}
