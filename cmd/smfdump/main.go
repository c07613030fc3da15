package main

import (
	"fmt"
	"os"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-stems/midi"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "notes":
		err = dumpNotes(os.Args[2])
	case "events":
		err = dumpEvents(os.Args[2])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Standard MIDI File dump")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  notes  <file.mid>  - Paired notes in seconds")
	fmt.Println("  events <file.mid>  - Raw track events with absolute ticks")
}

func dumpNotes(path string) error {
	p, err := midi.ReadFile(path)
	if err != nil {
		return err
	}

	prog := "none"
	if p.Program != nil {
		prog = fmt.Sprint(*p.Program)
	}
	fmt.Printf("=== %s (channel %d, program %s, %d notes) ===\n", p.Name, p.Channel+1, prog, len(p.Notes))
	for _, n := range p.Notes {
		fmt.Printf("  %-10s %s\n", gomidi.Note(n.Pitch).String(), n)
	}
	return nil
}

func dumpEvents(path string) error {
	s, err := smf.ReadFile(path)
	if err != nil {
		return err
	}

	fmt.Printf("=== %s, %d track(s) ===\n", s.TimeFormat, len(s.Tracks))
	for i, tr := range s.Tracks {
		fmt.Printf("\n--- track %d ---\n", i)
		var abs uint64
		for _, ev := range tr {
			abs += uint64(ev.Delta)
			fmt.Printf("  %8d  %s\n", abs, ev.Message)
		}
	}
	return nil
}
