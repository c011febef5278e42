package engine

import (
	"fmt"
	"time"

	"go-violet/theory"
)

// PerformMode is the articulation used to sound a chord.
type PerformMode int

const (
	PerformChord PerformMode = iota
	PerformStrum
	PerformSlop
	PerformStrum2Oct
	PerformArpUp
	PerformArpDown
	PerformArpUpDown
	PerformHarp
)

// PerformModes lists every mode in cycling order.
var PerformModes = []PerformMode{
	PerformChord, PerformStrum, PerformSlop, PerformStrum2Oct,
	PerformArpUp, PerformArpDown, PerformArpUpDown, PerformHarp,
}

var performNames = map[PerformMode]string{
	PerformChord:     "chord",
	PerformStrum:     "strum",
	PerformSlop:      "slop",
	PerformStrum2Oct: "strum2oct",
	PerformArpUp:     "arpUp",
	PerformArpDown:   "arpDown",
	PerformArpUpDown: "arpUpDown",
	PerformHarp:      "harp",
}

func (m PerformMode) String() string {
	if s, ok := performNames[m]; ok {
		return s
	}
	return "chord"
}

// IsArp reports whether the mode runs the arpeggiator.
func (m PerformMode) IsArp() bool {
	return m == PerformArpUp || m == PerformArpDown || m == PerformArpUpDown
}

func ParsePerformMode(s string) (PerformMode, error) {
	for m, name := range performNames {
		if name == s {
			return m, nil
		}
	}
	return PerformChord, fmt.Errorf("unknown perform mode %q", s)
}

// BassMode controls the parallel bass voice.
type BassMode int

const (
	BassOff BassMode = iota
	BassUnison
	BassSingle
	BassSolo
)

var BassModes = []BassMode{BassOff, BassUnison, BassSingle, BassSolo}

var bassNames = map[BassMode]string{
	BassOff:    "off",
	BassUnison: "unison",
	BassSingle: "single",
	BassSolo:   "solo",
}

func (m BassMode) String() string {
	if s, ok := bassNames[m]; ok {
		return s
	}
	return "off"
}

func ParseBassMode(s string) (BassMode, error) {
	for m, name := range bassNames {
		if name == s {
			return m, nil
		}
	}
	return BassOff, fmt.Errorf("unknown bass mode %q", s)
}

// Settings is the control snapshot a trigger is generated from. The engine
// never keeps a reference to it.
type Settings struct {
	ChordType  theory.ChordType
	Extensions theory.ExtensionSet
	Voicing    int
	Key        theory.ScaleKey
	BPM        int
	Perform    PerformMode
	Bass       BassMode
}

const defaultBPM = 120

// beat returns the length of a quarter note.
func (s Settings) beat() time.Duration {
	bpm := s.BPM
	if bpm <= 0 {
		bpm = defaultBPM
	}
	return time.Minute / time.Duration(bpm)
}
