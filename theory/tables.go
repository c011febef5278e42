package theory

import (
	"fmt"
	"math/bits"
	"strings"
)

// ChordType selects the triad generated for a trigger. The zero value plays
// the root alone.
type ChordType int

const (
	ChordNone ChordType = iota
	ChordDim
	ChordMin
	ChordMaj
	ChordSus
)

// ChordTypes lists the selectable triads in keyboard order (1-4).
var ChordTypes = []ChordType{ChordDim, ChordMin, ChordMaj, ChordSus}

var chordIntervals = map[ChordType][]int{
	ChordDim: {0, 3, 6},
	ChordMin: {0, 3, 7},
	ChordMaj: {0, 4, 7},
	ChordSus: {0, 5, 7},
}

var chordSuffix = map[ChordType]string{
	ChordDim: "dim",
	ChordMin: "m",
	ChordMaj: "",
	ChordSus: "sus",
}

var chordTypeNames = map[ChordType]string{
	ChordNone: "none",
	ChordDim:  "dim",
	ChordMin:  "min",
	ChordMaj:  "maj",
	ChordSus:  "sus",
}

func (c ChordType) String() string {
	if s, ok := chordTypeNames[c]; ok {
		return s
	}
	return "none"
}

// Intervals returns the semitone offsets of the triad (nil for ChordNone).
func (c ChordType) Intervals() []int {
	return append([]int(nil), chordIntervals[c]...)
}

// ParseChordType accepts "dim", "min", "maj", "sus" or "none".
func ParseChordType(s string) (ChordType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range chordTypeNames {
		if name == s {
			return c, nil
		}
	}
	switch s {
	case "", "single":
		return ChordNone, nil
	case "m", "minor":
		return ChordMin, nil
	case "major":
		return ChordMaj, nil
	}
	return ChordNone, fmt.Errorf("unknown chord type %q", s)
}

// Extension is a single added chord tone.
type Extension uint8

const (
	Ext6 Extension = 1 << iota
	ExtMinor7
	ExtMajor7
	Ext9
)

// Extensions lists every extension in keyboard order (5-8).
var Extensions = []Extension{Ext6, ExtMinor7, ExtMajor7, Ext9}

var extensionIntervals = map[Extension]int{
	Ext6:      9,
	ExtMinor7: 10,
	ExtMajor7: 11,
	Ext9:      14,
}

var extensionNames = map[Extension]string{
	Ext6:      "6",
	ExtMinor7: "m7",
	ExtMajor7: "M7",
	Ext9:      "9",
}

func (e Extension) String() string {
	return extensionNames[e]
}

// Interval returns the semitone offset above the root.
func (e Extension) Interval() int {
	return extensionIntervals[e]
}

// ParseExtension accepts "6", "m7", "M7" (or "maj7") and "9".
func ParseExtension(s string) (Extension, error) {
	s = strings.TrimSpace(s)
	for e, name := range extensionNames {
		if name == s {
			return e, nil
		}
	}
	switch strings.ToLower(s) {
	case "maj7":
		return ExtMajor7, nil
	case "7", "min7":
		return ExtMinor7, nil
	}
	return 0, fmt.Errorf("unknown extension %q", s)
}

// ExtensionSet is a set of independently toggled extensions.
type ExtensionSet uint8

func (s ExtensionSet) Has(e Extension) bool {
	return s&ExtensionSet(e) != 0
}

func (s ExtensionSet) With(e Extension) ExtensionSet {
	return s | ExtensionSet(e)
}

func (s ExtensionSet) Without(e Extension) ExtensionSet {
	return s &^ ExtensionSet(e)
}

// Set returns s with e added or removed.
func (s ExtensionSet) Set(e Extension, on bool) ExtensionSet {
	if on {
		return s.With(e)
	}
	return s.Without(e)
}

func (s ExtensionSet) Toggle(e Extension) ExtensionSet {
	return s ^ ExtensionSet(e)
}

// Count returns the number of active extensions.
func (s ExtensionSet) Count() int {
	return bits.OnesCount8(uint8(s & 0x0f))
}

// List returns the active extensions in canonical order.
func (s ExtensionSet) List() []Extension {
	var out []Extension
	for _, e := range Extensions {
		if s.Has(e) {
			out = append(out, e)
		}
	}
	return out
}

func (s ExtensionSet) String() string {
	var names []string
	for _, e := range s.List() {
		names = append(names, e.String())
	}
	return strings.Join(names, "+")
}

// Mode is a scale mode used for quantization.
type Mode int

const (
	ModeNone Mode = iota
	ModeMajor
	ModeMinor
)

var scales = map[Mode][]int{
	ModeMajor: {0, 2, 4, 5, 7, 9, 11},
	ModeMinor: {0, 2, 3, 5, 7, 8, 10},
}

func (m Mode) String() string {
	switch m {
	case ModeMajor:
		return "maj"
	case ModeMinor:
		return "min"
	}
	return "none"
}

// NoteNames are the pitch-class names, indexed by pitch mod 12.
var NoteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
