package theory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadNote = errors.New("invalid note")

// PitchClass returns pitch mod 12 in [0, 12).
func PitchClass(pitch int) int {
	return ((pitch % 12) + 12) % 12
}

// Octave returns the octave number of a pitch, with middle C (60) in octave 4.
func Octave(pitch int) int {
	return floorDiv(pitch, 12) - 1
}

// PitchClassName returns "C", "F#", ...
func PitchClassName(pitch int) string {
	return NoteNames[PitchClass(pitch)]
}

// NoteName returns a pitch with its octave, e.g. "C4" for 60.
func NoteName(pitch int) string {
	return PitchClassName(pitch) + strconv.Itoa(Octave(pitch))
}

// NoteLabel returns "C#4 (61)".
func NoteLabel(pitch int) string {
	return fmt.Sprintf("%s (%d)", NoteName(pitch), pitch)
}

// NoteNamesOf returns NoteName for each pitch.
func NoteNamesOf(pitches []int) []string {
	names := make([]string, len(pitches))
	for i, p := range pitches {
		names[i] = NoteName(p)
	}
	return names
}

// ParseNote accepts a MIDI number ("61") or a name with octave ("C#4", "db3").
func ParseNote(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 127 {
			return 0, fmt.Errorf("%w: %d out of range", ErrBadNote, n)
		}
		return n, nil
	}

	pc, rest, err := parsePitchClass(s)
	if err != nil {
		return 0, err
	}
	oct, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: %q has no octave", ErrBadNote, s)
	}
	n := (oct+1)*12 + pc
	if n < 0 || n > 127 {
		return 0, fmt.Errorf("%w: %q out of range", ErrBadNote, s)
	}
	return n, nil
}

// parsePitchClass reads a leading note letter with an optional # or b. The
// offset is not wrapped: "Cb" is -1 and "B#" is 12, so callers adding an
// octave land on the right pitch.
func parsePitchClass(s string) (int, string, error) {
	if s == "" {
		return 0, "", fmt.Errorf("%w: empty", ErrBadNote)
	}
	letter := strings.ToUpper(s[:1])
	pc := -1
	for i, name := range NoteNames {
		if name == letter {
			pc = i
			break
		}
	}
	if pc < 0 {
		return 0, "", fmt.Errorf("%w: %q", ErrBadNote, s)
	}
	rest := s[1:]
	if strings.HasPrefix(rest, "#") {
		pc++
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "b") {
		pc--
		rest = rest[1:]
	}
	return pc, rest, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
