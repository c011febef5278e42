package engine

import (
	"math"
	"time"
)

// Synth is a synthesis backend. The engine only sends logical note events.
type Synth interface {
	NotesOn(pitches []int, velocity float64)
	NotesOff(pitches []int)
	// Short plays a note that releases itself after d.
	Short(pitch int, velocity float64, d time.Duration)
	ReleaseAll()
}

// Output mirrors notes to an external MIDI device. Implementations are
// best-effort and must tolerate having no device.
type Output interface {
	NoteOn(pitch int, velocity uint8)
	NoteOff(pitch int)
}

type nopOutput struct{}

func (nopOutput) NoteOn(int, uint8) {}
func (nopOutput) NoteOff(int)       {}

// MIDIVelocity scales a 0..1 velocity to 0..127.
func MIDIVelocity(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 127
	}
	return uint8(math.Round(v * 127))
}
