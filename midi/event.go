package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// NoteEvent is a note starting or ending on an input device
type NoteEvent struct {
	Type     uint8 // NoteOn or NoteOff
	Channel  uint8
	Note     uint8
	Velocity uint8
	Device   string
}

// On reports whether the event starts a note.
func (e NoteEvent) On() bool {
	return e.Type == NoteOn
}

// Level returns the velocity scaled to 0..1.
func (e NoteEvent) Level() float64 {
	return float64(e.Velocity) / 127
}

// ParseNote converts a raw message into a NoteEvent. A note-on with zero
// velocity is a note-off. Other messages report false.
func ParseNote(msg gomidi.Message, device string) (NoteEvent, bool) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return NoteEvent{Type: NoteOn, Channel: ch, Note: key, Velocity: vel, Device: device}, true
	case msg.GetNoteEnd(&ch, &key):
		return NoteEvent{Type: NoteOff, Channel: ch, Note: key, Device: device}, true
	}
	return NoteEvent{}, false
}
