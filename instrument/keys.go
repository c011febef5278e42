package instrument

import (
	"go-violet/synth/fx"
	"go-violet/theory"
)

// NoteKeys maps the home row to semitones above the octave's C.
var NoteKeys = map[string]int{
	"a": 0, "w": 1, "s": 2, "e": 3, "d": 4, "f": 5,
	"t": 6, "g": 7, "y": 8, "h": 9, "u": 10, "j": 11,
}

// NoteKeyOrder lists the note keys by pitch.
var NoteKeyOrder = []string{"a", "w", "s", "e", "d", "f", "t", "g", "y", "h", "u", "j"}

// ChordKeys select chord types.
var ChordKeys = map[string]theory.ChordType{
	"1": theory.ChordDim,
	"2": theory.ChordMin,
	"3": theory.ChordMaj,
	"4": theory.ChordSus,
}

// ExtensionKeys toggle extensions.
var ExtensionKeys = map[string]theory.Extension{
	"5": theory.Ext6,
	"6": theory.ExtMinor7,
	"7": theory.ExtMajor7,
	"8": theory.Ext9,
}

// EffectKeys raise an effect level; the shifted key lowers it.
var EffectKeys = map[string]fx.Effect{
	"r": fx.Reverb,
	"v": fx.Delay,
	"c": fx.Chorus,
	"n": fx.Drive,
}

// KeyNote returns the pitch a note key plays in octave.
func KeyNote(octave, offset int) int {
	return (octave+1)*12 + offset
}
