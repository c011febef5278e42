package engine

import "go-violet/theory"

// LayeredName replaces the chord name while two or more chords sound.
const LayeredName = "WTF"

// Display is emitted after every trigger.
type Display struct {
	Notes        []int
	Name         theory.ChordName
	ActiveChords int
}

func newDisplay(notes []int, name theory.ChordName, active int) Display {
	if active >= 2 {
		name = theory.ChordName{Base: LayeredName}
	}
	if notes == nil {
		notes = []int{}
	}
	return Display{Notes: notes, Name: name, ActiveChords: active}
}
