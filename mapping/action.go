package mapping

import (
	"fmt"

	"go-violet/theory"
)

// Action is something a mapped control note does instead of playing a chord.
type Action int

const (
	ActionNone Action = iota
	ActionChordDim
	ActionChordMin
	ActionChordMaj
	ActionChordSus
	ActionExt6
	ActionExtMinor7
	ActionExtMajor7
	ActionExt9
	ActionOctaveUp
	ActionOctaveDown
	ActionVoicingUp
	ActionVoicingDown
)

// Actions lists every mappable action in display order.
var Actions = []Action{
	ActionChordDim, ActionChordMin, ActionChordMaj, ActionChordSus,
	ActionExt6, ActionExtMinor7, ActionExtMajor7, ActionExt9,
	ActionOctaveUp, ActionOctaveDown, ActionVoicingUp, ActionVoicingDown,
}

type actionInfo struct {
	id    string
	label string
}

var actionInfos = map[Action]actionInfo{
	ActionChordDim:    {"chordDim", "Dim (1)"},
	ActionChordMin:    {"chordMin", "Minor (2)"},
	ActionChordMaj:    {"chordMaj", "Major (3)"},
	ActionChordSus:    {"chordSus", "Sus (4)"},
	ActionExt6:        {"ext6", "6th (5)"},
	ActionExtMinor7:   {"extm7", "m7 (6)"},
	ActionExtMajor7:   {"extM7", "M7 (7)"},
	ActionExt9:        {"ext9", "9th (8)"},
	ActionOctaveUp:    {"octaveUp", "Octave Up"},
	ActionOctaveDown:  {"octaveDown", "Octave Down"},
	ActionVoicingUp:   {"voicingUp", "Voicing Up"},
	ActionVoicingDown: {"voicingDown", "Voicing Down"},
}

func (a Action) String() string {
	if info, ok := actionInfos[a]; ok {
		return info.id
	}
	return "none"
}

// Label is the human readable name shown in the mapping panel.
func (a Action) Label() string {
	return actionInfos[a].label
}

func (a Action) Valid() bool {
	_, ok := actionInfos[a]
	return ok
}

func ParseAction(s string) (Action, error) {
	for a, info := range actionInfos {
		if info.id == s {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", s)
}

func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("cannot marshal action %d", int(a))
	}
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(b []byte) error {
	parsed, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Target receives the parameter changes made by executed actions.
type Target interface {
	SetChordType(theory.ChordType)
	SetExtension(theory.Extension, bool)
	StepOctave(delta int)
	StepVoicing(delta int)
}

type handler func(c *Controls, a Action, on bool)

func chordHandler(ct theory.ChordType) handler {
	return func(c *Controls, _ Action, on bool) {
		if on {
			c.target.SetChordType(ct)
			return
		}
		if !c.chordHeld() {
			c.target.SetChordType(theory.ChordNone)
		}
	}
}

func extensionHandler(e theory.Extension) handler {
	return func(c *Controls, _ Action, on bool) {
		c.target.SetExtension(e, on)
	}
}

func octaveHandler(delta int) handler {
	return func(c *Controls, _ Action, on bool) {
		if on {
			c.target.StepOctave(delta)
		}
	}
}

func voicingHandler(delta int) handler {
	return func(c *Controls, _ Action, on bool) {
		if on {
			c.target.StepVoicing(delta)
		}
	}
}

var handlers = map[Action]handler{
	ActionChordDim:    chordHandler(theory.ChordDim),
	ActionChordMin:    chordHandler(theory.ChordMin),
	ActionChordMaj:    chordHandler(theory.ChordMaj),
	ActionChordSus:    chordHandler(theory.ChordSus),
	ActionExt6:        extensionHandler(theory.Ext6),
	ActionExtMinor7:   extensionHandler(theory.ExtMinor7),
	ActionExtMajor7:   extensionHandler(theory.ExtMajor7),
	ActionExt9:        extensionHandler(theory.Ext9),
	ActionOctaveUp:    octaveHandler(1),
	ActionOctaveDown:  octaveHandler(-1),
	ActionVoicingUp:   voicingHandler(1),
	ActionVoicingDown: voicingHandler(-1),
}

func (a Action) isChord() bool {
	switch a {
	case ActionChordDim, ActionChordMin, ActionChordMaj, ActionChordSus:
		return true
	}
	return false
}

// Controls executes actions as on/off edges and remembers which mapped
// controls are held.
type Controls struct {
	target Target
	held   map[Action]bool
}

func NewControls(target Target) *Controls {
	return &Controls{target: target, held: make(map[Action]bool)}
}

// Execute applies the on or off edge of a. Unknown actions are ignored.
func (c *Controls) Execute(a Action, on bool) {
	h, ok := handlers[a]
	if !ok {
		return
	}
	if on {
		c.held[a] = true
	} else {
		delete(c.held, a)
	}
	h(c, a, on)
}

// Held reports whether the control for a is down.
func (c *Controls) Held(a Action) bool {
	return c.held[a]
}

// Reset forgets every held control.
func (c *Controls) Reset() {
	c.held = make(map[Action]bool)
}

func (c *Controls) chordHeld() bool {
	for a := range c.held {
		if a.isChord() {
			return true
		}
	}
	return false
}
