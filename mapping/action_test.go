package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-violet/theory"
)

type fakeTarget struct {
	chord   theory.ChordType
	exts    theory.ExtensionSet
	octave  int
	voicing int
}

func (f *fakeTarget) SetChordType(c theory.ChordType) { f.chord = c }

func (f *fakeTarget) SetExtension(e theory.Extension, on bool) { f.exts = f.exts.Set(e, on) }

func (f *fakeTarget) StepOctave(d int) { f.octave += d }

func (f *fakeTarget) StepVoicing(d int) { f.voicing += d }

func TestEveryActionHasAHandler(t *testing.T) {
	for _, a := range Actions {
		_, ok := handlers[a]
		assert.True(t, ok, a.String())
		assert.NotEmpty(t, a.Label())
	}
}

func TestChordTypeEdges(t *testing.T) {
	target := &fakeTarget{}
	c := NewControls(target)

	c.Execute(ActionChordMin, true)
	assert.Equal(t, theory.ChordMin, target.chord)

	c.Execute(ActionChordMaj, true)
	assert.Equal(t, theory.ChordMaj, target.chord)

	c.Execute(ActionChordMaj, false)
	assert.Equal(t, theory.ChordMaj, target.chord, "another chord control is still held")

	c.Execute(ActionChordMin, false)
	assert.Equal(t, theory.ChordNone, target.chord)
}

func TestExtensionEdges(t *testing.T) {
	target := &fakeTarget{}
	c := NewControls(target)

	c.Execute(ActionExtMinor7, true)
	c.Execute(ActionExt9, true)
	assert.True(t, target.exts.Has(theory.ExtMinor7))
	assert.True(t, c.Held(ActionExt9))

	c.Execute(ActionExtMinor7, false)
	assert.False(t, target.exts.Has(theory.ExtMinor7))
	assert.True(t, target.exts.Has(theory.Ext9))
}

func TestStepActionsFireOnPressOnly(t *testing.T) {
	target := &fakeTarget{}
	c := NewControls(target)

	c.Execute(ActionOctaveUp, true)
	c.Execute(ActionOctaveUp, false)
	c.Execute(ActionVoicingDown, true)
	c.Execute(ActionVoicingDown, false)
	c.Execute(ActionVoicingDown, true)

	assert.Equal(t, 1, target.octave)
	assert.Equal(t, -2, target.voicing)
}

func TestUnknownActionIgnored(t *testing.T) {
	target := &fakeTarget{chord: theory.ChordMaj}
	c := NewControls(target)
	c.Execute(ActionNone, true)
	c.Execute(Action(99), false)
	assert.Equal(t, theory.ChordMaj, target.chord)
}

func TestParseAction(t *testing.T) {
	for _, a := range Actions {
		got, err := ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ParseAction("chordAug7")
	assert.Error(t, err)

	_, err = ActionNone.MarshalText()
	assert.Error(t, err)
}
