package theory

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allExtensionSets() []ExtensionSet {
	var sets []ExtensionSet
	for s := ExtensionSet(0); s < 16; s++ {
		sets = append(sets, s)
	}
	return sets
}

func pitchClassCounts(notes []int) map[int]int {
	counts := map[int]int{}
	for _, n := range notes {
		counts[PitchClass(n)]++
	}
	return counts
}

func TestGenerateTriads(t *testing.T) {
	tests := []struct {
		chord ChordType
		want  []int
	}{
		{ChordDim, []int{60, 63, 66}},
		{ChordMin, []int{60, 63, 67}},
		{ChordMaj, []int{60, 64, 67}},
		{ChordSus, []int{60, 65, 67}},
		{ChordNone, []int{60}},
	}
	for _, tt := range tests {
		t.Run(tt.chord.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(60, tt.chord, 0, 0))
		})
	}
}

func TestGenerateExtensions(t *testing.T) {
	notes := Generate(60, ChordMaj, ExtensionSet(0).With(Ext9).With(ExtMajor7), 0)
	assert.Equal(t, []int{60, 64, 67, 71, 74}, notes)

	notes = Generate(57, ChordMin, ExtensionSet(0).With(Ext6).With(ExtMinor7), 0)
	assert.Equal(t, []int{57, 60, 64, 66, 67}, notes)
}

func TestGenerateSortedWithExpectedCount(t *testing.T) {
	for _, chord := range ChordTypes {
		for _, exts := range allExtensionSets() {
			notes := Generate(48, chord, exts, 0)
			require.Len(t, notes, 3+exts.Count(), "%s %s", chord, exts)
			assert.True(t, sort.IntsAreSorted(notes), "%s %s: %v", chord, exts, notes)
		}
	}
}

func TestVoicingPreservesPitchClasses(t *testing.T) {
	for _, chord := range ChordTypes {
		for _, exts := range allExtensionSets() {
			base := Generate(60, chord, exts, 0)
			for v := -12; v <= 12; v++ {
				voiced := Generate(60, chord, exts, v)
				assert.Len(t, voiced, len(base))
				assert.Equal(t, pitchClassCounts(base), pitchClassCounts(voiced), "voicing %d", v)
			}
		}
	}
}

func TestVoicingRoundTrip(t *testing.T) {
	base := Generate(60, ChordMaj, ExtensionSet(0).With(ExtMinor7), 0)
	for n := 0; n <= 12; n++ {
		assert.Equal(t, base, Voice(Voice(base, n), -n), "n=%d", n)
		assert.Equal(t, base, Voice(Voice(base, -n), n), "n=%d", n)
	}
}

func TestVoicingSteps(t *testing.T) {
	base := []int{60, 64, 67}
	assert.Equal(t, []int{64, 67, 72}, Voice(base, 1))
	assert.Equal(t, []int{67, 72, 76}, Voice(base, 2))
	assert.Equal(t, []int{55, 60, 64}, Voice(base, -1))
	assert.Equal(t, []int{60, 64, 67}, base, "input must not be modified")
}

func TestName(t *testing.T) {
	ext := func(es ...Extension) ExtensionSet {
		var s ExtensionSet
		for _, e := range es {
			s = s.With(e)
		}
		return s
	}
	tests := []struct {
		name  string
		root  int
		chord ChordType
		exts  ExtensionSet
		want  ChordName
	}{
		{"plain major", 60, ChordMaj, 0, ChordName{Base: "C"}},
		{"minor", 62, ChordMin, 0, ChordName{Base: "Dm"}},
		{"dim", 71, ChordDim, 0, ChordName{Base: "Bdim"}},
		{"sus", 66, ChordSus, 0, ChordName{Base: "F#sus"}},
		{"single note", 61, ChordNone, ext(Ext9), ChordName{Base: "C#"}},
		{"dominant seventh", 60, ChordMaj, ext(ExtMinor7), ChordName{Base: "C", Sup: "7"}},
		{"minor seventh", 60, ChordMin, ext(ExtMinor7), ChordName{Base: "Cm", Sup: "m7"}},
		{"major seventh", 60, ChordMaj, ext(ExtMajor7), ChordName{Base: "C", Sup: "M7"}},
		{"both sevenths prefer major", 60, ChordMaj, ext(ExtMinor7, ExtMajor7), ChordName{Base: "C", Sup: "M7"}},
		{"six nine", 60, ChordMaj, ext(Ext6, Ext9), ChordName{Base: "C", Sup: "69"}},
		{"minor seventh ninth", 69, ChordMin, ext(ExtMinor7, Ext9), ChordName{Base: "Am", Sup: "m79"}},
		{"three extensions", 60, ChordMin, ext(Ext6, ExtMinor7, Ext9), ChordName{Base: "Cm", Sup: "JAZZ"}},
		{"all extensions", 60, ChordSus, ext(Ext6, ExtMinor7, ExtMajor7, Ext9), ChordName{Base: "???"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.root, tt.chord, tt.exts))
		})
	}
}

func TestChordNameString(t *testing.T) {
	assert.Equal(t, "C", ChordName{Base: "C"}.String())
	assert.Equal(t, "C^7", ChordName{Base: "C", Sup: "7"}.String())
	assert.True(t, ChordName{}.IsZero())
}

func TestExtensionSet(t *testing.T) {
	s := ExtensionSet(0).With(Ext9).With(Ext6)
	assert.True(t, s.Has(Ext6))
	assert.False(t, s.Has(ExtMajor7))
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, []Extension{Ext6, Ext9}, s.List())
	assert.Equal(t, "6+9", s.String())

	s = s.Toggle(Ext6).Set(ExtMinor7, true)
	assert.Equal(t, "m7+9", s.String())
}

func TestParseChordType(t *testing.T) {
	for _, c := range append(ChordTypes, ChordNone) {
		got, err := ParseChordType(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseChordType("aug7")
	assert.Error(t, err)
}
