package theory

import "sort"

// ChordName is a display name split into its base and superscript parts.
type ChordName struct {
	Base string
	Sup  string
}

func (n ChordName) String() string {
	if n.Sup == "" {
		return n.Base
	}
	return n.Base + "^" + n.Sup
}

// IsZero reports whether the name is empty.
func (n ChordName) IsZero() bool {
	return n.Base == "" && n.Sup == ""
}

// Generate builds the pitches for a chord rooted at root. Extension intervals
// are merged into the triad in ascending order before voicing is applied.
// A ChordNone chord is the root alone and ignores voicing.
func Generate(root int, chord ChordType, exts ExtensionSet, voicing int) []int {
	base, ok := chordIntervals[chord]
	if !ok {
		return []int{root}
	}

	intervals := append([]int(nil), base...)
	for _, e := range exts.List() {
		intervals = append(intervals, e.Interval())
	}
	sort.Ints(intervals)

	notes := make([]int, len(intervals))
	for i, iv := range intervals {
		notes[i] = root + iv
	}
	return Voice(notes, voicing)
}

// Voice redistributes notes by octave. Each positive step moves the first
// note up an octave to the end; each negative step moves the last note down
// an octave to the front. The input is not modified.
func Voice(notes []int, voicing int) []int {
	out := append([]int(nil), notes...)
	if len(out) == 0 {
		return out
	}
	for ; voicing > 0; voicing-- {
		low := out[0]
		out = append(out[1:], low+12)
	}
	for ; voicing < 0; voicing++ {
		high := out[len(out)-1]
		out = append([]int{high - 12}, out[:len(out)-1]...)
	}
	return out
}

// Name returns the display name of a chord.
//
// Four extensions collapse to "???" and three or more get a "JAZZ" tag.
// A major triad with only the minor seventh reads as a dominant "7".
// Otherwise the superscript lists 6, then M7 or m7, then 9.
func Name(root int, chord ChordType, exts ExtensionSet) ChordName {
	base := PitchClassName(root)
	suffix, ok := chordSuffix[chord]
	if !ok {
		return ChordName{Base: base}
	}
	base += suffix

	switch n := exts.Count(); {
	case n == 0:
		return ChordName{Base: base}
	case n == 4:
		return ChordName{Base: "???"}
	case n >= 3:
		return ChordName{Base: base, Sup: "JAZZ"}
	}

	if chord == ChordMaj && exts == ExtensionSet(ExtMinor7) {
		return ChordName{Base: base, Sup: "7"}
	}

	sup := ""
	if exts.Has(Ext6) {
		sup += "6"
	}
	if exts.Has(ExtMajor7) {
		sup += "M7"
	} else if exts.Has(ExtMinor7) {
		sup += "m7"
	}
	if exts.Has(Ext9) {
		sup += "9"
	}
	return ChordName{Base: base, Sup: sup}
}
