package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-violet/theme"
	"go-violet/theory"
)

// KeyboardRange returns a range of whole octaves starting one octave below
// base and spanning three octaves, widened to cover every note.
func KeyboardRange(base int, notes []int) (lo, hi int) {
	lo = floorC(base - 12)
	hi = lo + 36 - 1
	for _, n := range notes {
		if n < lo {
			lo = floorC(n)
		}
		if n > hi {
			hi = floorC(n) + 11
		}
	}
	if lo < 0 {
		lo = 0
	}
	if hi > 127 {
		hi = 127
	}
	return lo, hi
}

func floorC(p int) int {
	if p < 0 {
		return -((-p + 11) / 12 * 12)
	}
	return p / 12 * 12
}

func isBlack(p int) bool {
	switch theory.PitchClass(p) {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

// RenderKeyboard draws pitches lo..hi one column per semitone: black keys
// on the top row, white keys below, octave labels under each C. Lit
// pitches use the active color.
func RenderKeyboard(th *theme.Theme, lo, hi int, lit map[int]bool) string {
	if hi < lo {
		return ""
	}
	on := lipgloss.NewStyle().Foreground(th.Active())
	black := lipgloss.NewStyle().Foreground(th.Muted())
	white := lipgloss.NewStyle().Foreground(th.FG())
	dim := lipgloss.NewStyle().Foreground(th.Muted())

	var top, bottom strings.Builder
	labels := []rune(strings.Repeat(" ", hi-lo+1))
	for p := lo; p <= hi; p++ {
		if isBlack(p) {
			st := black
			if lit[p] {
				st = on
			}
			top.WriteString(st.Render(string(th.Symbols.BlackKey)))
			bottom.WriteString(" ")
		} else {
			st := white
			if lit[p] {
				st = on
			}
			top.WriteString(" ")
			bottom.WriteString(st.Render(string(th.Symbols.WhiteKey)))
		}
		if theory.PitchClass(p) == 0 {
			copy(labels[p-lo:], []rune(theory.NoteName(p)))
		}
	}

	return strings.Join([]string{
		top.String(),
		bottom.String(),
		dim.Render(strings.TrimRight(string(labels), " ")),
	}, "\n")
}
