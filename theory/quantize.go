package theory

import (
	"errors"
	"fmt"
	"strings"
)

var ErrBadKey = errors.New("invalid key")

// ScaleKey is a tonic pitch class and mode. The zero value means no scale.
type ScaleKey struct {
	Tonic int
	Mode  Mode
}

// IsSet reports whether the key quantizes anything.
func (k ScaleKey) IsSet() bool {
	return k.Mode != ModeNone
}

// String renders the key as "C#-min", or "" when unset.
func (k ScaleKey) String() string {
	if !k.IsSet() {
		return ""
	}
	return PitchClassName(k.Tonic) + "-" + k.Mode.String()
}

// ParseKey parses "C-maj" / "A#-min". An empty string or "none" is the zero key.
func ParseKey(s string) (ScaleKey, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return ScaleKey{}, nil
	}
	tonic, mode, ok := strings.Cut(s, "-")
	if !ok {
		return ScaleKey{}, fmt.Errorf("%w: %q", ErrBadKey, s)
	}
	pc, rest, err := parsePitchClass(tonic)
	if err != nil || rest != "" {
		return ScaleKey{}, fmt.Errorf("%w: bad tonic %q", ErrBadKey, tonic)
	}
	switch strings.ToLower(mode) {
	case "maj", "major":
		return ScaleKey{Tonic: PitchClass(pc), Mode: ModeMajor}, nil
	case "min", "minor":
		return ScaleKey{Tonic: PitchClass(pc), Mode: ModeMinor}, nil
	}
	return ScaleKey{}, fmt.Errorf("%w: bad mode %q", ErrBadKey, mode)
}

// Keys lists the zero key followed by every major and minor key.
func Keys() []ScaleKey {
	keys := []ScaleKey{{}}
	for pc := range NoteNames {
		keys = append(keys, ScaleKey{Tonic: pc, Mode: ModeMajor}, ScaleKey{Tonic: pc, Mode: ModeMinor})
	}
	return keys
}

// Degrees returns the pitch classes of the key's scale in scale order.
func (k ScaleKey) Degrees() []int {
	steps := scales[k.Mode]
	out := make([]int, len(steps))
	for i, s := range steps {
		out[i] = PitchClass(k.Tonic + s)
	}
	return out
}

// Quantize snaps pitch to the nearest pitch class of key within its own
// octave. Ties keep the first degree in scale order.
func Quantize(pitch int, key ScaleKey) int {
	if !key.IsSet() {
		return pitch
	}
	octave := floorDiv(pitch, 12)
	pc := PitchClass(pitch)

	nearest := pc
	minDist := 12
	for _, deg := range key.Degrees() {
		d := pc - deg
		if d < 0 {
			d = -d
		}
		if 12-d < d {
			d = 12 - d
		}
		if d < minDist {
			minDist = d
			nearest = deg
		}
	}
	return octave*12 + nearest
}
