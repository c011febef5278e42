package instrument

import (
	"golang.org/x/exp/constraints"

	"go-violet/config"
	"go-violet/engine"
	"go-violet/synth/fx"
	"go-violet/theory"
)

// Control ranges
const (
	MinVoicing = -12
	MaxVoicing = 12
	MinOctave  = 1
	MaxOctave  = 7
	MinBPM     = 40
	MaxBPM     = 240
	BPMStep    = 5
	MaxVolume  = 100
	MaxEffect  = 100
	EffectStep = 5
)

// Settings is the live control state. Every mutator clamps to range.
type Settings struct {
	ChordType    theory.ChordType
	Extensions   theory.ExtensionSet
	Voicing      int
	Octave       int
	BPM          int
	Key          theory.ScaleKey
	Perform      engine.PerformMode
	Bass         engine.BassMode
	Poly         bool
	MasterVolume int

	// Effect wet levels, 0-100
	Reverb int
	Delay  int
	Chorus int
	Drive  int
}

func DefaultSettings() Settings {
	return Settings{
		Octave:       4,
		BPM:          120,
		Perform:      engine.PerformChord,
		Bass:         engine.BassOff,
		MasterVolume: 80,
	}
}

// SettingsFromConfig restores the last session's settings. Unparseable
// values keep their defaults.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := DefaultSettings()
	if cfg.Play.Octave != 0 {
		s.Octave = clamp(cfg.Play.Octave, MinOctave, MaxOctave)
	}
	if cfg.Play.BPM != 0 {
		s.BPM = clamp(cfg.Play.BPM, MinBPM, MaxBPM)
	}
	if m, err := engine.ParsePerformMode(cfg.Play.PerformMode); err == nil {
		s.Perform = m
	}
	if b, err := engine.ParseBassMode(cfg.Play.BassMode); err == nil {
		s.Bass = b
	}
	if k, err := theory.ParseKey(cfg.Play.Key); err == nil {
		s.Key = k
	}
	s.Poly = cfg.Play.Poly
	s.MasterVolume = clamp(cfg.Audio.MasterVolume, 0, MaxVolume)
	s.Reverb = clamp(cfg.Audio.Reverb, 0, MaxEffect)
	s.Delay = clamp(cfg.Audio.Delay, 0, MaxEffect)
	s.Chorus = clamp(cfg.Audio.Chorus, 0, MaxEffect)
	s.Drive = clamp(cfg.Audio.Drive, 0, MaxEffect)
	return s
}

// SaveTo writes the persistent part of s into cfg.
func (s Settings) SaveTo(cfg *config.Config) {
	cfg.Play.Octave = s.Octave
	cfg.Play.BPM = s.BPM
	cfg.Play.PerformMode = s.Perform.String()
	cfg.Play.BassMode = s.Bass.String()
	cfg.Play.Key = s.Key.String()
	cfg.Play.Poly = s.Poly
	cfg.Audio.MasterVolume = s.MasterVolume
	cfg.Audio.Reverb = s.Reverb
	cfg.Audio.Delay = s.Delay
	cfg.Audio.Chorus = s.Chorus
	cfg.Audio.Drive = s.Drive
}

// Snapshot is the read-only view a trigger is generated from.
func (s Settings) Snapshot() engine.Settings {
	return engine.Settings{
		ChordType:  s.ChordType,
		Extensions: s.Extensions,
		Voicing:    s.Voicing,
		Key:        s.Key,
		BPM:        s.BPM,
		Perform:    s.Perform,
		Bass:       s.Bass,
	}
}

func (s *Settings) SetChordType(c theory.ChordType) {
	s.ChordType = c
}

func (s *Settings) SetExtension(e theory.Extension, on bool) {
	s.Extensions = s.Extensions.Set(e, on)
}

func (s *Settings) ToggleExtension(e theory.Extension) {
	s.Extensions = s.Extensions.Toggle(e)
}

func (s *Settings) StepOctave(delta int) {
	s.Octave = clamp(s.Octave+delta, MinOctave, MaxOctave)
}

func (s *Settings) StepVoicing(delta int) {
	s.Voicing = clamp(s.Voicing+delta, MinVoicing, MaxVoicing)
}

func (s *Settings) StepBPM(delta int) {
	s.BPM = clamp(s.BPM+delta, MinBPM, MaxBPM)
}

func (s *Settings) StepVolume(delta int) {
	s.MasterVolume = clamp(s.MasterVolume+delta, 0, MaxVolume)
}

// Effect returns the wet level of e.
func (s Settings) Effect(e fx.Effect) int {
	if p := s.effect(e); p != nil {
		return *p
	}
	return 0
}

func (s *Settings) StepEffect(e fx.Effect, delta int) {
	if p := s.effect(e); p != nil {
		*p = clamp(*p+delta, 0, MaxEffect)
	}
}

func (s *Settings) effect(e fx.Effect) *int {
	switch e {
	case fx.Reverb:
		return &s.Reverb
	case fx.Delay:
		return &s.Delay
	case fx.Chorus:
		return &s.Chorus
	case fx.Drive:
		return &s.Drive
	}
	return nil
}

func (s *Settings) CycleKey(delta int) {
	keys := theory.Keys()
	i := 0
	for j, k := range keys {
		if k == s.Key {
			i = j
			break
		}
	}
	s.Key = keys[wrap(i+delta, len(keys))]
}

func (s *Settings) CyclePerform(delta int) {
	s.Perform = engine.PerformModes[wrap(int(s.Perform)+delta, len(engine.PerformModes))]
}

func (s *Settings) CycleBass(delta int) {
	s.Bass = engine.BassModes[wrap(int(s.Bass)+delta, len(engine.BassModes))]
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
