package synth

import (
	"math"
	"sync"
	"time"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveTriangle
	WaveSaw
	WaveSquare
)

// Patch shapes every voice of a Synth.
type Patch struct {
	Wave      Wave
	Attack    time.Duration
	Decay     time.Duration
	Sustain   float64 // level 0-1
	Release   time.Duration
	Gain      float64
	MaxVoices int // 1 makes the synth monophonic
}

var (
	// ChordPatch is a soft pad for chord voices.
	ChordPatch = Patch{
		Wave:      WaveTriangle,
		Attack:    8 * time.Millisecond,
		Decay:     400 * time.Millisecond,
		Sustain:   0.6,
		Release:   500 * time.Millisecond,
		Gain:      0.12,
		MaxVoices: 32,
	}

	// BassPatch is a mono saw bass.
	BassPatch = Patch{
		Wave:      WaveSaw,
		Attack:    4 * time.Millisecond,
		Decay:     250 * time.Millisecond,
		Sustain:   0.7,
		Release:   150 * time.Millisecond,
		Gain:      0.2,
		MaxVoices: 1,
	}
)

type stage int

const (
	stageAttack stage = iota
	stageDecay
	stageSustain
	stageRelease
	stageDone
)

type voice struct {
	pitch    int
	step     float64 // phase increment per sample
	phase    float64
	velocity float64
	stage    stage
	level    float64
	fall     float64 // release decrement per sample
	gate     int     // samples until a short note releases, -1 when held
	born     uint64
}

// Synth is a small polyphonic oscillator synth. It only renders when pulled
// by an Output, so it can be driven without an audio device.
type Synth struct {
	mu     sync.Mutex
	patch  Patch
	rate   float64
	volume float64
	voices []*voice
	clock  uint64
}

func New(patch Patch, sampleRate int) *Synth {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return &Synth{patch: patch, rate: float64(sampleRate), volume: 1}
}

// SetVolume sets the output level, 0-1.
func (s *Synth) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = math.Max(0, math.Min(1, v))
}

func (s *Synth) NotesOn(pitches []int, velocity float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range pitches {
		s.start(p, velocity, -1)
	}
}

func (s *Synth) NotesOff(pitches []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range pitches {
		for _, v := range s.voices {
			if v.pitch == p && v.stage < stageRelease {
				s.release(v)
			}
		}
	}
}

// Short plays pitch and releases it after d.
func (s *Synth) Short(pitch int, velocity float64, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := s.samples(d)
	if gate < 1 {
		gate = 1
	}
	s.start(pitch, velocity, gate)
}

func (s *Synth) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.voices {
		if v.stage < stageRelease {
			s.release(v)
		}
	}
}

// Active returns the number of voices still producing sound.
func (s *Synth) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.voices)
}

// Held returns the pitches whose voices have not been released.
func (s *Synth) Held() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int
	for _, v := range s.voices {
		if v.stage < stageRelease {
			out = append(out, v.pitch)
		}
	}
	return out
}

func (s *Synth) samples(d time.Duration) int {
	return int(d.Seconds() * s.rate)
}

// start retriggers a sounding voice of the same pitch or allocates one,
// stealing the oldest when the patch's voice limit is reached.
func (s *Synth) start(pitch int, velocity float64, gate int) {
	s.clock++
	for _, v := range s.voices {
		if v.pitch == pitch {
			v.velocity = velocity
			v.stage = stageAttack
			v.gate = gate
			v.born = s.clock
			return
		}
	}

	if s.patch.MaxVoices > 0 && len(s.voices) >= s.patch.MaxVoices {
		oldest := 0
		for i, v := range s.voices {
			if v.born < s.voices[oldest].born {
				oldest = i
			}
		}
		s.voices = append(s.voices[:oldest], s.voices[oldest+1:]...)
	}

	s.voices = append(s.voices, &voice{
		pitch:    pitch,
		step:     Frequency(pitch) / s.rate,
		velocity: velocity,
		stage:    stageAttack,
		gate:     gate,
		born:     s.clock,
	})
}

func (s *Synth) release(v *voice) {
	v.stage = stageRelease
	n := s.samples(s.patch.Release)
	if n < 1 {
		n = 1
	}
	v.fall = v.level / float64(n)
	if v.fall <= 0 {
		v.stage = stageDone
	}
}

// Render adds len(buf) samples of output into buf.
func (s *Synth) Render(buf []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attack := 1 / math.Max(1, float64(s.samples(s.patch.Attack)))
	decay := (1 - s.patch.Sustain) / math.Max(1, float64(s.samples(s.patch.Decay)))
	gain := s.patch.Gain * s.volume

	for _, v := range s.voices {
		for i := range buf {
			if v.gate > 0 {
				v.gate--
				if v.gate == 0 && v.stage < stageRelease {
					s.release(v)
				}
			}

			switch v.stage {
			case stageAttack:
				v.level += attack
				if v.level >= 1 {
					v.level = 1
					v.stage = stageDecay
				}
			case stageDecay:
				v.level -= decay
				if v.level <= s.patch.Sustain {
					v.level = s.patch.Sustain
					v.stage = stageSustain
				}
			case stageRelease:
				v.level -= v.fall
				if v.level <= 0 {
					v.level = 0
					v.stage = stageDone
				}
			}
			if v.stage == stageDone {
				break
			}

			buf[i] += float32(oscillate(s.patch.Wave, v.phase) * v.level * v.velocity * gain)
			v.phase += v.step
			if v.phase >= 1 {
				v.phase -= 1
			}
		}
	}

	live := s.voices[:0]
	for _, v := range s.voices {
		if v.stage != stageDone {
			live = append(live, v)
		}
	}
	s.voices = live
}

func oscillate(w Wave, phase float64) float64 {
	switch w {
	case WaveTriangle:
		return 4*math.Abs(phase-0.5) - 1
	case WaveSaw:
		return 2*phase - 1
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	}
	return math.Sin(2 * math.Pi * phase)
}

// Frequency returns the equal-tempered frequency of a MIDI pitch (A4 = 440 Hz).
func Frequency(pitch int) float64 {
	return 440 * math.Pow(2, float64(pitch-69)/12)
}
