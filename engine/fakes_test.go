package engine

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

type fakeTimer struct {
	s       *fakeScheduler
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler runs callbacks only when the test advances time.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &fakeTimer{s: s, at: s.now + d, seq: s.seq, fn: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var next *fakeTimer
		for _, t := range s.timers {
			if t.fired || t.stopped || t.at > target {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		next.fired = true
		if next.at > s.now {
			s.now = next.at
		}
		s.mu.Unlock()
		next.fn()
	}
}

// Pending counts timers that have neither fired nor been stopped.
func (s *fakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

type shortNote struct {
	Pitch    int
	Velocity float64
	Length   time.Duration
}

// recordingSynth remembers what the engine asked it to play.
type recordingSynth struct {
	on         map[int]float64
	shorts     []shortNote
	offs       [][]int
	releaseAll int
}

func newRecordingSynth() *recordingSynth {
	return &recordingSynth{on: make(map[int]float64)}
}

func (s *recordingSynth) NotesOn(pitches []int, velocity float64) {
	for _, p := range pitches {
		s.on[p] = velocity
	}
}

func (s *recordingSynth) NotesOff(pitches []int) {
	s.offs = append(s.offs, append([]int(nil), pitches...))
	for _, p := range pitches {
		delete(s.on, p)
	}
}

func (s *recordingSynth) Short(pitch int, velocity float64, d time.Duration) {
	s.shorts = append(s.shorts, shortNote{Pitch: pitch, Velocity: velocity, Length: d})
}

func (s *recordingSynth) ReleaseAll() {
	s.releaseAll++
	s.on = make(map[int]float64)
}

func (s *recordingSynth) Sounding() []int {
	var out []int
	for p := range s.on {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

func (s *recordingSynth) ShortPitches() []int {
	var out []int
	for _, n := range s.shorts {
		out = append(out, n.Pitch)
	}
	return out
}

// recordingOutput logs MIDI messages as "on 60 102" / "off 60".
type recordingOutput struct {
	log []string
	on  map[int]bool
}

func newRecordingOutput() *recordingOutput {
	return &recordingOutput{on: make(map[int]bool)}
}

func (o *recordingOutput) NoteOn(pitch int, velocity uint8) {
	o.log = append(o.log, fmt.Sprintf("on %d %d", pitch, velocity))
	o.on[pitch] = true
}

func (o *recordingOutput) NoteOff(pitch int) {
	o.log = append(o.log, fmt.Sprintf("off %d", pitch))
	delete(o.on, pitch)
}

func (o *recordingOutput) Sounding() []int {
	var out []int
	for p := range o.on {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

type rig struct {
	engine *Engine
	chord  *recordingSynth
	bass   *recordingSynth
	out    *recordingOutput
	sched  *fakeScheduler
}

func newRig(opts ...Option) *rig {
	r := &rig{
		chord: newRecordingSynth(),
		bass:  newRecordingSynth(),
		out:   newRecordingOutput(),
		sched: &fakeScheduler{},
	}
	opts = append([]Option{WithOutput(r.out), WithScheduler(r.sched)}, opts...)
	r.engine = New(r.chord, r.bass, opts...)
	return r
}
