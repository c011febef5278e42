package engine

import (
	"sync"

	"go-violet/debug"
	"go-violet/theory"
)

// Engine turns trigger events into chords. All methods are safe for
// concurrent use; scheduled articulation runs under the same lock.
type Engine struct {
	mu   sync.Mutex
	reg  *Registry
	d    *dispatcher
	last Display
}

type Option func(*Engine)

// WithOutput mirrors every note to an external MIDI output.
func WithOutput(out Output) Option {
	return func(e *Engine) {
		if out != nil {
			e.d.out = out
		}
	}
}

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		e.d.sched = s
	}
}

// WithJitter sets the random source for slop timing, returning values in [0, 1).
func WithJitter(f func() float64) Option {
	return func(e *Engine) {
		e.d.jitter = f
	}
}

// New creates an engine driving a chord voice and a bass voice.
func New(chord, bass Synth, opts ...Option) *Engine {
	e := &Engine{reg: NewRegistry()}
	e.d = newDispatcher(&e.mu, chord, bass)
	for _, opt := range opts {
		opt(e)
	}
	e.last = newDisplay(nil, theory.ChordName{}, 0)
	return e
}

// TriggerOn generates and starts the chord for key. The registry keeps the
// unquantized key so the matching TriggerOff finds it.
func (e *Engine) TriggerOn(key int, velocity float64, s Settings, layered bool) Display {
	e.mu.Lock()
	defer e.mu.Unlock()

	root := theory.Quantize(key, s.Key)
	notes := theory.Generate(root, s.ChordType, s.Extensions, s.Voicing)
	name := theory.Name(root, s.ChordType, s.Extensions)

	for _, c := range e.reg.TriggerOn(key, notes, layered) {
		e.d.release(c.Key)
	}
	e.d.play(key, root, notes, velocity, s)

	debug.Log("engine", "on key=%d root=%d notes=%v name=%s mode=%s bass=%s layered=%v active=%d",
		key, root, notes, name, s.Perform, s.Bass, layered, e.reg.Len())

	shown := notes
	if layered {
		shown = e.reg.Notes()
	}
	e.last = newDisplay(shown, name, e.reg.Len())
	return e.last
}

// TriggerOff releases key when layered, or every chord when not.
func (e *Engine) TriggerOff(key int, layered bool) Display {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, c := range e.reg.TriggerOff(key, layered) {
		e.d.release(c.Key)
	}
	debug.Log("engine", "off key=%d layered=%v active=%d", key, layered, e.reg.Len())

	e.last = newDisplay(e.reg.Notes(), theory.ChordName{}, e.reg.Len())
	return e.last
}

// Panic stops everything. It is safe to call at any time.
func (e *Engine) Panic() Display {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reg.Panic()
	e.d.silence()
	debug.Log("engine", "panic")

	e.last = newDisplay(nil, theory.ChordName{}, 0)
	return e.last
}

// ChangeMode must be called when the perform mode changes so a running
// arpeggio does not outlive it.
func (e *Engine) ChangeMode(mode PerformMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.d.changeMode(mode)
}

// Snapshot returns the most recent display.
func (e *Engine) Snapshot() Display {
	e.mu.Lock()
	defer e.mu.Unlock()
	d := e.last
	d.Notes = append([]int{}, d.Notes...)
	return d
}

// Sounding returns the registered chords.
func (e *Engine) Sounding() []SoundingChord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reg.Entries()
}

// Arpeggiating reports whether an arpeggio is running.
func (e *Engine) Arpeggiating() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.d.arp != nil
}
