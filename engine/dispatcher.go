package engine

import (
	"math/rand"
	"slices"
	"sync"
	"time"

	"go-violet/debug"
)

// Articulation timing.
const (
	strumGap       = 30 * time.Millisecond
	slopJitter     = 15 * time.Millisecond
	octaveGap      = 25 * time.Millisecond
	octaveVelocity = 0.85
	harpGap        = 25 * time.Millisecond
	harpVelocity   = 0.7
	harpExtLength  = 200 * time.Millisecond

	bassOffset   = -24
	bassVelocity = 0.8
)

// performance is everything one registered chord has put in motion.
type performance struct {
	key       int
	tasks     []*task
	sustained []int
	bass      []int
	extOffs   map[*task]int
}

// task is a scheduled callback that can be cancelled under the engine lock.
type task struct {
	timer Timer
	done  bool
}

func (t *task) cancel() {
	if t.done {
		return
	}
	t.done = true
	if t.timer != nil {
		t.timer.Stop()
	}
}

// dispatcher turns generated notes into timed synth and MIDI events.
// Every method expects mu to be held.
type dispatcher struct {
	mu     *sync.Mutex
	chord  Synth
	bass   Synth
	out    Output
	sched  Scheduler
	jitter func() float64

	perfs    map[int]*performance
	held     map[int]int
	bassHeld map[int]int
	arp      *arpeggiator
}

func newDispatcher(mu *sync.Mutex, chord, bass Synth) *dispatcher {
	return &dispatcher{
		mu:       mu,
		chord:    chord,
		bass:     bass,
		out:      nopOutput{},
		sched:    Realtime,
		jitter:   rand.Float64,
		perfs:    make(map[int]*performance),
		held:     make(map[int]int),
		bassHeld: make(map[int]int),
	}
}

// after runs fn under the lock once delay has passed, unless cancelled.
// Tasks attached to a performance are cancelled when it is released.
func (d *dispatcher) after(p *performance, delay time.Duration, fn func()) *task {
	t := &task{}
	t.timer = d.sched.AfterFunc(delay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if t.done {
			return
		}
		t.done = true
		fn()
	})
	if p != nil {
		p.tasks = append(p.tasks, t)
	}
	return t
}

// at runs fn now when delay is not positive, otherwise schedules it.
func (d *dispatcher) at(p *performance, delay time.Duration, fn func()) {
	if delay <= 0 {
		fn()
		return
	}
	d.after(p, delay, fn)
}

// play starts a newly registered chord. root is the quantized root.
func (d *dispatcher) play(key, root int, notes []int, velocity float64, s Settings) {
	p := &performance{key: key, extOffs: make(map[*task]int)}
	d.perfs[key] = p

	if s.Bass != BassOff {
		d.playBass(p, root+bassOffset, s)
	}
	if s.Bass == BassSolo {
		return
	}

	notes = append([]int(nil), notes...)
	switch s.Perform {
	case PerformStrum:
		for i, n := range notes {
			n := n // per-iteration copy; module targets go 1.21 loop semantics
			d.at(p, time.Duration(i)*strumGap, func() { d.sustain(p, []int{n}, velocity, velocity) })
		}

	case PerformSlop:
		for i, n := range notes {
			n := n // per-iteration copy; module targets go 1.21 loop semantics
			jitter := time.Duration((d.jitter() - 0.5) * float64(slopJitter))
			d.at(p, time.Duration(i)*strumGap+jitter, func() { d.sustain(p, []int{n}, velocity, velocity) })
		}

	case PerformStrum2Oct:
		doubled := len(notes)
		for _, n := range notes[:doubled] {
			notes = append(notes, n+12)
		}
		for i, n := range notes {
			n := n // per-iteration copy; module targets go 1.21 loop semantics
			v := velocity
			if i >= doubled {
				v = velocity * octaveVelocity
			}
			d.at(p, time.Duration(i)*octaveGap, func() { d.sustain(p, []int{n}, v, velocity) })
		}

	case PerformArpUp, PerformArpDown, PerformArpUpDown:
		d.startArp(p, notes, velocity, s)

	case PerformHarp:
		var cascade []int
		for _, n := range notes {
			cascade = append(cascade, n, n+12, n+24)
		}
		slices.Sort(cascade)
		length := s.beat() / 2
		for i, n := range cascade {
			n := n // per-iteration copy; module targets go 1.21 loop semantics
			d.at(p, time.Duration(i)*harpGap, func() {
				d.short(p, n, velocity*harpVelocity, length, harpExtLength)
			})
		}

	default:
		d.sustain(p, notes, velocity, velocity)
	}
}

func (d *dispatcher) playBass(p *performance, pitch int, s Settings) {
	if s.Bass == BassSingle {
		d.bass.Short(pitch, bassVelocity, s.beat()/2)
		return
	}
	d.bassHeld[pitch]++
	p.bass = append(p.bass, pitch)
	d.bass.NotesOn([]int{pitch}, bassVelocity)
}

// sustain starts pitches that ring until the chord is released. The
// external output gets mirror as its velocity.
func (d *dispatcher) sustain(p *performance, pitches []int, velocity, mirror float64) {
	for _, n := range pitches {
		d.held[n]++
		p.sustained = append(p.sustained, n)
	}
	d.chord.NotesOn(pitches, velocity)
	vel := MIDIVelocity(mirror)
	for _, n := range pitches {
		d.out.NoteOn(n, vel)
	}
}

// short plays a self-releasing note; the external note-off follows after ext.
func (d *dispatcher) short(p *performance, pitch int, velocity float64, length, ext time.Duration) {
	d.chord.Short(pitch, velocity, length)
	d.out.NoteOn(pitch, MIDIVelocity(velocity))

	var off *task
	off = d.after(nil, ext, func() {
		delete(p.extOffs, off)
		d.out.NoteOff(pitch)
	})
	p.extOffs[off] = pitch
}

// release stops everything the chord under key started. Pitches still held
// by another chord keep sounding.
func (d *dispatcher) release(key int) {
	p, ok := d.perfs[key]
	if !ok {
		return
	}
	delete(d.perfs, key)

	if d.arp != nil && d.arp.perf == p {
		d.stopArp()
	}
	for _, t := range p.tasks {
		t.cancel()
	}
	for t, pitch := range p.extOffs {
		t.cancel()
		d.out.NoteOff(pitch)
	}

	var off []int
	for _, n := range p.sustained {
		d.held[n]--
		if d.held[n] <= 0 {
			delete(d.held, n)
			off = append(off, n)
		}
	}
	if len(off) > 0 {
		d.chord.NotesOff(off)
		for _, n := range off {
			d.out.NoteOff(n)
		}
	}

	var bassOff []int
	for _, n := range p.bass {
		d.bassHeld[n]--
		if d.bassHeld[n] <= 0 {
			delete(d.bassHeld, n)
			bassOff = append(bassOff, n)
		}
	}
	if len(bassOff) > 0 {
		d.bass.NotesOff(bassOff)
	}
	debug.Log("engine", "release key=%d off=%v bass=%v", key, off, bassOff)
}

// changeMode stops an arpeggio that no longer matches the perform mode.
func (d *dispatcher) changeMode(mode PerformMode) {
	if d.arp != nil && d.arp.mode != mode {
		d.stopArp()
	}
}

// silence cancels everything and releases both voices.
func (d *dispatcher) silence() {
	d.stopArp()
	for key := range d.perfs {
		d.release(key)
	}
	d.chord.ReleaseAll()
	d.bass.ReleaseAll()
	d.held = make(map[int]int)
	d.bassHeld = make(map[int]int)
}
