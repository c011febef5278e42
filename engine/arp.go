package engine

import (
	"time"

	"go-violet/debug"
)

// Cursor walks an arpeggio. The zero value is not ready; use NewCursor.
type Cursor struct {
	Index     int
	Direction int
}

func NewCursor() Cursor {
	return Cursor{Index: 0, Direction: 1}
}

// Advance moves the cursor over a list of n notes. Up and Down wrap;
// UpDown bounces at both ends without repeating an endpoint.
func (c *Cursor) Advance(mode PerformMode, n int) {
	if n <= 1 {
		c.Index = 0
		return
	}
	switch mode {
	case PerformArpDown:
		c.Index--
		if c.Index < 0 {
			c.Index = n - 1
		}
	case PerformArpUpDown:
		c.Index += c.Direction
		if c.Index >= n-1 {
			c.Index = n - 1
			c.Direction = -1
		} else if c.Index <= 0 {
			c.Index = 0
			c.Direction = 1
		}
	default:
		c.Index = (c.Index + 1) % n
	}
}

// arpeggiator is the single running arpeggio. It belongs to the chord that
// started it and is stopped with that chord.
type arpeggiator struct {
	perf     *performance
	notes    []int
	velocity float64
	mode     PerformMode
	cursor   Cursor
	interval time.Duration
	length   time.Duration
	next     *task
}

// arpGate is the fraction of a step an external arp note is held.
const arpGate = 0.9

func (d *dispatcher) startArp(p *performance, notes []int, velocity float64, s Settings) {
	d.stopArp()

	beat := s.beat()
	a := &arpeggiator{
		perf:     p,
		notes:    notes,
		velocity: velocity,
		mode:     s.Perform,
		cursor:   NewCursor(),
		interval: beat / 2,
		length:   beat / 4,
	}
	d.arp = a
	debug.Log("arp", "start key=%d mode=%s interval=%s notes=%v", p.key, a.mode, a.interval, notes)

	d.arpStep(a)
	d.scheduleArp(a)
}

func (d *dispatcher) scheduleArp(a *arpeggiator) {
	a.next = d.after(nil, a.interval, func() {
		if d.arp != a {
			return
		}
		d.arpStep(a)
		d.scheduleArp(a)
	})
}

func (d *dispatcher) arpStep(a *arpeggiator) {
	if len(a.notes) == 0 {
		return
	}
	pitch := a.notes[a.cursor.Index]
	d.short(a.perf, pitch, a.velocity, a.length, time.Duration(float64(a.interval)*arpGate))
	a.cursor.Advance(a.mode, len(a.notes))
}

func (d *dispatcher) stopArp() {
	if d.arp == nil {
		return
	}
	if d.arp.next != nil {
		d.arp.next.cancel()
	}
	debug.Log("arp", "stop key=%d", d.arp.perf.key)
	d.arp = nil
}
