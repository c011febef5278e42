// Package fx is the master effects chain applied to the mixed synth output.
package fx

import (
	"fmt"
	"strings"
	"sync"
)

// Effect names one stage of the chain.
type Effect int

const (
	Reverb Effect = iota
	Delay
	Chorus
	Drive

	numEffects
)

// Effects lists every effect in display order.
var Effects = []Effect{Reverb, Delay, Chorus, Drive}

// order is the signal path: drive first, reverb last.
var order = [numEffects]Effect{Drive, Chorus, Delay, Reverb}

func (e Effect) String() string {
	switch e {
	case Reverb:
		return "reverb"
	case Delay:
		return "delay"
	case Chorus:
		return "chorus"
	case Drive:
		return "drive"
	}
	return "unknown"
}

func ParseEffect(s string) (Effect, error) {
	for _, e := range Effects {
		if strings.EqualFold(s, e.String()) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown effect %q", s)
}

type stage interface {
	process(x float64) float64
	reset()
}

// Chain runs the enabled effects over a mono buffer. Each stage blends its
// output with its input by a wet level in [0, 1]. A stage at zero is
// skipped and its state cleared.
type Chain struct {
	mu     sync.Mutex
	wet    [numEffects]float64
	stages [numEffects]stage
}

func NewChain(sampleRate int) *Chain {
	rate := float64(sampleRate)
	c := &Chain{}
	c.stages[Drive] = newDrive()
	c.stages[Chorus] = newChorus(rate)
	c.stages[Delay] = newDelay(rate)
	c.stages[Reverb] = newReverb(rate)
	return c
}

// SetWet sets the wet level of e, clamped to [0, 1].
func (c *Chain) SetWet(e Effect, level float64) {
	if e < 0 || e >= numEffects {
		return
	}
	level = clamp(level, 0, 1)

	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.wet[e]
	c.wet[e] = level
	if prev > 0 && level == 0 {
		c.stages[e].reset()
	}
}

func (c *Chain) Wet(e Effect) float64 {
	if e < 0 || e >= numEffects {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wet[e]
}

// Process applies the chain to buf in place. With every level at zero buf
// is left untouched.
func (c *Chain) Process(buf []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bypassed() {
		return
	}
	for i, v := range buf {
		x := float64(v)
		for _, e := range order {
			w := c.wet[e]
			if w == 0 {
				continue
			}
			x = (1-w)*x + w*c.stages[e].process(x)
		}
		buf[i] = float32(x)
	}
}

func (c *Chain) bypassed() bool {
	for _, w := range c.wet {
		if w > 0 {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
