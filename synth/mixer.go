package synth

import (
	"encoding/binary"
	"math"
	"sync"

	"go-violet/synth/fx"
)

// Mixer sums several synths into one mono float32 little-endian stream.
type Mixer struct {
	mu      sync.Mutex
	sources []*Synth
	effects *fx.Chain
	buf     []float32
}

func NewMixer(sources ...*Synth) *Mixer {
	return &Mixer{sources: sources, buf: make([]float32, 1024)}
}

// SetEffects routes the mix through c before it is clipped.
func (m *Mixer) SetEffects(c *fx.Chain) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.effects = c
}

// Read implements io.Reader for an audio player.
func (m *Mixer) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(p) / 4
	if len(m.buf) < n {
		m.buf = make([]float32, n)
	}
	samples := m.buf[:n]
	m.Mix(samples)

	for i, v := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return n * 4, nil
}

// Mix renders every source into out, applies effects and clips to [-1, 1].
func (m *Mixer) Mix(out []float32) {
	for i := range out {
		out[i] = 0
	}
	for _, s := range m.sources {
		s.Render(out)
	}
	if m.effects != nil {
		m.effects.Process(out)
	}
	for i, v := range out {
		if v > 1 {
			out[i] = 1
		} else if v < -1 {
			out[i] = -1
		}
	}
}
