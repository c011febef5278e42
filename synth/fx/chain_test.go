package fx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = 1000

func sine(n int, amp float64) []float32 {
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = float32(amp * math.Sin(2*math.Pi*110*float64(i)/testRate))
	}
	return buf
}

func impulse(n int) []float32 {
	buf := make([]float32, n)
	buf[0] = 1
	return buf
}

func TestChainDryIsUntouched(t *testing.T) {
	c := NewChain(testRate)
	in := sine(512, 0.5)
	out := append([]float32(nil), in...)
	c.Process(out)
	assert.Equal(t, in, out)

	t.Run("back to zero", func(t *testing.T) {
		c.SetWet(Delay, 1)
		c.Process(impulse(16))
		c.SetWet(Delay, 0)
		out := append([]float32(nil), in...)
		c.Process(out)
		assert.Equal(t, in, out)
	})
}

func TestChainWetChangesSignal(t *testing.T) {
	for _, e := range Effects {
		t.Run(e.String(), func(t *testing.T) {
			c := NewChain(testRate)
			c.SetWet(e, 0.5)
			in := sine(1024, 0.5)
			out := append([]float32(nil), in...)
			c.Process(out)
			assert.NotEqual(t, in, out)
		})
	}
}

func TestSetWetClamps(t *testing.T) {
	c := NewChain(testRate)
	c.SetWet(Reverb, 2)
	assert.Equal(t, 1.0, c.Wet(Reverb))
	c.SetWet(Reverb, -1)
	assert.Equal(t, 0.0, c.Wet(Reverb))
	c.SetWet(Effect(42), 1)
	assert.Equal(t, 0.0, c.Wet(Effect(42)))
}

func TestDriveStaysBounded(t *testing.T) {
	c := NewChain(testRate)
	c.SetWet(Drive, 1)
	buf := sine(512, 1)
	c.Process(buf)
	for _, v := range buf {
		assert.LessOrEqual(t, math.Abs(float64(v)), 1.0+1e-6)
	}
	assert.Greater(t, float64(buf[1]), 0.5*math.Sin(2*math.Pi*110/testRate), "small signals are pushed up")
}

func TestDelayEcho(t *testing.T) {
	c := NewChain(testRate)
	c.SetWet(Delay, 1)
	buf := impulse(800)
	c.Process(buf)

	n := int(delayTime * testRate)
	for i := 0; i < n; i++ {
		require.Zero(t, buf[i], "sample %d", i)
	}
	assert.InDelta(t, 1, buf[n], 0.01)
	assert.InDelta(t, delayFeedback, buf[2*n], 0.01, "second repeat is fed back")
}

func TestReverbTail(t *testing.T) {
	c := NewChain(testRate)
	c.SetWet(Reverb, 1)
	buf := impulse(2000)
	c.Process(buf)

	var early, late float64
	for _, v := range buf[100:300] {
		early = math.Max(early, math.Abs(float64(v)))
	}
	for _, v := range buf[1800:] {
		late = math.Max(late, math.Abs(float64(v)))
	}
	assert.Greater(t, early, 0.0)
	assert.Less(t, late, early, "the tail decays")
}

func TestParseEffect(t *testing.T) {
	e, err := ParseEffect("Chorus")
	require.NoError(t, err)
	assert.Equal(t, Chorus, e)
	_, err = ParseEffect("flanger")
	assert.Error(t, err)
}
