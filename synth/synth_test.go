package synth

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-violet/synth/fx"
)

const testRate = 1000

func render(s *Synth, d time.Duration) []float32 {
	buf := make([]float32, int(d.Seconds()*testRate))
	s.Render(buf)
	return buf
}

func peak(buf []float32) float64 {
	var p float64
	for _, v := range buf {
		p = math.Max(p, math.Abs(float64(v)))
	}
	return p
}

func TestNotesOnOff(t *testing.T) {
	s := New(ChordPatch, testRate)
	s.NotesOn([]int{60, 64, 67}, 1)
	assert.ElementsMatch(t, []int{60, 64, 67}, s.Held())

	assert.Greater(t, peak(render(s, 100*time.Millisecond)), 0.0)

	s.NotesOff([]int{64})
	assert.ElementsMatch(t, []int{60, 67}, s.Held())
	assert.Equal(t, 3, s.Active(), "released voice rings out")

	render(s, time.Second)
	assert.Equal(t, 2, s.Active())
}

func TestShortReleasesItself(t *testing.T) {
	s := New(ChordPatch, testRate)
	s.Short(72, 1, 50*time.Millisecond)
	require.Equal(t, []int{72}, s.Held())

	render(s, 60*time.Millisecond)
	assert.Empty(t, s.Held())

	render(s, time.Second)
	assert.Equal(t, 0, s.Active())
}

func TestRetriggerReusesVoice(t *testing.T) {
	s := New(ChordPatch, testRate)
	s.NotesOn([]int{60}, 0.5)
	s.NotesOn([]int{60}, 1)
	assert.Equal(t, 1, s.Active())
}

func TestMonoSteals(t *testing.T) {
	s := New(BassPatch, testRate)
	s.NotesOn([]int{36}, 0.8)
	s.NotesOn([]int{38}, 0.8)
	assert.Equal(t, []int{38}, s.Held())
}

func TestReleaseAll(t *testing.T) {
	s := New(ChordPatch, testRate)
	s.NotesOn([]int{60, 64}, 1)
	render(s, 10*time.Millisecond)
	s.ReleaseAll()
	assert.Empty(t, s.Held())
	render(s, time.Second)
	assert.Equal(t, 0, s.Active())
	assert.Zero(t, peak(render(s, 10*time.Millisecond)))
}

func TestVolume(t *testing.T) {
	loud := New(ChordPatch, testRate)
	quiet := New(ChordPatch, testRate)
	quiet.SetVolume(0)
	loud.NotesOn([]int{60}, 1)
	quiet.NotesOn([]int{60}, 1)
	assert.Greater(t, peak(render(loud, 50*time.Millisecond)), 0.0)
	assert.Zero(t, peak(render(quiet, 50*time.Millisecond)))
}

func TestMixerRead(t *testing.T) {
	chord := New(ChordPatch, testRate)
	bass := New(BassPatch, testRate)
	mix := NewMixer(chord, bass)

	chord.NotesOn([]int{60}, 1)
	bass.NotesOn([]int{36}, 1)

	p := make([]byte, 4*200)
	n, err := mix.Read(p)
	require.NoError(t, err)
	assert.Equal(t, len(p), n)

	var nonZero bool
	for i := 0; i < len(p); i += 4 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(p[i:]))
		assert.LessOrEqual(t, math.Abs(float64(v)), 1.0)
		if v != 0 {
			nonZero = true
		}
	}
	assert.True(t, nonZero)
}

// mixed renders a C major chord through a fresh mixer.
func mixed(chain *fx.Chain) []float32 {
	chord := New(ChordPatch, testRate)
	mix := NewMixer(chord)
	if chain != nil {
		mix.SetEffects(chain)
	}
	chord.NotesOn([]int{60, 64, 67}, 1)
	out := make([]float32, 600)
	mix.Mix(out)
	return out
}

func TestMixerEffects(t *testing.T) {
	dry := mixed(nil)

	t.Run("zero wet leaves the mix unchanged", func(t *testing.T) {
		assert.Equal(t, dry, mixed(fx.NewChain(testRate)))
	})

	for _, e := range fx.Effects {
		t.Run(e.String(), func(t *testing.T) {
			chain := fx.NewChain(testRate)
			chain.SetWet(e, 0.6)
			wet := mixed(chain)
			assert.NotEqual(t, dry, wet)
			assert.LessOrEqual(t, peak(wet), 1.0, "effects run before clipping")
		})
	}
}

func TestFrequency(t *testing.T) {
	assert.InDelta(t, 440.0, Frequency(69), 1e-9)
	assert.InDelta(t, 261.6256, Frequency(60), 1e-3)
	assert.InDelta(t, 880.0, Frequency(81), 1e-9)
}
