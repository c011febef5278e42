//go:build !headless

package synth

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"

	"go-violet/debug"
)

// Output plays a Mixer through the system audio device.
type Output struct {
	ctx     *oto.Context
	player  *oto.Player
	started bool
	mutex   sync.Mutex
}

// OpenOutput creates the audio context. oto allows one context per process.
func OpenOutput(sampleRate int, mix *Mixer) (*Output, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	<-ready

	debug.Log("synth", "audio open rate=%d", sampleRate)
	return &Output{ctx: ctx, player: ctx.NewPlayer(mix)}, nil
}

func (o *Output) Start() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if !o.started && o.player != nil {
		o.player.Play()
		o.started = true
	}
}

func (o *Output) Close() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.started = false
	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	return err
}

func (o *Output) IsStarted() bool {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.started
}
