//go:build headless

package synth

// Output is silent in headless builds.
type Output struct {
	started bool
}

func OpenOutput(sampleRate int, mix *Mixer) (*Output, error) {
	return &Output{}, nil
}

func (o *Output) Start() {
	o.started = true
}

func (o *Output) Close() error {
	o.started = false
	return nil
}

func (o *Output) IsStarted() bool {
	return o.started
}
