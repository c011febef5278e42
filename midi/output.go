package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-violet/debug"
)

// Output mirrors notes to an external MIDI port. With no port selected,
// or when sending fails, notes are dropped silently.
type Output struct {
	mu       sync.RWMutex
	portName string
	channel  uint8
	port     drivers.Out
	send     func(gomidi.Message) error

	// open finds a port by name
	open func(name string) (drivers.Out, error)
}

// NewOutput creates an output on a zero-based MIDI channel
func NewOutput(channel uint8) *Output {
	return &Output{channel: channel & 0x0f, open: findOutPort}
}

func findOutPort(name string) (drivers.Out, error) {
	ports, err := scanPorts()
	if err != nil {
		return nil, err
	}
	for _, port := range ports.outPorts {
		if port.String() == name {
			return port, nil
		}
	}
	return nil, fmt.Errorf("output port %q not found", name)
}

// SetPort switches to the named port, closing the previous one. An empty
// name disconnects.
func (o *Output) SetPort(name string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.closeLocked()
	if name == "" {
		return nil
	}

	port, err := o.open(name)
	if err != nil {
		return fmt.Errorf("midi out: %w", err)
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		port.Close()
		return fmt.Errorf("midi out %s: %w", name, err)
	}
	o.portName = name
	o.port = port
	o.send = send
	debug.Log("midi", "output %s ch=%d", name, o.channel+1)
	return nil
}

// Close releases the current port.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closeLocked()
}

func (o *Output) closeLocked() error {
	port := o.port
	o.portName = ""
	o.port = nil
	o.send = nil
	if port == nil {
		return nil
	}
	if err := port.Close(); err != nil {
		debug.Log("midi", "close output %s: %v", port.String(), err)
		return err
	}
	return nil
}

// Port returns the connected port name ("" if none)
func (o *Output) Port() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.portName
}

func (o *Output) NoteOn(pitch int, velocity uint8) {
	if pitch < 0 || pitch > 127 {
		return
	}
	o.write(gomidi.NoteOn(o.channel, uint8(pitch), velocity))
}

func (o *Output) NoteOff(pitch int) {
	if pitch < 0 || pitch > 127 {
		return
	}
	o.write(gomidi.NoteOff(o.channel, uint8(pitch)))
}

func (o *Output) write(msg gomidi.Message) {
	o.mu.RLock()
	send := o.send
	o.mu.RUnlock()
	if send == nil {
		return
	}
	if err := send(msg); err != nil {
		debug.LogEvery(50, "midi", "send failed: %v", err)
	}
}
