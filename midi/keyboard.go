package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-violet/debug"
)

// KeyboardController handles a standard MIDI keyboard
type KeyboardController struct {
	id       string
	inPort   drivers.In
	stopFunc func()

	mu        sync.RWMutex
	closed    bool
	done      chan struct{}
	closeOnce sync.Once
	noteChan  chan NoteEvent
}

// NewKeyboardController creates a keyboard controller (input only)
func NewKeyboardController(id string, inPort drivers.In) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:       id,
		inPort:   inPort,
		done:     make(chan struct{}),
		noteChan: make(chan NoteEvent, 64),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			kb.handle(msg)
		}, gomidi.HandleError(func(err error) {
			debug.Log("midi", "listener error device=%s: %v", id, err)
		}))
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		kb.stopFunc = stop
	}

	return kb, nil
}

// handle queues a note event. Note-ons are dropped when the buffer is full,
// but a note-off waits for room so no chord is left hanging.
func (kb *KeyboardController) handle(msg gomidi.Message) {
	evt, ok := ParseNote(msg, kb.id)
	if !ok {
		return
	}

	kb.mu.RLock()
	defer kb.mu.RUnlock()
	if kb.closed {
		return
	}
	if !evt.On() {
		select {
		case kb.noteChan <- evt:
		case <-kb.done:
		}
		return
	}
	select {
	case kb.noteChan <- evt:
	default:
		debug.Log("midi", "dropped %s note=%d", kb.id, evt.Note)
	}
}

func (kb *KeyboardController) ID() string {
	return kb.id
}

func (kb *KeyboardController) Type() ControllerType {
	return ControllerKeyboard
}

func (kb *KeyboardController) NoteEvents() <-chan NoteEvent {
	return kb.noteChan
}

// Close stops listening and closes the event channel. A note-off still
// waiting for room is abandoned.
func (kb *KeyboardController) Close() error {
	kb.closeOnce.Do(func() {
		close(kb.done)
		if kb.stopFunc != nil {
			kb.stopFunc()
		}
		kb.mu.Lock()
		kb.closed = true
		close(kb.noteChan)
		kb.mu.Unlock()
	})
	return nil
}
