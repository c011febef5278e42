package midi

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerKeyboard
)

// Controller is the interface for MIDI input devices
type Controller interface {
	ID() string
	Type() ControllerType

	// Note on/off events from the controller
	NoteEvents() <-chan NoteEvent

	// Lifecycle
	Close() error
}
