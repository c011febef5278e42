package instrument

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go-violet/debug"
	"go-violet/engine"
	"go-violet/mapping"
	"go-violet/midi"
	"go-violet/synth/fx"
	"go-violet/theory"
)

// DefaultVelocity is used for computer keyboard triggers.
const DefaultVelocity = 0.8

// ComputerKeyboard is the device name held keys from the terminal carry.
const ComputerKeyboard = "computer"

// VolumeControl scales a synth's output gain.
type VolumeControl interface {
	SetVolume(v float64)
}

// EffectControl sets the wet level of a master effect.
type EffectControl interface {
	SetWet(e fx.Effect, level float64)
}

// PortSelector switches the external MIDI output port.
type PortSelector interface {
	SetPort(name string) error
	Port() string
}

// State is a snapshot for the UI.
type State struct {
	Settings        Settings
	Display         engine.Display
	Held            []int
	Learning        mapping.Action
	MappingsEnabled bool
	Mappings        []mapping.Mapping
	Devices         []string
	OutputPort      string
	Notice          string
	Arpeggiating    bool
}

// Manager routes note input through learn, mappings and the held-key set
// into the engine.
type Manager struct {
	mu       sync.Mutex
	settings Settings
	held     *HeldSet
	controls *mapping.Controls
	mapper   *mapping.Mapper
	engine   *engine.Engine
	volumes  []VolumeControl
	effects  EffectControl
	output   PortSelector
	display  engine.Display
	notice   string
	devices  map[string]bool

	// Notify TUI of updates
	UpdateChan chan struct{}
}

type Option func(*Manager)

// WithVolume registers synths that follow the master volume.
func WithVolume(v ...VolumeControl) Option {
	return func(m *Manager) {
		m.volumes = append(m.volumes, v...)
	}
}

// WithEffects registers the effects chain that follows the effect levels.
func WithEffects(e EffectControl) Option {
	return func(m *Manager) {
		m.effects = e
	}
}

// WithPorts enables output port selection.
func WithPorts(p PortSelector) Option {
	return func(m *Manager) {
		m.output = p
	}
}

func NewManager(eng *engine.Engine, mapper *mapping.Mapper, settings Settings, opts ...Option) *Manager {
	m := &Manager{
		settings:   settings,
		held:       NewHeldSet(),
		mapper:     mapper,
		engine:     eng,
		display:    eng.Snapshot(),
		devices:    make(map[string]bool),
		UpdateChan: make(chan struct{}, 1),
	}
	m.controls = mapping.NewControls(&m.settings)
	for _, opt := range opts {
		opt(m)
	}
	m.applyVolume()
	m.applyEffects()
	return m
}

// notifyUpdate sends a non-blocking update signal to the TUI
func (m *Manager) notifyUpdate() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}

// NoteOn handles a MIDI note-on. A learn session consumes the note first,
// then a mapped control, otherwise it triggers a chord.
func (m *Manager) NoteOn(note int, velocity float64, device string) {
	m.mu.Lock()
	defer m.notifyUpdate()
	defer m.mu.Unlock()

	consumed, err := m.mapper.ProcessForLearn(note, device)
	switch {
	case errors.Is(err, mapping.ErrNoteInUse):
		m.notice = err.Error()
		return
	case err != nil:
		m.notice = fmt.Sprintf("learn failed: %v", err)
		return
	case consumed:
		m.notice = "learned " + theory.NoteLabel(note)
		return
	}

	if a := m.mapper.Lookup(note, device); a != mapping.ActionNone {
		m.controls.Execute(a, true)
		debug.Log("input", "control %s on note=%d", a, note)
		return
	}
	m.triggerLocked(note, velocity, device)
}

// NoteOff handles a MIDI note-off. A note still sounding a chord releases
// it even if it was mapped since. The chord stops once every device holding
// the note has released it.
func (m *Manager) NoteOff(note int, device string) {
	m.mu.Lock()
	defer m.notifyUpdate()
	defer m.mu.Unlock()

	if !m.held.Holds(note, device) {
		if a := m.mapper.Lookup(note, device); a != mapping.ActionNone {
			m.controls.Execute(a, false)
			debug.Log("input", "control %s off note=%d", a, note)
			return
		}
	}
	m.releaseLocked(note, device)
}

// HandleNote routes an input event.
func (m *Manager) HandleNote(evt midi.NoteEvent) {
	if evt.On() {
		m.NoteOn(int(evt.Note), evt.Level(), evt.Device)
		return
	}
	m.NoteOff(int(evt.Note), evt.Device)
}

// PressKey triggers a chord from the computer keyboard. Mappings and learn
// apply only to MIDI input.
func (m *Manager) PressKey(note int) {
	m.mu.Lock()
	defer m.notifyUpdate()
	defer m.mu.Unlock()
	m.triggerLocked(note, DefaultVelocity, ComputerKeyboard)
}

func (m *Manager) ReleaseKey(note int) {
	m.mu.Lock()
	defer m.notifyUpdate()
	defer m.mu.Unlock()
	m.releaseLocked(note, ComputerKeyboard)
}

func (m *Manager) triggerLocked(note int, velocity float64, device string) {
	layered := m.held.Press(note, device, m.settings.Poly)
	m.display = m.engine.TriggerOn(note, velocity, m.settings.Snapshot(), layered)
	m.notice = ""
}

func (m *Manager) releaseLocked(note int, device string) {
	layered, last := m.held.Release(note, device, m.settings.Poly)
	if !last {
		return
	}
	m.display = m.engine.TriggerOff(note, layered)
}

// Panic silences everything and forgets held keys.
func (m *Manager) Panic() {
	m.mu.Lock()
	defer m.notifyUpdate()
	defer m.mu.Unlock()
	m.held.Clear()
	m.display = m.engine.Panic()
	debug.Log("input", "panic")
}

// State returns a snapshot for rendering.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	devices := make([]string, 0, len(m.devices))
	for d := range m.devices {
		devices = append(devices, d)
	}
	sort.Strings(devices)

	table := m.mapper.Table()
	s := State{
		Settings:        m.settings,
		Display:         m.display,
		Held:            m.held.Keys(),
		Learning:        m.mapper.Learning(),
		MappingsEnabled: table.Enabled,
		Mappings:        table.Mappings,
		Devices:         devices,
		Notice:          m.notice,
		Arpeggiating:    m.engine.Arpeggiating(),
	}
	if m.output != nil {
		s.OutputPort = m.output.Port()
	}
	return s
}

// Settings returns a copy of the current settings.
func (m *Manager) Settings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// update applies fn to the settings under the lock.
func (m *Manager) update(fn func(s *Settings)) {
	m.mu.Lock()
	fn(&m.settings)
	m.mu.Unlock()
	m.notifyUpdate()
}

// ToggleChordType selects c, or clears it when already selected.
func (m *Manager) ToggleChordType(c theory.ChordType) {
	m.update(func(s *Settings) {
		if s.ChordType == c {
			s.SetChordType(theory.ChordNone)
			return
		}
		s.SetChordType(c)
	})
}

func (m *Manager) ToggleExtension(e theory.Extension) {
	m.update(func(s *Settings) { s.ToggleExtension(e) })
}

func (m *Manager) StepVoicing(delta int) {
	m.update(func(s *Settings) { s.StepVoicing(delta) })
}

func (m *Manager) StepOctave(delta int) {
	m.update(func(s *Settings) { s.StepOctave(delta) })
}

func (m *Manager) StepBPM(delta int) {
	m.update(func(s *Settings) { s.StepBPM(delta) })
}

func (m *Manager) CycleKey(delta int) {
	m.update(func(s *Settings) { s.CycleKey(delta) })
}

func (m *Manager) CycleBass(delta int) {
	m.update(func(s *Settings) { s.CycleBass(delta) })
}

func (m *Manager) TogglePoly() {
	m.update(func(s *Settings) { s.Poly = !s.Poly })
}

// CyclePerform switches the perform mode, stopping any running arpeggio.
func (m *Manager) CyclePerform(delta int) {
	m.mu.Lock()
	m.settings.CyclePerform(delta)
	m.engine.ChangeMode(m.settings.Perform)
	m.mu.Unlock()
	m.notifyUpdate()
}

func (m *Manager) StepVolume(delta int) {
	m.mu.Lock()
	m.settings.StepVolume(delta)
	m.applyVolume()
	m.mu.Unlock()
	m.notifyUpdate()
}

func (m *Manager) applyVolume() {
	v := float64(m.settings.MasterVolume) / MaxVolume
	for _, vc := range m.volumes {
		vc.SetVolume(v)
	}
}

func (m *Manager) StepEffect(e fx.Effect, delta int) {
	m.mu.Lock()
	m.settings.StepEffect(e, delta)
	m.applyEffects()
	m.mu.Unlock()
	m.notifyUpdate()
}

func (m *Manager) applyEffects() {
	if m.effects == nil {
		return
	}
	for _, e := range fx.Effects {
		m.effects.SetWet(e, float64(m.settings.Effect(e))/MaxEffect)
	}
}

// Mapping management

func (m *Manager) StartLearn(a mapping.Action) {
	m.mapper.StartLearn(a)
	m.setNotice("learning " + a.Label())
}

func (m *Manager) CancelLearn() {
	m.mapper.CancelLearn()
	m.setNotice("")
}

func (m *Manager) RemoveMapping(a mapping.Action) {
	m.mapper.Remove(a)
	m.setNotice("removed " + a.Label())
}

func (m *Manager) ClearMappings() {
	m.mapper.ClearAll()
	m.mu.Lock()
	m.controls.Reset()
	m.mu.Unlock()
	m.setNotice("mappings cleared")
}

func (m *Manager) ToggleMappings() {
	m.mapper.SetEnabled(!m.mapper.Enabled())
	m.notifyUpdate()
}

// SetOutputPort switches the external MIDI output. Empty disconnects.
func (m *Manager) SetOutputPort(name string) error {
	if m.output == nil {
		return errors.New("no midi output")
	}
	if err := m.output.SetPort(name); err != nil {
		m.setNotice(err.Error())
		return err
	}
	m.notifyUpdate()
	return nil
}

func (m *Manager) setNotice(s string) {
	m.mu.Lock()
	m.notice = s
	m.mu.Unlock()
	m.notifyUpdate()
}

// Run consumes device events until ctx is done or events closes. Each
// connected controller feeds its notes into HandleNote.
func (m *Manager) Run(ctx context.Context, events <-chan midi.DeviceEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			switch evt.Type {
			case midi.DeviceConnected:
				m.connect(evt.ID)
				go m.midiInputLoop(evt.Controller)
			case midi.DeviceDisconnected:
				m.disconnect(evt.ID)
			}
		}
	}
}

// midiInputLoop forwards controller notes until the controller closes.
func (m *Manager) midiInputLoop(ctrl midi.Controller) {
	for evt := range ctrl.NoteEvents() {
		m.HandleNote(evt)
	}
}

func (m *Manager) connect(id string) {
	m.mu.Lock()
	m.devices[id] = true
	m.notice = "connected " + id
	m.mu.Unlock()
	m.notifyUpdate()
}

// disconnect releases every chord the device was holding.
func (m *Manager) disconnect(id string) {
	m.mu.Lock()
	delete(m.devices, id)
	for _, note := range m.held.From(id) {
		m.releaseLocked(note, id)
	}
	m.notice = "disconnected " + id
	m.mu.Unlock()
	m.notifyUpdate()
}
