package mapping

import (
	"errors"
	"fmt"
	"sync"

	"go-violet/debug"
	"go-violet/theory"
)

var (
	// ErrNoteInUse is returned when learning a note another action owns.
	ErrNoteInUse = errors.New("note already mapped")
	ErrNoLearn   = errors.New("no learn session")
)

// Mapping binds a control note to an action. An empty Device matches any
// device.
type Mapping struct {
	Note   int    `json:"note"`
	Action Action `json:"action"`
	Device string `json:"deviceId,omitempty"`
}

// Label renders the note as "C#4 (61)".
func (m Mapping) Label() string {
	return theory.NoteLabel(m.Note)
}

// matches reports whether m answers for note on device. A device scope only
// excludes when both sides name a device.
func (m Mapping) matches(note int, device string) bool {
	if m.Note != note {
		return false
	}
	return m.Device == "" || device == "" || m.Device == device
}

// Table is the persisted mapping configuration.
type Table struct {
	Mappings []Mapping `json:"mappings"`
	Enabled  bool      `json:"enabled"`
}

func DefaultTable() Table {
	return Table{Mappings: []Mapping{}, Enabled: true}
}

func (t Table) clone() Table {
	t.Mappings = append([]Mapping{}, t.Mappings...)
	return t
}

// Mapper owns the mapping table and the learn session.
type Mapper struct {
	mu       sync.RWMutex
	table    Table
	learning Action
	store    Store
}

// NewMapper loads the table from store. A nil store keeps the table in
// memory; a failing store falls back to the default table.
func NewMapper(store Store) *Mapper {
	m := &Mapper{table: DefaultTable(), store: store}
	if store == nil {
		return m
	}
	t, err := store.Load()
	if err != nil {
		debug.Log("mapping", "load failed, using defaults: %v", err)
		return m
	}
	if t.Mappings == nil {
		t.Mappings = []Mapping{}
	}
	m.table = t
	debug.Log("mapping", "loaded %d mappings enabled=%v", len(t.Mappings), t.Enabled)
	return m
}

// StartLearn makes the next control note map to a.
func (m *Mapper) StartLearn(a Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !a.Valid() {
		return
	}
	m.learning = a
	debug.Log("mapping", "learn %s", a)
}

func (m *Mapper) CancelLearn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.learning = ActionNone
}

// Learning returns the action being learned, or ActionNone.
func (m *Mapper) Learning() Action {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.learning
}

// ProcessForLearn binds note to the action being learned. It reports
// whether the note was consumed. A note owned by another action is consumed
// but rejected with ErrNoteInUse and the session stays open.
func (m *Mapper) ProcessForLearn(note int, device string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.learning == ActionNone {
		return false, nil
	}
	for _, mp := range m.table.Mappings {
		if mp.Action != m.learning && mp.matches(note, device) {
			return true, fmt.Errorf("%w: %s is %s", ErrNoteInUse, theory.NoteLabel(note), mp.Action)
		}
	}

	m.removeLocked(m.learning)
	m.table.Mappings = append(m.table.Mappings, Mapping{Note: note, Action: m.learning, Device: device})
	debug.Log("mapping", "learned %s -> %s device=%q", theory.NoteLabel(note), m.learning, device)
	m.learning = ActionNone
	m.saveLocked()
	return true, nil
}

// Lookup returns the action mapped to note, or ActionNone when nothing
// matches or mappings are disabled.
func (m *Mapper) Lookup(note int, device string) Action {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.table.Enabled {
		return ActionNone
	}
	for _, mp := range m.table.Mappings {
		if mp.matches(note, device) {
			return mp.Action
		}
	}
	return ActionNone
}

// Remove deletes the mapping for a.
func (m *Mapper) Remove(a Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeLocked(a) {
		m.saveLocked()
	}
}

func (m *Mapper) removeLocked(a Action) bool {
	kept := m.table.Mappings[:0]
	removed := false
	for _, mp := range m.table.Mappings {
		if mp.Action == a {
			removed = true
			continue
		}
		kept = append(kept, mp)
	}
	m.table.Mappings = kept
	return removed
}

// ClearAll deletes every mapping.
func (m *Mapper) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table.Mappings = []Mapping{}
	m.saveLocked()
}

func (m *Mapper) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table.Enabled = enabled
	m.saveLocked()
}

func (m *Mapper) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.table.Enabled
}

// MappingFor returns the mapping for a, if any.
func (m *Mapper) MappingFor(a Action) (Mapping, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, mp := range m.table.Mappings {
		if mp.Action == a {
			return mp, true
		}
	}
	return Mapping{}, false
}

// Table returns a copy of the current table.
func (m *Mapper) Table() Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.table.clone()
}

func (m *Mapper) saveLocked() {
	if m.store == nil {
		return
	}
	if err := m.store.Save(m.table.clone()); err != nil {
		debug.Log("mapping", "save failed: %v", err)
	}
}
