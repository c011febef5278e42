package midi

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

func TestParseNote(t *testing.T) {
	tests := []struct {
		name string
		msg  gomidi.Message
		want NoteEvent
		ok   bool
	}{
		{"note on", gomidi.NoteOn(0, 60, 100), NoteEvent{Type: NoteOn, Note: 60, Velocity: 100, Device: "kb"}, true},
		{"note off", gomidi.NoteOff(2, 61), NoteEvent{Type: NoteOff, Channel: 2, Note: 61, Device: "kb"}, true},
		{"zero velocity is off", gomidi.NoteOn(0, 62, 0), NoteEvent{Type: NoteOff, Note: 62, Device: "kb"}, true},
		{"control change ignored", gomidi.ControlChange(0, 1, 64), NoteEvent{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNote(tt.msg, "kb")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNoteEventLevel(t *testing.T) {
	assert.InDelta(t, 1.0, NoteEvent{Type: NoteOn, Velocity: 127}.Level(), 1e-9)
	assert.True(t, NoteEvent{Type: NoteOn}.On())
	assert.False(t, NoteEvent{Type: NoteOff}.On())
}

func TestKeyboardControllerForwardsNotes(t *testing.T) {
	kb, err := NewKeyboardController("kb", nil)
	require.NoError(t, err)

	kb.handle(gomidi.NoteOn(0, 60, 90))
	kb.handle(gomidi.Pitchbend(0, 100))
	kb.handle(gomidi.NoteOff(0, 60))

	assert.Equal(t, NoteEvent{Type: NoteOn, Note: 60, Velocity: 90, Device: "kb"}, <-kb.NoteEvents())
	assert.Equal(t, NoteEvent{Type: NoteOff, Note: 60, Device: "kb"}, <-kb.NoteEvents())
	require.NoError(t, kb.Close())
	_, open := <-kb.NoteEvents()
	assert.False(t, open)
}

func TestKeyboardControllerKeepsNoteOffs(t *testing.T) {
	kb, err := NewKeyboardController("kb", nil)
	require.NoError(t, err)
	size := cap(kb.noteChan)
	for i := 0; i < size; i++ {
		kb.handle(gomidi.NoteOn(0, uint8(i), 90))
	}
	kb.handle(gomidi.NoteOn(0, 100, 90)) // buffer full, dropped

	sent := make(chan struct{})
	go func() {
		kb.handle(gomidi.NoteOff(0, 5))
		close(sent)
	}()
	select {
	case <-sent:
		t.Fatal("note-off should wait for room")
	case <-time.After(20 * time.Millisecond):
	}

	var got []NoteEvent
	for i := 0; i <= size; i++ {
		got = append(got, <-kb.NoteEvents())
	}
	<-sent
	assert.Equal(t, NoteEvent{Type: NoteOff, Note: 5, Device: "kb"}, got[size])
	for _, evt := range got[:size] {
		assert.NotEqual(t, uint8(100), evt.Note)
	}
	require.NoError(t, kb.Close())

	t.Run("close releases a waiting note-off", func(t *testing.T) {
		kb, err := NewKeyboardController("kb", nil)
		require.NoError(t, err)
		for i := 0; i < size; i++ {
			kb.handle(gomidi.NoteOn(0, uint8(i), 90))
		}
		sent := make(chan struct{})
		go func() {
			kb.handle(gomidi.NoteOff(0, 1))
			close(sent)
		}()
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, kb.Close())
		select {
		case <-sent:
		case <-time.After(time.Second):
			t.Fatal("handle still blocked after Close")
		}
		kb.handle(gomidi.NoteOff(0, 2)) // after close, ignored
		require.NoError(t, kb.Close())
	})
}

func TestDeviceFilter(t *testing.T) {
	f := DeviceFilter{Exclude: []string{"Midi Through"}}
	assert.True(t, f.Accepts("Arturia KeyStep 32"))
	assert.False(t, f.Accepts("Midi Through Port-0"))

	f.Only = "keystep"
	assert.True(t, f.Accepts("Arturia KeyStep 32"))
	assert.False(t, f.Accepts("nanoKEY2"))
}

// fakeOut is an output port that records what it is sent.
type fakeOut struct {
	name   string
	open   bool
	closed int
	sent   []gomidi.Message
}

func (p *fakeOut) Open() error {
	p.open = true
	return nil
}

func (p *fakeOut) IsOpen() bool            { return p.open }
func (p *fakeOut) Number() int             { return 0 }
func (p *fakeOut) String() string          { return p.name }
func (p *fakeOut) Underlying() interface{} { return nil }

func (p *fakeOut) Close() error {
	p.open = false
	p.closed++
	return nil
}

func (p *fakeOut) Send(data []byte) error {
	p.sent = append(p.sent, gomidi.Message(append([]byte(nil), data...)))
	return nil
}

func TestOutput(t *testing.T) {
	ports := map[string]*fakeOut{
		"Synth": {name: "Synth"},
		"Drums": {name: "Drums"},
	}
	o := NewOutput(9)
	o.open = func(name string) (drivers.Out, error) {
		p, ok := ports[name]
		if !ok {
			return nil, errors.New("not found")
		}
		return p, nil
	}
	synthPort := ports["Synth"]

	o.NoteOn(60, 100)
	assert.Empty(t, synthPort.sent, "no port selected")

	require.NoError(t, o.SetPort("Synth"))
	assert.Equal(t, "Synth", o.Port())
	assert.True(t, synthPort.IsOpen())
	o.NoteOn(60, 100)
	o.NoteOff(60)
	o.NoteOn(200, 100)
	require.Len(t, synthPort.sent, 2)

	var ch, key, vel uint8
	require.True(t, synthPort.sent[0].GetNoteOn(&ch, &key, &vel))
	assert.Equal(t, []uint8{9, 60, 100}, []uint8{ch, key, vel})
	assert.True(t, synthPort.sent[1].GetNoteEnd(&ch, &key))

	t.Run("switching closes the old port", func(t *testing.T) {
		require.NoError(t, o.SetPort("Drums"))
		assert.Equal(t, 1, synthPort.closed)
		o.NoteOn(62, 1)
		assert.Len(t, synthPort.sent, 2)
		assert.Len(t, ports["Drums"].sent, 1)
	})

	t.Run("empty name disconnects", func(t *testing.T) {
		require.NoError(t, o.SetPort(""))
		assert.Equal(t, 1, ports["Drums"].closed)
		assert.False(t, ports["Drums"].IsOpen())
		assert.Equal(t, "", o.Port())
	})

	t.Run("missing port", func(t *testing.T) {
		require.NoError(t, o.SetPort("Synth"))
		assert.Error(t, o.SetPort("Missing"))
		assert.Equal(t, 2, synthPort.closed, "old port closed before the lookup")
		assert.Equal(t, "", o.Port())
		o.NoteOn(61, 1)
		assert.Len(t, synthPort.sent, 2)
	})

	require.NoError(t, o.Close())
}
