package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-violet/instrument"
	"go-violet/mapping"
	"go-violet/midi"
	"go-violet/synth/fx"
	"go-violet/theme"
	"go-violet/theory"
	"go-violet/widgets"
)

type panel int

const (
	panelPlay panel = iota
	panelMappings
)

type Model struct {
	Manager  *instrument.Manager
	Theme    *theme.Theme
	Audio    string // audio status line
	panel    panel
	cursor   int            // selected action in the mapping panel
	latched  map[string]int // note key -> triggered pitch
	outputs  []string
	showHelp bool
	quitting bool
}

type UpdateMsg struct{}

type PortsMsg struct {
	Outputs []string
	Err     error
}

func NewModel(manager *instrument.Manager, th *theme.Theme) Model {
	return Model{
		Manager: manager,
		Theme:   th,
		latched: make(map[string]int),
	}
}

func ListenForUpdates(manager *instrument.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

// LoadPorts scans MIDI outputs off the UI goroutine.
func LoadPorts() tea.Msg {
	p, err := midi.ListPorts()
	return PortsMsg{Outputs: p.Outputs, Err: err}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Manager),
		LoadPorts,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c", "q":
			m.quitting = true
			m.Manager.Panic()
			return m, tea.Quit
		case "tab":
			if m.panel == panelPlay {
				m.panel = panelMappings
			} else {
				m.panel = panelPlay
			}
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case " ", "space":
			m.Manager.Panic()
			m.latched = make(map[string]int)
			return m, nil
		}
		if m.panel == panelMappings {
			return m.updateMappings(key)
		}
		return m.updatePlay(key)

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)

	case PortsMsg:
		m.outputs = msg.Outputs
	}

	return m, nil
}

func (m Model) updatePlay(key string) (tea.Model, tea.Cmd) {
	if offset, ok := instrument.NoteKeys[key]; ok {
		// terminals report no key release, so note keys latch
		if note, held := m.latched[key]; held {
			delete(m.latched, key)
			m.Manager.ReleaseKey(note)
			return m, nil
		}
		note := instrument.KeyNote(m.Manager.Settings().Octave, offset)
		m.latched[key] = note
		m.Manager.PressKey(note)
		return m, nil
	}
	if c, ok := instrument.ChordKeys[key]; ok {
		m.Manager.ToggleChordType(c)
		return m, nil
	}
	if e, ok := instrument.ExtensionKeys[key]; ok {
		m.Manager.ToggleExtension(e)
		return m, nil
	}
	if e, ok := instrument.EffectKeys[strings.ToLower(key)]; ok {
		delta := instrument.EffectStep
		if key != strings.ToLower(key) {
			delta = -delta
		}
		m.Manager.StepEffect(e, delta)
		return m, nil
	}

	switch key {
	case "z":
		m.Manager.StepVoicing(-1)
	case "x":
		m.Manager.StepVoicing(1)
	case "[":
		m.Manager.StepOctave(-1)
	case "]":
		m.Manager.StepOctave(1)
	case "-":
		m.Manager.StepBPM(-instrument.BPMStep)
	case "=", "+":
		m.Manager.StepBPM(instrument.BPMStep)
	case "p":
		m.Manager.CyclePerform(1)
	case "P":
		m.Manager.CyclePerform(-1)
	case "b":
		m.Manager.CycleBass(1)
	case "k":
		m.Manager.CycleKey(1)
	case "K":
		m.Manager.CycleKey(-1)
	case "l":
		m.Manager.TogglePoly()
	case ",":
		m.Manager.StepVolume(-5)
	case ".":
		m.Manager.StepVolume(5)
	case "o":
		m.cycleOutput()
	case "O":
		return m, LoadPorts
	}
	return m, nil
}

// cycleOutput steps through none and every output port.
func (m Model) cycleOutput() {
	choices := append([]string{""}, m.outputs...)
	current := m.Manager.State().OutputPort
	next := 0
	for i, c := range choices {
		if c == current {
			next = (i + 1) % len(choices)
			break
		}
	}
	_ = m.Manager.SetOutputPort(choices[next])
}

func (m Model) updateMappings(key string) (tea.Model, tea.Cmd) {
	actions := mapping.Actions
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(actions)-1 {
			m.cursor++
		}
	case "enter":
		a := actions[m.cursor]
		if m.Manager.State().Learning == a {
			m.Manager.CancelLearn()
		} else {
			m.Manager.StartLearn(a)
		}
	case "esc":
		m.Manager.CancelLearn()
	case "backspace", "delete", "x":
		m.Manager.RemoveMapping(actions[m.cursor])
	case "C":
		m.Manager.ClearMappings()
	case "m":
		m.Manager.ToggleMappings()
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Manager.State()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	noticeStyle := lipgloss.NewStyle().
		Foreground(m.Theme.FG()).
		Background(m.Theme.Muted()).
		Padding(0, 1)

	poly := "auto"
	if st.Settings.Poly {
		poly = "on"
	}
	key := st.Settings.Key.String()
	if key == "" {
		key = "none"
	}
	header := headerStyle.Render(fmt.Sprintf("violet  %s  %3dbpm  oct:%d  key:%s  bass:%s  poly:%s  vol:%d",
		st.Settings.Perform, st.Settings.BPM, st.Settings.Octave, key, st.Settings.Bass, poly, st.Settings.MasterVolume))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n")
	out.WriteString(dimStyle.Render(m.statusLine(st)))
	out.WriteString("\n\n")

	if m.panel == panelMappings {
		out.WriteString(m.renderMappings(st))
	} else {
		out.WriteString(m.renderPlay(st))
	}

	if st.Notice != "" {
		out.WriteString("\n\n")
		out.WriteString(noticeStyle.Render(st.Notice))
	}

	out.WriteString("\n\n")
	if m.showHelp {
		out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(m.helpSections())))
	} else {
		out.WriteString(dimStyle.Render("a-j:play  1-4:chord  5-8:ext  tab:mappings  space:panic  ?:help  q:quit"))
	}
	return out.String()
}

func (m Model) statusLine(st instrument.State) string {
	in := "no midi in"
	if len(st.Devices) > 0 {
		in = "in:" + strings.Join(st.Devices, ",")
	}
	outPort := "out:none"
	if st.OutputPort != "" {
		outPort = "out:" + st.OutputPort
	}
	parts := []string{in, outPort}
	if m.Audio != "" {
		parts = append(parts, m.Audio)
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderPlay(st instrument.State) string {
	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(m.Theme.Success())
	supStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())
	onStyle := lipgloss.NewStyle().Foreground(m.Theme.Active()).Bold(true)
	offStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	var lines []string

	name := "-"
	if !st.Display.Name.IsZero() {
		name = nameStyle.Render(st.Display.Name.Base)
		if st.Display.Name.Sup != "" {
			name += supStyle.Render(st.Display.Name.Sup)
		}
	}
	lines = append(lines, name+"  "+strings.Join(theory.NoteNamesOf(st.Display.Notes), " "))

	var chords []string
	for _, c := range theory.ChordTypes {
		if c == st.Settings.ChordType {
			chords = append(chords, onStyle.Render(c.String()))
		} else {
			chords = append(chords, offStyle.Render(c.String()))
		}
	}
	var exts []string
	for _, e := range theory.Extensions {
		if st.Settings.Extensions.Has(e) {
			exts = append(exts, onStyle.Render(e.String()))
		} else {
			exts = append(exts, offStyle.Render(e.String()))
		}
	}
	lines = append(lines, fmt.Sprintf("%s   %s   voicing:%+d", strings.Join(chords, " "), strings.Join(exts, " "), st.Settings.Voicing))
	var effects []string
	for _, e := range fx.Effects {
		level := st.Settings.Effect(e)
		label := fmt.Sprintf("%s:%d", e, level)
		if level > 0 {
			effects = append(effects, onStyle.Render(label))
		} else {
			effects = append(effects, offStyle.Render(label))
		}
	}
	lines = append(lines, "fx  "+strings.Join(effects, " "))
	lines = append(lines, "")

	lit := make(map[int]bool, len(st.Display.Notes))
	for _, n := range st.Display.Notes {
		lit[n] = true
	}
	base := instrument.KeyNote(st.Settings.Octave, 0)
	lo, hi := widgets.KeyboardRange(base, st.Display.Notes)
	lines = append(lines, widgets.RenderKeyboard(m.Theme, lo, hi, lit))

	var keys []string
	for _, k := range instrument.NoteKeyOrder {
		if note, ok := m.latched[k]; ok {
			keys = append(keys, fmt.Sprintf("%c%s:%s", m.Theme.Symbols.Pressed, k, theory.NoteName(note)))
		}
	}
	if len(keys) > 0 {
		lines = append(lines, "", strings.Join(keys, " "))
	}
	if st.Arpeggiating {
		lines = append(lines, offStyle.Render("arp running"))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderMappings(st instrument.State) string {
	cursorStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor())
	learnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	byAction := make(map[mapping.Action]mapping.Mapping, len(st.Mappings))
	for _, mp := range st.Mappings {
		byAction[mp.Action] = mp
	}

	enabled := "enabled"
	if !st.MappingsEnabled {
		enabled = "disabled"
	}
	lines := []string{fmt.Sprintf("MIDI mappings (%s)", enabled)}

	for i, a := range mapping.Actions {
		marker := " "
		if i == m.cursor {
			marker = cursorStyle.Render(string(m.Theme.Symbols.Cursor))
		}
		mp, ok := byAction[a]
		state := m.Theme.Symbols.Empty
		target := dimStyle.Render("-")
		if ok {
			state = m.Theme.Symbols.Solid
			target = mp.Label()
			if mp.Device != "" {
				target += dimStyle.Render(" " + mp.Device)
			}
		}
		if st.Learning == a {
			state = m.Theme.Symbols.Learning
			target = learnStyle.Render("press a note...")
		}
		lines = append(lines, fmt.Sprintf("%s %c %-16s %s", marker, state, a.Label(), target))
	}
	return strings.Join(lines, "\n")
}

func (m Model) helpSections() []widgets.KeySection {
	return []widgets.KeySection{
		{Title: "Play", Keys: []widgets.KeyBinding{
			{Key: "a w s ... j", Desc: "latch chord on semitone"},
			{Key: "1-4", Desc: "dim / min / maj / sus"},
			{Key: "5-8", Desc: "6 / m7 / M7 / 9"},
			{Key: "z x", Desc: "voicing down / up"},
			{Key: "[ ]", Desc: "octave down / up"},
			{Key: "- =", Desc: "bpm down / up"},
			{Key: "p P", Desc: "perform mode"},
			{Key: "b", Desc: "bass mode"},
			{Key: "k K", Desc: "key mode"},
			{Key: "l", Desc: "layered on / auto"},
			{Key: ", .", Desc: "volume"},
			{Key: "o O", Desc: "next output port / rescan"},
			{Key: "space", Desc: "panic"},
		}},
		{Title: "Effects", Keys: []widgets.KeyBinding{
			{Key: "r R", Desc: "reverb up / down"},
			{Key: "v V", Desc: "delay up / down"},
			{Key: "c C", Desc: "chorus up / down"},
			{Key: "n N", Desc: "drive up / down"},
		}},
		{Title: "Mappings", Keys: []widgets.KeyBinding{
			{Key: "up down", Desc: "select action"},
			{Key: "enter", Desc: "learn / cancel"},
			{Key: "x", Desc: "remove mapping"},
			{Key: "C", Desc: "clear all"},
			{Key: "m", Desc: "enable / disable"},
		}},
	}
}
