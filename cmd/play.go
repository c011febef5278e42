package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-violet/config"
	"go-violet/debug"
	"go-violet/engine"
	"go-violet/instrument"
	"go-violet/mapping"
	"go-violet/midi"
	"go-violet/synth"
	"go-violet/synth/fx"
	"go-violet/theme"
	"go-violet/tui"
)

const mappingSaveDelay = 500 * time.Millisecond

// voices builds the chord and bass synths and the effects chain and, when
// enabled, starts audio. The returned status is shown in the UI.
func voices(cfg *config.Config) (chord, bass *synth.Synth, effects *fx.Chain, stop func(), status string) {
	rate := cfg.Audio.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	chord = synth.New(synth.ChordPatch, rate)
	bass = synth.New(synth.BassPatch, rate)
	effects = fx.NewChain(rate)
	stop = func() {}

	if !cfg.Audio.Enabled {
		return chord, bass, effects, stop, "audio:off"
	}
	mix := synth.NewMixer(chord, bass)
	mix.SetEffects(effects)
	out, err := synth.OpenOutput(rate, mix)
	if err != nil {
		debug.Log("synth", "audio unavailable: %v", err)
		return chord, bass, effects, stop, "audio:unavailable"
	}
	out.Start()
	return chord, bass, effects, func() { out.Close() }, "audio:on"
}

func play(cfg *config.Config) error {
	palette, err := theme.Load(cfg.UI.Palette)
	if err != nil {
		return fmt.Errorf("load palette: %w", err)
	}
	th := theme.New(palette)

	chord, bass, effects, stopAudio, audio := voices(cfg)
	defer stopAudio()

	defer midi.Close()
	midiOut := midi.NewOutput(cfg.Channel())
	defer midiOut.Close()
	if cfg.MIDI.OutputPort != "" {
		if err := midiOut.SetPort(cfg.MIDI.OutputPort); err != nil {
			debug.Log("midi", "output %q unavailable: %v", cfg.MIDI.OutputPort, err)
		}
	}

	var store mapping.Store
	if path, err := mapping.DefaultPath(); err == nil {
		ds := mapping.NewDebouncedStore(mapping.NewFileStore(path), mappingSaveDelay)
		defer func() {
			if err := ds.Flush(); err != nil {
				debug.Log("mapping", "save failed: %v", err)
			}
		}()
		store = ds
	}

	eng := engine.New(chord, bass, engine.WithOutput(midiOut))
	manager := instrument.NewManager(eng, mapping.NewMapper(store), instrument.SettingsFromConfig(cfg),
		instrument.WithVolume(chord, bass),
		instrument.WithEffects(effects),
		instrument.WithPorts(midiOut),
	)

	// Create MIDI device manager (handles hot-plug)
	deviceMgr := midi.NewDeviceManager(midi.DeviceFilter{
		Only:    cfg.MIDI.InputPort,
		Exclude: cfg.MIDI.Exclude,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)
	go manager.Run(ctx, deviceMgr.Events())

	m := tui.NewModel(manager, th)
	m.Audio = audio
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, runErr := p.Run()

	manager.Panic()
	manager.Settings().SaveTo(cfg)
	cfg.MIDI.OutputPort = midiOut.Port()
	if err := cfg.Save(); err != nil {
		debug.Log("cmd", "save config: %v", err)
	}
	return runErr
}
