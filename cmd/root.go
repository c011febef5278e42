package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-violet/config"
	"go-violet/debug"
)

var (
	flagDebug   bool
	flagNoAudio bool
	flagIn      string
	flagOut     string
	flagChannel int
	flagPalette string
)

var rootCmd = &cobra.Command{
	Use:   "violet",
	Short: "Chord instrument for MIDI keyboards and the terminal",
	Long: `violet turns single notes into chords. Pick a chord type and extensions,
then play roots from a MIDI keyboard or the computer keyboard. Chords can be
strummed, arpeggiated or doubled with a bass voice, and mirrored to a MIDI output.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return play(cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "write debug.log to the config directory")

	f := rootCmd.Flags()
	f.BoolVar(&flagNoAudio, "no-audio", false, "disable the built-in synth")
	f.StringVar(&flagIn, "in", "", "only connect MIDI inputs whose name contains this")
	f.StringVar(&flagOut, "out", "", "MIDI output port to mirror notes to")
	f.IntVar(&flagChannel, "channel", 1, "MIDI output channel (1-16)")
	f.StringVar(&flagPalette, "palette", "", "GIMP .gpl palette for the UI")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// loadConfig reads the config file and environment, then applies any flags
// given on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("in") {
		cfg.MIDI.InputPort = flagIn
	}
	if flags.Changed("out") {
		cfg.MIDI.OutputPort = flagOut
	}
	if flags.Changed("channel") {
		cfg.MIDI.OutputChannel = flagChannel
	}
	if flags.Changed("palette") {
		cfg.UI.Palette = flagPalette
	}
	if flagNoAudio {
		cfg.Audio.Enabled = false
	}
	if flagDebug {
		cfg.Debug = true
	}

	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			return nil, fmt.Errorf("enable debug log: %w", err)
		}
		debug.Log("cmd", "session %s", debug.Session())
	}
	return cfg, nil
}
