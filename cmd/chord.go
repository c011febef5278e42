package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"go-violet/config"
	"go-violet/engine"
	"go-violet/instrument"
	"go-violet/synth"
	"go-violet/synth/fx"
	"go-violet/theory"
)

var (
	chordType    string
	chordExts    []string
	chordVoicing int
	chordKey     string
	chordMode    string
	chordPlay    time.Duration
)

func init() {
	rootCmd.AddCommand(chordCmd)

	f := chordCmd.Flags()
	f.StringVarP(&chordType, "type", "t", "maj", "chord type: dim, min, maj, sus or none")
	f.StringSliceVarP(&chordExts, "ext", "e", nil, "extensions: 6, m7, M7, 9")
	f.IntVarP(&chordVoicing, "voicing", "v", 0, "voicing steps (-12 to 12)")
	f.StringVarP(&chordKey, "key", "k", "", `snap the root to a key, e.g. "D-min"`)
	f.StringVar(&chordMode, "mode", "chord", "perform mode used with --play")
	f.DurationVar(&chordPlay, "play", 0, "sound the chord for this long")
}

var chordCmd = &cobra.Command{
	Use:   "chord <note>",
	Short: "Print the chord a note would play",
	Long: `Print the chord generated for a root note. The note is a MIDI number or a
name such as C4 or Eb3.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := chordSettings()
		if err != nil {
			return err
		}
		note, err := theory.ParseNote(args[0])
		if err != nil {
			return err
		}

		root := theory.Quantize(note, s.Key)
		notes := theory.Generate(root, s.ChordType, s.Extensions, s.Voicing)
		fmt.Fprintln(cmd.OutOrStdout(), formatChord(theory.Name(root, s.ChordType, s.Extensions), notes))

		if chordPlay <= 0 {
			return nil
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg.Audio.Enabled = true
		return audition(cfg, note, s, chordPlay)
	},
}

func chordSettings() (engine.Settings, error) {
	s := engine.Settings{Voicing: chordVoicing}

	ct, err := theory.ParseChordType(chordType)
	if err != nil {
		return s, err
	}
	s.ChordType = ct

	for _, name := range chordExts {
		e, err := theory.ParseExtension(name)
		if err != nil {
			return s, err
		}
		s.Extensions = s.Extensions.With(e)
	}

	if s.Key, err = theory.ParseKey(chordKey); err != nil {
		return s, err
	}
	if s.Perform, err = engine.ParsePerformMode(chordMode); err != nil {
		return s, err
	}
	return s, nil
}

// formatChord renders "Cm^m7  C4 D#4 G4 A#4  (60 63 67 70)".
func formatChord(name theory.ChordName, notes []int) string {
	nums := make([]string, len(notes))
	for i, n := range notes {
		nums[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("%s  %s  (%s)", name, strings.Join(theory.NoteNamesOf(notes), " "), strings.Join(nums, " "))
}

// audition plays one chord through the built-in synth.
func audition(cfg *config.Config, note int, s engine.Settings, d time.Duration) error {
	chord, bass, effects, stop, status := voices(cfg)
	defer stop()
	if status != "audio:on" {
		return fmt.Errorf("no audio device")
	}
	saved := instrument.SettingsFromConfig(cfg)
	for _, e := range fx.Effects {
		effects.SetWet(e, float64(saved.Effect(e))/instrument.MaxEffect)
	}

	eng := engine.New(chord, bass)
	eng.TriggerOn(note, 0.8, s, false)
	time.Sleep(d)
	eng.TriggerOff(note, false)
	time.Sleep(synth.ChordPatch.Release)
	return nil
}
