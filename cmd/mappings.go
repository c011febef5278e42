package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"go-violet/mapping"
)

var mappingsFile string

func init() {
	mappingsCmd.PersistentFlags().StringVar(&mappingsFile, "file", "", "mapping file (default: config directory)")
	mappingsCmd.AddCommand(mappingsClearCmd)
	rootCmd.AddCommand(mappingsCmd)
}

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "List learned MIDI control mappings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := mappingStore()
		if err != nil {
			return err
		}
		t, err := store.Load()
		if err != nil {
			return err
		}
		printMappings(cmd.OutOrStdout(), t)
		return nil
	},
}

var mappingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every mapping",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := mappingStore()
		if err != nil {
			return err
		}
		t, err := store.Load()
		if err != nil {
			return err
		}
		t.Mappings = []mapping.Mapping{}
		if err := store.Save(t); err != nil {
			return fmt.Errorf("save mappings: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", store.Path())
		return nil
	},
}

func mappingStore() (*mapping.FileStore, error) {
	path := mappingsFile
	if path == "" {
		p, err := mapping.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("mapping file: %w", err)
		}
		path = p
	}
	return mapping.NewFileStore(path), nil
}

func printMappings(w io.Writer, t mapping.Table) {
	state := "enabled"
	if !t.Enabled {
		state = "disabled"
	}
	fmt.Fprintf(w, "mappings %s, %d learned\n", state, len(t.Mappings))
	for _, a := range mapping.Actions {
		note := "-"
		for _, mp := range t.Mappings {
			if mp.Action == a {
				note = mp.Label()
				if mp.Device != "" {
					note += "  " + mp.Device
				}
				break
			}
		}
		fmt.Fprintf(w, "  %-16s %s\n", a.Label(), note)
	}
}
