package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-violet/midi"
)

func init() {
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer midi.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "(waiting up to 3 seconds...)")
		p, err := midi.ListPorts()
		if err != nil {
			return err
		}
		printPorts(cmd, "inputs", p.Inputs)
		printPorts(cmd, "outputs", p.Outputs)
		return nil
	},
}

func printPorts(cmd *cobra.Command, title string, names []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "=== MIDI %s ===\n", title)
	if len(names) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for i, n := range names {
		fmt.Fprintf(out, "  [%d] %s\n", i, n)
	}
}
