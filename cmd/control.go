package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newControlCmd(verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:       verb + " <source|dispatcher> <name>",
		Short:     short,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"source", "dispatcher"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, name := args[0], args[1]

			_, d, closeFn, err := setup()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := d.Control(cmd.Context(), verb, kind, name); err != nil {
				return err
			}
			fmt.Printf("Sent %s to %s %s\n", verb, kind, name)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newControlCmd("start", "Start a pipeline source or dispatcher"))
	rootCmd.AddCommand(newControlCmd("stop", "Stop a pipeline source or dispatcher"))
}
