// Command ncip is the CLI surface of spec.md §6: it reads a transition
// system in one of three external formats, runs the bounded model checking
// engine over it, and writes a Result file describing the outcome.
//
// Grounded on _teacher_reference/cmd/operator-cli/main.go's cobra.Command
// construction (RunE, a defaults-to-false flag set) and
// cmd/operator-cli/bundle/generate.go's StringVar-per-flag registration
// style.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	var opts cliOptions

	rootCmd := &cobra.Command{
		Use:   "ncip <input> [output]",
		Short: "Interpolation-based bounded model checker",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := ""
			if len(args) == 2 {
				output = args[1]
			}
			exitCode, err := run(&opts, cmd.Flags(), args[0], output)
			if err != nil {
				return err
			}
			os.Exit(exitCode)
			return nil
		},
	}

	registerFlags(rootCmd.Flags(), &opts)

	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
