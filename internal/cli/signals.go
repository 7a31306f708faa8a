// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/db47h/wavebench/internal/dut"
	"github.com/spf13/cobra"
)

// SignalsOptions holds the flags of the signals command.
//
type SignalsOptions struct {
	*RootOptions
	Config string
}

// NewSignalsCommand returns the signals command.
//
func NewSignalsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SignalsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "signals",
		Short: "List the named signals of the device model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignals(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "YAML configuration file")

	return cmd
}

func runSignals(opts *SignalsOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return err
	}
	dev, err := dut.New(1, cfg.Clock.StepsPerCycle, cfg.Device)
	if err != nil {
		return exitError(ExitCommandError, err)
	}
	defer dev.Dispose()

	sigs := dev.Signals()
	if opts.Format == FormatJSON {
		return writeJSON(cmd.OutOrStdout(), sigs)
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	for _, s := range sigs {
		fmt.Fprintf(tw, "%s\t%d\n", s.Name, s.Width)
	}
	return tw.Flush()
}
