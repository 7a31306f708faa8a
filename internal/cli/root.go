// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package cli implements the wavebench commands.
//
package cli

import (
	"github.com/db47h/wavebench/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Output formats.
//
const (
	FormatText = "text"
	FormatJSON = "json"
)

// RootOptions holds the global flags.
//
type RootOptions struct {
	Verbose bool
	Format  string
}

// NewRootCommand returns the wavebench root command.
//
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "wavebench",
		Short: "Verification bench for the wavelet transform device",
		Long: `wavebench drives a simulated wavelet transform device through its
power-up sequence and feeds it synthetic or recorded audio samples while
checking the multiplexed output against each filter channel.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != FormatText && opts.Format != FormatJSON {
				return exitError(ExitCommandError, errors.Errorf("invalid format %q: must be text or json", opts.Format))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format (text|json)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewSignalsCommand(opts))

	return cmd
}

// loadConfig returns the configuration in the named file, or the default
// configuration if name is empty.
//
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(name)
	if err != nil {
		return nil, exitError(ExitCommandError, err)
	}
	return cfg, nil
}
