// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"github.com/db47h/wavebench/internal/bench"
	"github.com/db47h/wavebench/internal/config"
	"github.com/db47h/wavebench/internal/source"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// TraceOptions holds the flags of the trace command.
//
type TraceOptions struct {
	*RootOptions
	Config     string
	WAV        string
	Source     string
	Iterations int
}

// NewTraceCommand returns the trace command.
//
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print the stimulus schedule without simulating",
		Long: `Print the stimulus schedule of a source: for every iteration, the channel
select value, the source sample and the value driven on the device input.

Examples:
  wavebench trace --iterations 1000
  wavebench trace --source audio --wav input.wav --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVar(&opts.WAV, "wav", "", "WAV file for the audio source")
	cmd.Flags().StringVar(&opts.Source, "source", config.ScenarioSweep, "stimulus source (sweep|audio)")
	cmd.Flags().IntVarP(&opts.Iterations, "iterations", "n", 0, "number of iterations (0 keeps the configured value)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return err
	}
	if opts.WAV != "" {
		cfg.Audio.File = opts.WAV
	}

	var (
		src     source.Source
		n       = opts.Iterations
		convert bool
	)
	switch opts.Source {
	case config.ScenarioSweep:
		if n <= 0 {
			n = cfg.Sweep.Iterations
		}
		src = source.NewChirp(n)
	case config.ScenarioAudio:
		if cfg.Audio.File == "" {
			return exitError(ExitCommandError, errors.New("no WAV file given"))
		}
		w, err := source.OpenWAV(cfg.Audio.File)
		if err != nil {
			return exitError(ExitCommandError, err)
		}
		if cfg.Audio.Decimate {
			src = source.Decimate(w, cfg.Audio.Divisor)
		} else {
			src = source.Take(w, w.Len()/cfg.Audio.Divisor)
		}
		convert = true
	default:
		return exitError(ExitCommandError, errors.Errorf("invalid source %q: must be sweep or audio", opts.Source))
	}

	tr, err := bench.Schedule(src, n, cfg.Stimulus.SwitchEvery, cfg.Stimulus.Channels, convert)
	if err != nil {
		return exitError(ExitFailure, err)
	}
	if opts.Format == FormatJSON {
		err = tr.WriteJSON(cmd.OutOrStdout())
	} else {
		err = tr.WriteText(cmd.OutOrStdout())
	}
	return errors.Wrap(err, "failed to write trace")
}
