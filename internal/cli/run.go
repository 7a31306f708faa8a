// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/db47h/wavebench/internal/bench"
	"github.com/db47h/wavebench/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RunOptions holds the flags of the run command.
//
type RunOptions struct {
	*RootOptions
	Config     string
	WAV        string
	Scenarios  []string
	Iterations int
	Parallel   int
}

// RunReport is the JSON output of the run command.
//
type RunReport struct {
	RunID   string          `json:"run_id"`
	Passed  bool            `json:"passed"`
	Results []*bench.Result `json:"results"`
}

// NewRunCommand returns the run command.
//
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run verification scenarios",
		Long: `Run verification scenarios, each on a fresh device.

Scenarios:
  power_up  power and reset sequencing only
  audio     power up, then replay a mono 16 bits WAV file
  sweep     power up, then feed a synthetic chirp

Without --scenario, the scenarios listed in the configuration are run. The
audio scenario is skipped if no WAV file is configured.

Examples:
  wavebench run
  wavebench run --scenario sweep --iterations 1000
  wavebench run --wav input.wav --parallel 3 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVar(&opts.WAV, "wav", "", "WAV file for the audio scenario")
	cmd.Flags().StringArrayVarP(&opts.Scenarios, "scenario", "s", nil, "scenario to run (repeatable)")
	cmd.Flags().IntVarP(&opts.Iterations, "iterations", "n", 0, "sweep iterations (0 keeps the configured value)")
	cmd.Flags().IntVarP(&opts.Parallel, "parallel", "p", 1, "maximum number of scenarios run concurrently")

	return cmd
}

func runRun(opts *RunOptions, cmd *cobra.Command) error {
	log := newLogger(cmd.ErrOrStderr(), opts.RootOptions)

	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return err
	}
	if opts.WAV != "" {
		cfg.Audio.File = opts.WAV
	}
	if opts.Iterations < 0 {
		return exitError(ExitCommandError, errors.New("--iterations must not be negative"))
	}
	if opts.Iterations > 0 {
		cfg.Sweep.Iterations = opts.Iterations
	}
	names := opts.Scenarios
	if len(names) == 0 {
		for _, s := range cfg.Scenarios {
			if s == config.ScenarioAudio && cfg.Audio.File == "" {
				log.Warn("no WAV file configured, skipping scenario", "scenario", s)
				continue
			}
			names = append(names, s)
		}
	}
	cfg.Scenarios = names
	if err = cfg.Validate(); err != nil {
		return exitError(ExitCommandError, err)
	}

	r, err := bench.NewRunner(cfg, log)
	if err != nil {
		return exitError(ExitCommandError, err)
	}
	log.Info("run started", "run_id", r.RunID(), "scenarios", names)
	res, err := r.RunAll(cmd.Context(), names, opts.Parallel)
	if err != nil {
		return exitError(ExitCommandError, err)
	}

	code := ExitSuccess
	for _, x := range res {
		switch x.Status {
		case bench.StatusError:
			code = ExitCommandError
		case bench.StatusFail:
			if code == ExitSuccess {
				code = ExitFailure
			}
		}
	}

	if opts.Format == FormatJSON {
		err = writeJSON(cmd.OutOrStdout(), &RunReport{RunID: r.RunID(), Passed: code == ExitSuccess, Results: res})
	} else {
		err = writeResults(cmd.OutOrStdout(), res, opts.Verbose)
	}
	if err != nil {
		return exitError(ExitCommandError, err)
	}
	if code != ExitSuccess {
		return exitError(code, errors.New("some scenarios did not pass"))
	}
	return nil
}

func writeResults(w io.Writer, res []*bench.Result, verbose bool) error {
	passed := 0
	for _, r := range res {
		if r.Passed() {
			passed++
		}
		if _, err := fmt.Fprintf(w, "%-5s %-8s sim=%v iterations=%d checks=%d elapsed=%v",
			statusLabel(r.Status), r.Scenario, r.SimTime, r.Iterations, r.Checks, r.Elapsed.Round(time.Millisecond)); err != nil {
			return err
		}
		if r.Truncated {
			fmt.Fprint(w, " truncated")
		}
		fmt.Fprintln(w)
		if r.Err != nil {
			if verbose {
				fmt.Fprintf(w, "      %+v\n", r.Err)
			} else {
				fmt.Fprintf(w, "      %v\n", r.Err)
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d/%d scenarios passed\n", passed, len(res))
	return err
}

func statusLabel(s string) string {
	switch s {
	case bench.StatusPass:
		return "PASS"
	case bench.StatusFail:
		return "FAIL"
	}
	return "ERROR"
}
