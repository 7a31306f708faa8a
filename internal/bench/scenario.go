// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bench

import (
	"context"
	"log/slog"
	"time"

	"github.com/db47h/wavebench/internal/config"
	"github.com/db47h/wavebench/internal/dut"
	"github.com/db47h/wavebench/internal/source"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Result status values.
//
const (
	StatusPass  = "pass"
	StatusFail  = "fail"  // verification failure
	StatusError = "error" // setup or usage error
)

// A Result reports the outcome of a scenario.
//
type Result struct {
	RunID      string        `json:"run_id"`
	Scenario   string        `json:"scenario"`
	Status     string        `json:"status"`
	Error      string        `json:"error,omitempty"`
	SimTime    time.Duration `json:"sim_time"`
	Elapsed    time.Duration `json:"elapsed"`
	Iterations int           `json:"iterations"`
	Checks     int           `json:"checks"`
	Truncated  bool          `json:"truncated,omitempty"`

	Err   error  `json:"-"`
	Trace *Trace `json:"-"`
}

// Passed returns true if the scenario passed.
//
func (r *Result) Passed() bool { return r.Status == StatusPass }

// A Runner runs scenarios, each on a fresh device.
//
type Runner struct {
	cfg   *config.Config
	log   *slog.Logger
	runID string
}

// NewRunner returns a new runner. Each runner gets a unique run ID.
//
func NewRunner(cfg *config.Config, log *slog.Logger) (*Runner, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate run ID")
	}
	if log == nil {
		log = discard
	}
	return &Runner{cfg: cfg, log: log.With("run_id", id.String()), runID: id.String()}, nil
}

// RunID returns the run ID.
//
func (r *Runner) RunID() string { return r.runID }

// RunAll runs the named scenarios with at most parallel scenarios running
// concurrently. Results are returned in the order of names. The returned
// error is only set if ctx was cancelled.
//
func (r *Runner) RunAll(ctx context.Context, names []string, parallel int) ([]*Result, error) {
	if parallel < 1 {
		parallel = 1
	}
	res := make([]*Result, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, name := range names {
		g.Go(func() error {
			res[i] = r.Run(gctx, name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, ctx.Err()
}

// Run runs the named scenario on a fresh device.
//
func (r *Runner) Run(ctx context.Context, name string) *Result {
	start := time.Now()
	log := r.log.With("scenario", name)
	res := &Result{RunID: r.runID, Scenario: name}

	err := r.run(ctx, name, log, res)
	res.Elapsed = time.Since(start)
	switch {
	case err == nil:
		res.Status = StatusPass
		log.Info("scenario passed", "sim_time", res.SimTime, "iterations", res.Iterations, "checks", res.Checks)
	case IsFailure(err):
		res.Status = StatusFail
	default:
		res.Status = StatusError
	}
	if err != nil {
		res.Err = err
		res.Error = err.Error()
		log.Error("scenario "+res.Status, "error", err, "sim_time", res.SimTime)
	}
	return res
}

func (r *Runner) run(ctx context.Context, name string, log *slog.Logger, res *Result) error {
	cfg := r.cfg
	if !config.IsScenario(name) {
		return errors.Errorf("unknown scenario %q", name)
	}

	// sources are opened before building the device
	var src source.Source
	opt := StimulusOptions{}
	switch name {
	case config.ScenarioAudio:
		if cfg.Audio.File == "" {
			return errors.New("no audio file configured")
		}
		w, err := source.OpenWAV(cfg.Audio.File)
		if err != nil {
			return err
		}
		log.Info("audio file", "file", cfg.Audio.File, "frames", w.Len(), "decoded", w.Decoded(), "sample_rate", w.SampleRate())
		if cfg.Audio.Decimate {
			src = source.Decimate(w, cfg.Audio.Divisor)
		} else {
			src = source.Take(w, w.Len()/cfg.Audio.Divisor)
		}
		opt = StimulusOptions{Iterations: src.Len(), Checked: cfg.Audio.Checked, Convert: true}
	case config.ScenarioSweep:
		src = source.NewChirp(cfg.Sweep.Iterations)
		opt = StimulusOptions{Iterations: cfg.Sweep.Iterations, Checked: cfg.Sweep.Checked}
	}

	dev, err := dut.New(cfg.Clock.Workers, cfg.Clock.StepsPerCycle, cfg.Device)
	if err != nil {
		return err
	}
	defer func() {
		res.SimTime = dev.Now()
		dev.Dispose()
	}()
	dev.SetPeriod(cfg.Clock.Period)

	d := NewSimDriver(dev.Circuit, dev.Ports()...)
	d.SetDeadline(cfg.Deadline)
	b := New(d, cfg, log)

	if err = b.PowerUp(ctx); err != nil {
		return errors.Wrap(err, "power up")
	}
	if src == nil {
		return nil
	}
	if cfg.Checker.InitialZero {
		if err = b.InitialCheck(); err != nil {
			return err
		}
	}
	st, err := b.Stimulate(ctx, src, opt)
	if st != nil {
		res.Trace = st.Trace
		res.Iterations = st.Trace.Len()
		res.Checks = st.Checks
		res.Truncated = st.Trace.Truncated
	}
	return errors.Wrap(err, "stimulus")
}
