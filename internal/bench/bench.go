// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package bench implements the verification bench of the wavelet device:
// power-up sequencing, stimulus injection and output checking.
//
// The bench only talks to the device through a Driver. All waits are driven
// by the bench itself: the device does not advance between calls.
//
package bench

import (
	"context"
	"log/slog"

	"github.com/db47h/wavebench/internal/config"
	"github.com/db47h/wavebench/internal/source"
	"github.com/pkg/errors"
)

// A Bench drives a device through a Driver.
//
type Bench struct {
	d   Driver
	cfg *config.Config
	log *slog.Logger
}

// New returns a new Bench. A nil logger discards all output.
//
func New(d Driver, cfg *config.Config, log *slog.Logger) *Bench {
	if log == nil {
		log = discard
	}
	return &Bench{d: d, cfg: cfg, log: log}
}

func (b *Bench) cycles(ctx context.Context, n int) error {
	return ClockCycles(ctx, b.d, b.cfg.Signals.Clock, n)
}

func (b *Bench) set(name string, v int64) error {
	return errors.Wrapf(b.d.Set(name, v), "at %v", b.d.Now())
}

// PowerUp runs the power-up sequence: reset asserted and rails off, then
// rails enabled in order with a fixed gap, reset released after a settle
// delay. It then waits for the activity indicator to fall then rise, each
// wait bounded by cfg.Power.ActiveTimeout.
//
func (b *Bench) PowerUp(ctx context.Context) error {
	s, p := &b.cfg.Signals, &b.cfg.Power

	if err := b.set(s.Reset, 0); err != nil {
		return err
	}
	for _, r := range s.Power {
		if err := b.set(r, 0); err != nil {
			return err
		}
	}
	if err := b.cycles(ctx, p.Hold); err != nil {
		return err
	}
	for i, r := range s.Power {
		if err := b.set(r, 1); err != nil {
			return err
		}
		b.log.Debug("rail enabled", "rail", r, "at", b.d.Now())
		n := p.Gap
		if i == len(s.Power)-1 {
			n = p.Settle
		}
		if err := b.cycles(ctx, n); err != nil {
			return err
		}
	}
	if err := b.set(s.Reset, 1); err != nil {
		return err
	}
	b.log.Info("reset released", "at", b.d.Now())

	if err := b.d.Wait(ctx, s.Active, Falling, p.ActiveTimeout); err != nil {
		return errors.Wrap(err, "waiting for "+s.Active+" to fall")
	}
	b.log.Debug("device inactive", "at", b.d.Now())
	if err := b.d.Wait(ctx, s.Active, Rising, p.ActiveTimeout); err != nil {
		return errors.Wrap(err, "waiting for "+s.Active+" to rise")
	}
	b.log.Info("device active", "at", b.d.Now())
	return nil
}

// InitialCheck checks that the multiplexed output reads zero.
//
func (b *Bench) InitialCheck() error {
	v, err := b.d.Get(b.cfg.Signals.Output)
	if err != nil {
		return err
	}
	if v != 0 {
		return &AssertionError{What: "initial " + b.cfg.Signals.Output, Got: int64(v), Want: 0, At: b.d.Now(), Iteration: 0}
	}
	return nil
}

// StimulusOptions configures Stimulate.
//
type StimulusOptions struct {
	// Number of iterations. If <= 0, runs until the source is exhausted.
	Iterations int
	// Run the output checker in every iteration.
	Checked bool
	// Convert 16 bits samples to the device input range.
	Convert bool
}

// Stimulus is the outcome of Stimulate.
//
type Stimulus struct {
	Trace  *Trace
	Checks int
}

// Stimulate feeds samples from src to the device, one per iteration: it
// updates the channel select on its cadence, drives the sample value with a
// one clock wide strobe, then lets the device settle, checking the output
// when opt.Checked is set.
//
// A source exhausted before opt.Iterations is not an error: the returned
// trace is marked as truncated.
//
func (b *Bench) Stimulate(ctx context.Context, src source.Source, opt StimulusOptions) (*Stimulus, error) {
	s, st := &b.cfg.Signals, &b.cfg.Stimulus
	n := opt.Iterations
	if n <= 0 {
		n = src.Len()
	}
	p := newPlanner(src, st.SwitchEvery, st.Channels, opt.Convert)
	var chk *Checker
	if opt.Checked {
		chk = NewChecker(b.d, b.cfg, b.log)
	}
	res := &Stimulus{Trace: new(Trace)}
	defer func() {
		if chk != nil {
			res.Checks = chk.Checks()
		}
	}()

	for i := 0; i < n; i++ {
		sample, ok := src.Next()
		if !ok {
			res.Trace.Truncated = true
			b.log.Warn("source exhausted", "iteration", i, "expected", n)
			break
		}
		e, err := p.next(i, sample)
		if err != nil {
			if ae, ok := err.(*AssertionError); ok {
				ae.At = b.d.Now()
			}
			return res, err
		}

		if err = RisingEdge(ctx, b.d, s.Clock); err != nil {
			return res, err
		}
		if e.Switched {
			if err = b.set(s.Select, int64(e.Select)); err != nil {
				return res, err
			}
			b.log.Debug("channel switch", "iteration", i, "select", e.Select, "counter", p.rot.Counter())
		}
		if err = b.set(s.Value, int64(e.Value)); err != nil {
			return res, err
		}
		if err = b.set(s.Strobe, 1); err != nil {
			return res, err
		}
		if err = RisingEdge(ctx, b.d, s.Clock); err != nil {
			return res, err
		}
		if err = b.set(s.Strobe, 0); err != nil {
			return res, err
		}

		if chk != nil {
			if err = b.cycles(ctx, st.CheckAfter); err != nil {
				return res, err
			}
			if e.Checked, err = chk.Check(i); err != nil {
				res.Trace.Add(e)
				return res, err
			}
		}
		if err = b.cycles(ctx, st.Settle); err != nil {
			return res, err
		}
		res.Trace.Add(e)
	}
	return res, nil
}
