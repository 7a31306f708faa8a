// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bench

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/db47h/wavebench/internal/config"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// A Checker compares the multiplexed output of the device with the reference
// signal of the selected channel.
//
type Checker struct {
	d      Driver
	log    *slog.Logger
	sel    string
	out    string
	refs   map[int]string
	checks int
}

// NewChecker returns a checker for the channels listed in cfg.Checker. A nil
// logger discards all output.
//
func NewChecker(d Driver, cfg *config.Config, log *slog.Logger) *Checker {
	if log == nil {
		log = discard
	}
	c := &Checker{
		d:    d,
		log:  log,
		sel:  cfg.Signals.Select,
		out:  cfg.Signals.Output,
		refs: make(map[int]string, len(cfg.Checker.Channels)),
	}
	for _, k := range cfg.Checker.Channels {
		c.refs[k] = cfg.Checker.ReferenceFor(k)
	}
	return c
}

// Check reads the select signal and, if the selected channel is checked,
// compares the output with the channel reference. It returns true if a
// comparison was made.
//
func (c *Checker) Check(iter int) (bool, error) {
	sel, err := c.d.Get(c.sel)
	if err != nil {
		return false, err
	}
	ref, ok := c.refs[int(sel)]
	if !ok {
		return false, nil
	}
	got, err := c.d.Get(c.out)
	if err != nil {
		return false, err
	}
	want, err := c.d.Get(ref)
	if err != nil {
		return false, err
	}
	c.checks++
	if got != want {
		return true, &AssertionError{
			What:      c.out + " != " + ref + " (channel " + strconv.Itoa(int(sel)) + ")",
			Got:       int64(got),
			Want:      int64(want),
			At:        c.d.Now(),
			Iteration: iter,
		}
	}
	c.log.Debug("check", "iteration", iter, "channel", sel, "value", got)
	return true, nil
}

// Checks returns the number of comparisons made.
//
func (c *Checker) Checks() int { return c.checks }
