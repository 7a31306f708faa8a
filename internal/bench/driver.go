// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bench

import (
	"context"
	"time"

	"github.com/db47h/wavebench/hwsim"
	"github.com/pkg/errors"
)

// Edge is a signal transition.
//
type Edge int

// Edge values.
//
const (
	Rising Edge = iota
	Falling
	AnyEdge
)

func (e Edge) String() string {
	switch e {
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	case AnyEdge:
		return "any"
	}
	return "unknown"
}

func (e Edge) matches(prev, cur bool) bool {
	switch e {
	case Rising:
		return !prev && cur
	case Falling:
		return prev && !cur
	}
	return prev != cur
}

// A Driver gives access to the signals of a simulated device.
//
// Set schedules a new value for an input signal; it becomes visible to the
// device from the next evaluation step. Get returns the current value of any
// named signal as raw unsigned bits. Wait advances the simulation until the
// given edge occurs on the named signal. A multi-bit signal is considered
// high when it is not zero. A timeout of 0 means no bound.
//
type Driver interface {
	Set(name string, v int64) error
	Get(name string) (uint64, error)
	Wait(ctx context.Context, name string, e Edge, timeout time.Duration) error
	Now() time.Duration
}

// RisingEdge waits for the next rising edge of the named signal.
//
func RisingEdge(ctx context.Context, d Driver, name string) error {
	return d.Wait(ctx, name, Rising, 0)
}

// FallingEdge waits for the next falling edge of the named signal.
//
func FallingEdge(ctx context.Context, d Driver, name string) error {
	return d.Wait(ctx, name, Falling, 0)
}

// ClockCycles waits for n rising edges of clk.
//
func ClockCycles(ctx context.Context, d Driver, clk string, n int) error {
	for i := 0; i < n; i++ {
		if err := d.Wait(ctx, clk, Rising, 0); err != nil {
			return err
		}
	}
	return nil
}

// ctxCheckSteps is the number of simulation steps between context checks.
//
const ctxCheckSteps = 256

// SimDriver is a Driver for a hwsim.Circuit. Inputs are driven through ports.
//
type SimDriver struct {
	c        *hwsim.Circuit
	ports    map[string]*hwsim.Port
	buses    map[string]hwsim.Bus
	deadline time.Duration
}

// NewSimDriver returns a new driver for circuit c. Only the given ports can
// be written with Set.
//
func NewSimDriver(c *hwsim.Circuit, ports ...*hwsim.Port) *SimDriver {
	d := &SimDriver{
		c:     c,
		ports: make(map[string]*hwsim.Port, len(ports)),
		buses: make(map[string]hwsim.Bus),
	}
	for _, p := range ports {
		d.ports[p.Name()] = p
	}
	return d
}

// SetDeadline sets the simulated time past which all waits fail with
// ErrDeadline. Zero disables the deadline.
//
func (d *SimDriver) SetDeadline(t time.Duration) {
	d.deadline = t
}

func (d *SimDriver) bus(name string) (hwsim.Bus, error) {
	if b, ok := d.buses[name]; ok {
		return b, nil
	}
	b, err := d.c.Signal(name)
	if err != nil {
		return nil, err
	}
	d.buses[name] = b
	return b, nil
}

// Set implements Driver.
//
func (d *SimDriver) Set(name string, v int64) error {
	p, ok := d.ports[name]
	if !ok {
		return errors.Errorf("signal %q is not a driven input", name)
	}
	if !p.Fits(v) {
		return errors.Errorf("value %d does not fit in %d bits signal %q", v, p.Bits(), name)
	}
	p.Set(v)
	return nil
}

// Get implements Driver.
//
func (d *SimDriver) Get(name string) (uint64, error) {
	b, err := d.bus(name)
	if err != nil {
		return 0, err
	}
	return b.Uint64(d.c), nil
}

// Now implements Driver.
//
func (d *SimDriver) Now() time.Duration {
	return d.c.Now()
}

// Wait implements Driver.
//
func (d *SimDriver) Wait(ctx context.Context, name string, e Edge, timeout time.Duration) error {
	b, err := d.bus(name)
	if err != nil {
		return err
	}
	start := d.c.Now()
	prev := b.Uint64(d.c) != 0
	for n := 0; ; n++ {
		if n%ctxCheckSteps == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if d.deadline > 0 && d.c.Now() >= d.deadline {
			return errors.Wrapf(ErrDeadline, "at %v waiting for %s edge on %s", d.c.Now(), e, name)
		}
		d.c.Step()
		cur := b.Uint64(d.c) != 0
		if e.matches(prev, cur) {
			return nil
		}
		prev = cur
		if timeout > 0 && d.c.Now()-start >= timeout {
			return &TimeoutError{Signal: name, Edge: e, Budget: timeout, At: d.c.Now()}
		}
	}
}
