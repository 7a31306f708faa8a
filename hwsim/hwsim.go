// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"math/bits"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// DefaultPeriod is the default clock period of a Circuit.
//
const DefaultPeriod = 50 * time.Nanosecond

// Circuit is a runnable circuit simulation.
//
type Circuit struct {
	s0     []bool // wire states frame #0
	s1     []bool // wire states frame #1
	cs     []Component
	count  int  // wire count
	tpc    uint // ticks per clock cycle
	tick   uint
	period time.Duration

	names map[string]int // named wires, by hierarchical path
	paths map[string]int // chip instance counts

	wc []chan struct{}
	wg sync.WaitGroup
}

// NewCircuit builds a new circuit based on the given parts.
//
// workers is the number of goroutines used to update the state of the Circuit
// each step of the simulation. If less or equal to 0, the value of GOMAXPROCS
// will be used.
//
// stepsPerCycle indicates how many simulation steps to run per clock cycle
// (the clk signal, not wall clock). It is rounded up to the next power of two
// and must be large enough for combinational paths to settle within half a
// clock cycle.
//
// Callers must make sure to call Dispose() once the circuit is no longer needed
// in order to release allocated resources.
//
func NewCircuit(workers int, stepsPerCycle uint, parts ...Part) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}

	c := &Circuit{
		count:  cstCount,
		tpc:    ceilPow2(stepsPerCycle),
		period: DefaultPeriod,
		names:  map[string]int{False: cstFalse, True: cstTrue, Clk: cstClk},
		paths:  make(map[string]int),
	}
	top, err := Chip("", "", "", parts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create top level chip")
	}
	c.cs = append(top("").Mount(newSocket(c, "")), c.clock)

	c.s0 = make([]bool, c.count)
	c.s1 = make([]bool, c.count)
	c.s0[cstClk] = true
	c.s0[cstTrue] = true
	c.s1[cstTrue] = true

	c.startWorkers(workers)
	return c, nil
}

// ceilPow2 rounds n up to the next power of two, with a minimum of 2.
//
func ceilPow2(n uint) uint {
	if n <= 2 {
		return 2
	}
	return 1 << uint(bits.Len(n-1))
}

// startWorkers splits the components in at most n even batches, each
// updated by its own goroutine.
//
func (c *Circuit) startWorkers(n int) {
	if n <= 0 {
		n = runtime.GOMAXPROCS(-1)
	}
	if n <= 0 {
		n = 1
	}
	size := (len(c.cs) + n - 1) / n
	for cs := c.cs; len(cs) > 0; {
		if size > len(cs) {
			size = len(cs)
		}
		wc := make(chan struct{}, 1)
		c.wc = append(c.wc, wc)
		go c.worker(cs[:size], wc)
		cs = cs[size:]
	}
}

// clock is the component driving the clk wire: high during the first half
// of each cycle.
//
func (c *Circuit) clock(*Circuit) {
	if c.s0[cstFalse] || !c.s0[cstTrue] {
		panic("true or false constants have been overwritten")
	}
	c.s1[cstClk] = (c.tick+1)&(c.tpc-1) < c.tpc/2
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines.
//
func (c *Circuit) Dispose() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		close(wc)
	}
	c.wg.Wait()
	c.wc = nil
}

func (c *Circuit) worker(cs []Component, wc <-chan struct{}) {
	defer c.wg.Done()
	for range wc {
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

// allocPin allocates a pin and returns its number.
//
func (c *Circuit) allocPin() int {
	cnt := c.count
	c.count++
	return cnt
}

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint {
	return c.tick
}

// SPC returns the stepsPerCycle value.
//
func (c *Circuit) SPC() uint {
	return c.tpc
}

// SetPeriod sets the clock period used to convert steps to simulated time.
// It does not change the number of steps per clock cycle.
//
func (c *Circuit) SetPeriod(d time.Duration) {
	if d <= 0 {
		d = DefaultPeriod
	}
	c.period = d
}

// Period returns the clock period.
//
func (c *Circuit) Period() time.Duration {
	return c.period
}

// Now returns the simulated time elapsed since the circuit was created.
//
func (c *Circuit) Now() time.Duration {
	return time.Duration(uint64(c.tick) * uint64(c.period) / uint64(c.tpc))
}

// AtTick returns true if the current step is at the beginning of a clock cycle
// (raising edge of Clk).
//
func (c *Circuit) AtTick() bool {
	return c.Steps()&(c.SPC()-1) == 0
}

// AtTock returns true if the current step is at the beginning of the second
// half of a clock cycle (falling edge of Clk).
//
func (c *Circuit) AtTock() bool {
	return (c.Steps()+c.SPC()/2)&(c.SPC()-1) == 0
}

// Get returns the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Get(n int) bool {
	return c.s0[n]
}

// Set sets the state s of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Set(n int, s bool) {
	c.s1[n] = s
}

// Toggle toggles the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Toggle(n int) {
	c.s1[n] = !c.s0[n]
}

// Step advances the simulation by one step.
//
func (c *Circuit) Step() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		wc <- struct{}{}
	}

	c.wg.Wait()
	c.tick++
	c.s0, c.s1 = c.s1, c.s0
}

// Tick runs the simulation until the beginning of the next half clock cycle.
//
func (c *Circuit) Tick() {
	for c.Get(cstClk) {
		c.Step()
	}
}

// Tock runs the simulation until the beginning of the next clock cycle.
// Once Tock returns, the output of clocked components should have stabilized.
//
func (c *Circuit) Tock() {
	for !c.Get(cstClk) {
		c.Step()
	}
}

// TickTock runs the simulation for a whole clock cycle.
//
func (c *Circuit) TickTock() {
	c.Tick()
	c.Tock()
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }
