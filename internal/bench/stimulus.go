// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bench

import "github.com/db47h/wavebench/internal/source"

// Device input value range.
//
const (
	ValueMin = -128
	ValueMax = 127
)

// Convert scales a 16 bits sample to the device input range. Positive
// samples are scaled by 127/32768, negative ones by 128/32768, both truncated
// toward zero and clamped to [ValueMin, ValueMax].
//
func Convert(s int) int {
	switch {
	case s > 0:
		v := s * 127 / 32768
		if v > ValueMax {
			v = ValueMax
		}
		return v
	case s < 0:
		v := s * 128 / 32768
		if v < ValueMin {
			v = ValueMin
		}
		return v
	}
	return 0
}

// A Rotator maintains the channel select value.
//
// The countdown starts at every and is decremented once per iteration. On
// the iteration where it is found at zero, the rotation counter is
// incremented and the countdown restarts at every.
//
type Rotator struct {
	every     int
	ways      int
	countdown int
	counter   int
}

// NewRotator returns a Rotator that switches between ways channels.
//
func NewRotator(every, ways int) *Rotator {
	if ways < 1 {
		ways = 1
	}
	return &Rotator{every: every, ways: ways, countdown: every}
}

// Next advances the rotator by one iteration and returns the current select
// value. switched is true if the value must be driven in this iteration.
//
func (r *Rotator) Next() (sel int, switched bool) {
	if r.countdown == 0 {
		r.counter++
		r.countdown = r.every
		return r.Select(), true
	}
	r.countdown--
	return r.Select(), false
}

// Counter returns the rotation counter.
//
func (r *Rotator) Counter() int { return r.counter }

// Select returns the current select value.
//
func (r *Rotator) Select() int { return r.counter % r.ways }

// planner computes the stimulus of each iteration, independently of any
// device.
//
type planner struct {
	rot      *Rotator
	convert  bool
	min, max int
}

func newPlanner(src source.Source, every, ways int, convert bool) *planner {
	min, max := src.Range()
	return &planner{
		rot:     NewRotator(every, ways),
		convert: convert,
		min:     min,
		max:     max,
	}
}

func (p *planner) next(i, s int) (Entry, error) {
	if s < p.min {
		return Entry{}, &AssertionError{What: "sample below source range", Got: int64(s), Want: int64(p.min), Iteration: i}
	}
	if s > p.max {
		return Entry{}, &AssertionError{What: "sample above source range", Got: int64(s), Want: int64(p.max), Iteration: i}
	}
	v := s
	if p.convert {
		v = Convert(s)
	}
	if v < ValueMin {
		return Entry{}, &AssertionError{What: "value below device input range", Got: int64(v), Want: ValueMin, Iteration: i}
	}
	if v > ValueMax {
		return Entry{}, &AssertionError{What: "value above device input range", Got: int64(v), Want: ValueMax, Iteration: i}
	}
	sel, sw := p.rot.Next()
	return Entry{
		Iteration: i,
		Select:    sel,
		Switched:  sw,
		Sample:    s,
		Value:     v,
	}, nil
}

// Schedule computes the stimulus trace of n iterations without simulating.
// If n <= 0, all of src is used. Sources that are exhausted early yield a
// truncated trace.
//
func Schedule(src source.Source, n, every, ways int, convert bool) (*Trace, error) {
	if n <= 0 {
		n = src.Len()
	}
	p := newPlanner(src, every, ways, convert)
	tr := new(Trace)
	for i := 0; i < n; i++ {
		s, ok := src.Next()
		if !ok {
			tr.Truncated = true
			break
		}
		e, err := p.next(i, s)
		if err != nil {
			return tr, err
		}
		tr.Add(e)
	}
	return tr, nil
}
