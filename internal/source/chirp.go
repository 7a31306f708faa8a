// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package source

import "math"

// Chirp is a synthetic frequency sweep:
//
//	sample(i) = clamp(round(sin(0.1*i*(1+0.01*i)) * 128), -128, 127)
//
// for i in [0, n).
//
type Chirp struct {
	n, i int
}

// NewChirp returns a chirp of n samples.
//
func NewChirp(n int) *Chirp {
	if n < 0 {
		n = 0
	}
	return &Chirp{n: n}
}

// ChirpSample returns the i-th sample of a chirp.
//
func ChirpSample(i int) int {
	x := float64(i)
	v := int(math.Round(math.Sin(0.1*x*(1+0.01*x)) * 128))
	switch {
	case v > 127:
		return 127
	case v < -128:
		return -128
	}
	return v
}

// Next implements Source.
//
func (c *Chirp) Next() (int, bool) {
	if c.i >= c.n {
		return 0, false
	}
	v := ChirpSample(c.i)
	c.i++
	return v, true
}

// Reset implements Source.
//
func (c *Chirp) Reset() { c.i = 0 }

// Len implements Source.
//
func (c *Chirp) Len() int { return c.n }

// Range returns the device input range, [-128, 127].
//
func (c *Chirp) Range() (min, max int) { return -128, 127 }
