// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dut

import "github.com/db47h/wavebench/hwsim"

// fir is a Haar detail filter: the sum of the newest Taps/2 samples minus the
// sum of the previous Taps/2 samples. A sample is shifted in on the rising
// clock edge that first sees the strobe high.
//
type fir struct {
	Taps int

	Strobe int     `hw:"in"`
	En     int     `hw:"in"`
	Value  [8]int  `hw:"in"`
	Out    [16]int `hw:"out,o_wavelet"`

	hist []int64 // ring buffer, hist[pos] is the oldest sample
	pos  int
	prev bool
	out  int64
}

func (f *fir) Update(c *hwsim.Circuit) {
	if c.AtTick() {
		f.clock(c)
	}
	hwsim.Bus(f.Out[:]).SetInt64(c, f.out)
}

func (f *fir) clock(c *hwsim.Circuit) {
	if f.hist == nil {
		f.hist = make([]int64, f.Taps)
	}
	if !c.Get(f.En) {
		for i := range f.hist {
			f.hist[i] = 0
		}
		f.pos, f.prev, f.out = 0, false, 0
		return
	}
	s := c.Get(f.Strobe)
	if s && !f.prev {
		f.hist[f.pos] = hwsim.Bus(f.Value[:]).Int64(c)
		f.pos = (f.pos + 1) % len(f.hist)
		f.out = f.detail()
	}
	f.prev = s
}

func (f *fir) detail() int64 {
	var older, newer int64
	half := len(f.hist) / 2
	for i := range f.hist {
		v := f.hist[(f.pos+i)%len(f.hist)]
		if i < half {
			older += v
		} else {
			newer += v
		}
	}
	return newer - older
}
