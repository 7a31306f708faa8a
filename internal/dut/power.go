// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dut

import "github.com/db47h/wavebench/hwsim"

// power controller states
const (
	stReset = iota // held in reset or rails not good
	stWait         // reset released, waiting before calibration
	stCalib        // calibrating, o_active low
	stRun          // running, channels enabled
	stFault        // rails enabled out of order
)

// powerCtrl sequences the device out of reset.
//
// Rails must rise in order, each at least MinGap clock cycles after the
// previous one. Once reset is released with all rails up, the controller
// waits FallDelay cycles, pulls active low for LowCycles cycles, then raises
// active and en.
//
type powerCtrl struct {
	MinGap    int
	FallDelay int
	LowCycles int

	Rst    int    `hw:"in"`
	Good   int    `hw:"in"`
	Rail   [4]int `hw:"in"`
	Active int    `hw:"out"`
	En     int    `hw:"out"`

	state int
	count int
	gap   int
	rails [4]bool
}

func (p *powerCtrl) Update(c *hwsim.Circuit) {
	if c.AtTick() {
		p.clock(c)
	}
	c.Set(p.Active, p.state != stCalib)
	c.Set(p.En, p.state == stRun)
}

func (p *powerCtrl) clock(c *hwsim.Circuit) {
	p.gap++
	off := true
	for i, pin := range p.Rail {
		r := c.Get(pin)
		if r && !p.rails[i] {
			if i > 0 && (!p.rails[i-1] || p.gap < p.MinGap) {
				p.state = stFault
			}
			p.gap = 0
		}
		p.rails[i] = r
		off = off && !r
	}

	if p.state == stFault {
		// cleared by a full power cycle
		if off {
			p.state = stReset
		}
		return
	}
	if c.Get(p.Rst) || !c.Get(p.Good) {
		p.state = stReset
		return
	}

	p.count++
	switch p.state {
	case stReset:
		p.state, p.count = stWait, 0
	case stWait:
		if p.count >= p.FallDelay {
			p.state, p.count = stCalib, 0
		}
	case stCalib:
		if p.count >= p.LowCycles {
			p.state, p.count = stRun, 0
		}
	}
}
