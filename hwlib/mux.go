// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/wavebench/hwsim"
)

// Mux returns a multiplexer.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: if sel == 0 { out = a } else { out = b }
//
func Mux(w string) hwsim.Part { return mux.NewPart(w) }

var mux = hwsim.PartSpec{
	Name:    "MUX",
	Inputs:  []string{pA, pB, pSel},
	Outputs: []string{pOut},
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		a, b, sel, out := s.Pin(pA), s.Pin(pB), s.Pin(pSel), s.Pin(pOut)
		return []hwsim.Component{func(c *hwsim.Circuit) {
			if c.Get(sel) {
				c.Set(out, c.Get(b))
			} else {
				c.Set(out, c.Get(a))
			}
		}}
	},
}

// selBits returns the number of bits needed to select one of n ways.
//
func selBits(n int) int {
	b := 0
	for 1<<uint(b) < n {
		b++
	}
	if b == 0 {
		b = 1
	}
	return b
}

// wayName returns the input bus name for way k of a MuxMWayN: in0, in1, ...
//
func wayName(k int) string {
	return pIn + strconv.Itoa(k)
}

// MuxMWayN returns a M-Way N-bits Mux.
//
//	Inputs: in0[bits], in1[bits], ..., in{ways-1}[bits], sel[s]
//	Outputs: out[bits]
//	Function: if sel < ways { out = in{sel} } else { out = 0 }
//
// where s is the number of bits needed to encode ways-1.
//
func MuxMWayN(ways int, bits int) hwsim.NewPartFn {
	sb := selBits(ways)
	names := make([]string, ways)
	for k := range names {
		names[k] = wayName(k)
	}
	return (&hwsim.PartSpec{
		Name:    "MUX" + strconv.Itoa(ways) + "WAY" + strconv.Itoa(bits),
		Inputs:  append(bus(bits, names...), bus(sb, pSel)...),
		Outputs: bus(bits, pOut),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			ins := make([]hwsim.Bus, ways)
			for k := range ins {
				ins[k] = s.Bus(names[k], bits)
			}
			sel := s.Bus(pSel, sb)
			out := s.Bus(pOut, bits)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					k := int(sel.Uint64(c))
					if k >= ways {
						for _, p := range out {
							c.Set(p, false)
						}
						return
					}
					for i, p := range ins[k] {
						c.Set(out[i], c.Get(p))
					}
				}}
		}}).NewPart
}
