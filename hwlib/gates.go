// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable parts for hwsim.
//
package hwlib

import (
	"strconv"

	"github.com/db47h/wavebench/hwsim"
)

// common pin names
const (
	pA   = "a"
	pB   = "b"
	pIn  = "in"
	pSel = "sel"
	pOut = "out"
)

// bus returns the pin names of buses names[i][bits].
func bus(bits int, names ...string) []string {
	b := make([]string, 0, len(names)*bits)
	for _, n := range names {
		for j := 0; j < bits; j++ {
			b = append(b, hwsim.BusPinName(n, j))
		}
	}
	return b
}

// logic is a two inputs boolean function.
type logic func(a, b bool) bool

// gate returns the spec of a gate computing out = f(a, b).
//
func (f logic) gate(name string) *hwsim.PartSpec {
	return &hwsim.PartSpec{
		Name:    name,
		Inputs:  []string{pA, pB},
		Outputs: []string{pOut},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			a, b, out := s.Pin(pA), s.Pin(pB), s.Pin(pOut)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				c.Set(out, f(c.Get(a), c.Get(b)))
			}}
		},
	}
}

var (
	and  = logic(func(a, b bool) bool { return a && b }).gate("AND")
	nand = logic(func(a, b bool) bool { return !(a && b) }).gate("NAND")
	or   = logic(func(a, b bool) bool { return a || b }).gate("OR")
	xor  = logic(func(a, b bool) bool { return a != b }).gate("XOR")
)

var not = hwsim.PartSpec{
	Name:    "NOT",
	Inputs:  []string{pIn},
	Outputs: []string{pOut},
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		in, out := s.Pin(pIn), s.Pin(pOut)
		return []hwsim.Component{func(c *hwsim.Circuit) {
			c.Set(out, !c.Get(in))
		}}
	},
}

// Not returns a NOT gate.
//
//	Inputs: in
//	Outputs: out
//	Function: out = !in
//
func Not(w string) hwsim.Part { return not.NewPart(w) }

// And returns a AND gate with inputs a, b and output out.
//
func And(w string) hwsim.Part { return and.NewPart(w) }

// Nand returns a NAND gate with inputs a, b and output out.
//
func Nand(w string) hwsim.Part { return nand.NewPart(w) }

// Or returns a OR gate with inputs a, b and output out.
//
func Or(w string) hwsim.Part { return or.NewPart(w) }

// Xor returns a XOR gate with inputs a, b and output out.
//
func Xor(w string) hwsim.Part { return xor.NewPart(w) }

// AndNWay returns a N-Way AND gate.
//
//	Inputs: in[ways]
//	Outputs: out
//	Function: out = in[0] && in[1] && ... && in[ways-1]
//
func AndNWay(ways int) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "AND" + strconv.Itoa(ways) + "Way",
		Inputs:  bus(ways, pIn),
		Outputs: []string{pOut},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.Bus(pIn, ways), s.Pin(pOut)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				v := true
				for _, pin := range in {
					if !c.Get(pin) {
						v = false
						break
					}
				}
				c.Set(out, v)
			}}
		},
	}).NewPart
}
