// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strconv"
)

// Input returns a 1 bit input. f is called on every simulation step and its
// result is visible on the "out" pin from the next step.
//
func Input(f func() bool) NewPartFn {
	p := &PartSpec{
		Name:    "in",
		Inputs:  nil,
		Outputs: []string{"out"},
		Mount: func(s *Socket) []Component {
			out := s.Pin("out")
			return []Component{func(c *Circuit) {
				c.Set(out, f())
			}}
		}}
	return p.NewPart
}

// Output returns a 1 bit output. f is called on every simulation step with the
// current state of the "in" pin.
//
func Output(f func(value bool)) NewPartFn {
	p := &PartSpec{
		Name:    "out",
		Inputs:  []string{"in"},
		Outputs: nil,
		Mount: func(s *Socket) []Component {
			in := s.Pin("in")
			return []Component{func(c *Circuit) {
				f(c.Get(in))
			}}
		}}
	return p.NewPart
}

// InputN creates an input bus of the given bits size.
//
func InputN(bits int, f func() int64) NewPartFn {
	bs := strconv.Itoa(bits)
	return (&PartSpec{
		Name:    "Input" + bs,
		Inputs:  nil,
		Outputs: IO("out[" + bs + "]"),
		Mount: func(s *Socket) []Component {
			pins := s.Bus("out", bits)
			return []Component{func(c *Circuit) {
				pins.SetInt64(c, f())
			}}
		}}).NewPart
}

// OutputN creates an output bus of the given bits size.
//
func OutputN(bits int, f func(int64)) NewPartFn {
	bs := strconv.Itoa(bits)
	return (&PartSpec{
		Name:    "Output" + bs,
		Inputs:  IO("in[" + bs + "]"),
		Outputs: nil,
		Mount: func(s *Socket) []Component {
			pins := s.Bus("in", bits)
			return []Component{func(c *Circuit) {
				f(pins.Int64(c))
			}}
		}}).NewPart
}

// A Port is a circuit input driven from outside the simulation, typically by a
// testbench. A value written with Set becomes visible on the port's wire after
// the next simulation step.
//
// Ports must only be written while the circuit is not stepping.
//
type Port struct {
	name string
	bits int
	v    int64
}

// NewPort returns a new port of the given width. Its Part drives the wire (or
// bus) of the same name.
//
func NewPort(name string, bits int) *Port {
	if bits < 1 {
		bits = 1
	}
	return &Port{name: name, bits: bits}
}

// Name returns the name of the wire driven by the port.
//
func (p *Port) Name() string { return p.name }

// Bits returns the port width.
//
func (p *Port) Bits() int { return p.bits }

// Set sets the port value. Bits above the port width are ignored.
//
func (p *Port) Set(v int64) { p.v = v }

// Value returns the last value set.
//
func (p *Port) Value() int64 { return p.v }

// Fits returns true if v can be represented on the port, either as a signed
// or as an unsigned value.
//
func (p *Port) Fits(v int64) bool {
	if p.bits >= 64 {
		return true
	}
	return v >= -(1<<uint(p.bits-1)) && v < 1<<uint(p.bits)
}

// Part returns a part that drives the port value onto the circuit.
//
func (p *Port) Part() Part {
	if p.bits == 1 {
		return Input(func() bool { return p.v&1 != 0 })("out=" + p.name)
	}
	return InputN(p.bits, p.Value)("out=" + p.name)
}
