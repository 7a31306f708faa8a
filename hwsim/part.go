// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strconv"

	"github.com/db47h/wavebench/internal/hdl"
	"github.com/pkg/errors"
)

// A Component is a component in a circuit that can Get and Set states.
//
type Component func(c *Circuit)

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned pin numbers and return closures around
// these pin numbers.
//
// For example, a Not gate can be defined like this:
//
//	not := &PartSpec{
//		Name: "Not",
//		Inputs: IO("in"),
//		Outputs: IO("out"),
//		Mount: func (s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []Component{
//				func (c *Circuit) { c.Set(out, !c.Get(in)) },
//			}
//		}}
//
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
//
// Custom parts are implemented by creating a PartSpec:
//
//	notSpec := &hwsim.PartSpec{
//		Name: "Not",
//		Inputs: hwsim.IO("in"),
//		Outputs: hwsim.IO("out"),
//		Mount: func (s *hwsim.Socket) []hwsim.Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []hwsim.Component{
//				func (c *Circuit) { c.Set(out, !c.Get(in)) },
//			}
//		}}
//
// Then get a NewPartFn for that PartSpec:
//
//	var notGate = notSpec.NewPart
//
// Which can the be used when building other chips:
//
//	c, _ := Chip("dummy", "a, b", "c, d",
//		notGate("in=a, out=c"),
//		notGate("in=b, out=d"),
//	)
//
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Must be distinct pin names.
	// Use the IO() function to expand an input description like
	// "a, b, bus[2]" to []string{"a", "b", "bus[0]", "bus[1]"}
	Inputs []string
	// Output pin names. Must be distinct pin names.
	Outputs []string
	// Mount function (see MountFn).
	Mount MountFn
}

// A Connection connects the pin PP of a part to the wire CP in its container.
//
type Connection struct {
	PP string
	CP string
}

// A Part wraps a part specification together with its connections within a host
// chip.
//
type Part struct {
	*PartSpec
	Conns []Connection
}

// Parts is a convenience wrapper for []Part.
//
type Parts []Part

// A NewPartFn is a function that takes a connection configuration and returns a
// new Part. See ParseConnections for the syntax of the connection configuration
// string.
//
type NewPartFn func(connections string) Part

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// It panics if the connection string is invalid or references unknown pins.
//
func (p *PartSpec) NewPart(connections string) Part {
	conns, err := p.Connect(connections)
	if err != nil {
		panic(err)
	}
	return Part{p, conns}
}

// Connect parses the given connection string and resolves it against the
// part's pins.
//
// Bus pins can be connected bit by bit, by range or by name. All of these are
// equivalent for a part with an input bus "in[4]":
//
//	"in[0]=x[0], in[1]=x[1], in[2]=x[2], in[3]=x[3]"
//	"in[0..3]=x[0..3]"
//	"in=x"
//
// Constants (true, false) are replicated over the whole bus: "in=false".
//
func (p *PartSpec) Connect(connections string) ([]Connection, error) {
	as, err := ParseConnections(connections)
	if err != nil {
		return nil, err
	}
	pins := make(map[string]bool, len(p.Inputs)+len(p.Outputs))
	for _, n := range p.Inputs {
		pins[n] = true
	}
	for _, n := range p.Outputs {
		pins[n] = true
	}

	var conns []Connection
	seen := make(map[string]bool)
	for _, a := range as {
		pps, err := p.partPins(a.PP, pins)
		if err != nil {
			return nil, err
		}
		cps, err := chipPins(a.CP, len(pps))
		if err != nil {
			return nil, errors.Wrap(err, "part "+p.Name)
		}
		for i, pp := range pps {
			if seen[pp] {
				return nil, errors.New("pin " + pp + " connected more than once in part " + p.Name)
			}
			seen[pp] = true
			conns = append(conns, Connection{pp, cps[i]})
		}
	}
	return conns, nil
}

// partPins expands the left hand side of an assignment.
//
func (p *PartSpec) partPins(pp hdl.Pin, pins map[string]bool) ([]string, error) {
	if pp.IsRange() {
		out := make([]string, pp.Len())
		for i := range out {
			out[i] = BusPinName(pp.Name, pp.Index(i))
			if !pins[out[i]] {
				return nil, errors.New("invalid pin name " + out[i] + " for part " + p.Name)
			}
		}
		return out, nil
	}
	if pins[pp.Name] {
		return []string{pp.Name}, nil
	}
	var out []string
	for i := 0; pins[BusPinName(pp.Name, i)]; i++ {
		out = append(out, BusPinName(pp.Name, i))
	}
	if len(out) == 0 {
		return nil, errors.New("invalid pin name " + pp.Name + " for part " + p.Name)
	}
	return out, nil
}

// chipPins expands the right hand side of an assignment to n wire names.
//
func chipPins(cp hdl.Pin, n int) ([]string, error) {
	out := make([]string, n)
	switch {
	case cp.IsRange() && cp.Len() == n:
		for i := range out {
			out[i] = BusPinName(cp.Name, cp.Index(i))
		}
	case cp.IsRange() && cp.Len() == 1:
		for i := range out {
			out[i] = BusPinName(cp.Name, cp.Start)
		}
	case cp.IsRange():
		return nil, errors.New("pin count mismatch for " + cp.Name)
	case n == 1 || isConstant(cp.Name):
		for i := range out {
			out[i] = cp.Name
		}
	default:
		for i := range out {
			out[i] = BusPinName(cp.Name, i)
		}
	}
	return out, nil
}

// ParseConnections parses a connection configuration like "partPinX=chipPinY, ..."
//
// Each component of the comma separated list must be of the form:
//
//	partPin=chipPin
//	partBus[i]=chipBus[j]
//	partBus[i..j]=chipBus[k..l]
//
// where partPin is a pin name of the part and chipPin the name of a wire in
// the host chip. Wire names may contain dots, e.g. "fir_0.o_wavelet".
//
func ParseConnections(c string) ([]hdl.Assignment, error) {
	return hdl.Connections(c)
}

// IO expands a pin specification like "a, b, bus[2]" to individual pin names:
// []string{"a", "b", "bus[0]", "bus[1]"}. It panics if the specification is
// invalid.
//
func IO(spec string) []string {
	pins, err := ParseIOSpec(spec)
	if err != nil {
		panic(err)
	}
	return pins
}

// ParseIOSpec is like IO but returns an error instead of panicking.
//
func ParseIOSpec(spec string) ([]string, error) {
	ps, err := hdl.IOSpec(spec)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, p := range ps {
		if !p.IsRange() {
			out = append(out, p.Name)
			continue
		}
		for i := 0; i < p.Len(); i++ {
			out = append(out, BusPinName(p.Name, i))
		}
	}
	return out, nil
}

// BusPinName returns the pin name for the n-th bit of the given bus.
//
func BusPinName(bus string, n int) string {
	return bus + "[" + strconv.Itoa(n) + "]"
}
