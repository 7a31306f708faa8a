// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"github.com/pkg/errors"
)

type chip struct {
	PartSpec        // PartSpec for this chip
	parts    []Part // sub parts
}

func (c *chip) mount(s *Socket) []Component {
	// the chip's own socket: exported pins map to the wires of the host,
	// internal wires are allocated on demand under the instance path.
	cs := newSocket(s.c, s.c.instancePath(s.path, c.Name))
	for _, n := range c.Inputs {
		cs.alias(n, s.Pin(n))
	}
	for _, n := range c.Outputs {
		cs.alias(n, s.Pin(n))
	}

	var updaters []Component
	for _, p := range c.parts {
		updaters = append(updaters, mountPart(cs, p)...)
	}
	return updaters
}

// Chip composes existing parts into a new part packaged into a chip.
// The pin names specified as inputs and outputs will be the inputs
// and outputs of the chip.
//
// An Xor gate could be created like this:
//
//	xor, err := Chip("XOR", "a, b", "out",
//		hwlib.Nand("a=a, b=b, out=nandAB"),
//		hwlib.Nand("a=a, b=nandAB, out=w0"),
//		hwlib.Nand("a=b, b=nandAB, out=w1"),
//		hwlib.Nand("a=w0, b=w1, out=out"),
//	)
//
// The returned value is a function of type NewPartFn that can be used to
// compose the new part with others into other chips:
//
//	xnor, err := Chip("XNOR", "a, b", "out",
//		xor("a=a, b=b, out=xorAB"),
//		hwlib.Not("in=xorAB, out=out"),
//	)
//
// Internal wires of a chip instance are visible to Circuit.Signal under the
// chip name, e.g. "XNOR.xorAB". Multiple instances of the same chip in the
// same container are numbered: "XNOR#1.xorAB".
//
func Chip(name string, inputs string, outputs string, parts ...Part) (NewPartFn, error) {
	ins, err := ParseIOSpec(inputs)
	if err != nil {
		return nil, errors.Wrap(err, name+" inputs")
	}
	outs, err := ParseIOSpec(outputs)
	if err != nil {
		return nil, errors.Wrap(err, name+" outputs")
	}

	// driven maps wire names to the name of the pin driving it.
	driven := map[string]string{True: True, False: False, Clk: Clk}
	for _, n := range ins {
		if _, ok := driven[n]; ok {
			return nil, errors.New("duplicate or reserved input pin name " + n + " in chip " + name)
		}
		driven[n] = n
	}
	exported := make(map[string]bool, len(outs))
	for _, n := range outs {
		if _, ok := driven[n]; ok || exported[n] {
			return nil, errors.New("duplicate or reserved output pin name " + n + " in chip " + name)
		}
		exported[n] = true
	}

	// outputs first
	for _, p := range parts {
		in := pinSet(p.Inputs)
		for _, cn := range p.Conns {
			if in[cn.PP] {
				continue
			}
			pn := p.Name + "." + cn.PP + ":" + cn.CP
			if isConstant(cn.CP) {
				return nil, errors.New(pn + ": output pin connected to constant " + cn.CP + " input")
			}
			if d, ok := driven[cn.CP]; ok {
				if d == cn.CP {
					return nil, errors.New(pn + ": chip input pin used as output")
				}
				return nil, errors.New(pn + ": output pin already used as output")
			}
			driven[cn.CP] = p.Name + "." + cn.PP
		}
	}
	// then check that all inputs are driven
	for _, p := range parts {
		in := pinSet(p.Inputs)
		for _, cn := range p.Conns {
			if !in[cn.PP] {
				continue
			}
			if _, ok := driven[cn.CP]; !ok {
				return nil, errors.New("pin " + cn.CP + " not connected to any output")
			}
		}
	}
	for _, n := range outs {
		if _, ok := driven[n]; !ok {
			return nil, errors.New("chip output pin " + n + " not connected to any output")
		}
	}

	c := &chip{
		PartSpec{
			Name:    name,
			Inputs:  ins,
			Outputs: outs,
		},
		parts,
	}
	c.PartSpec.Mount = c.mount
	return c.PartSpec.NewPart, nil
}

func pinSet(pins []string) map[string]bool {
	m := make(map[string]bool, len(pins))
	for _, p := range pins {
		m[p] = true
	}
	return m
}
