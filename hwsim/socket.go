// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import "strconv"

// Constant input pin names.
//
var (
	True  = "true"
	False = "false"
	GND   = "false"
	Clk   = "clk"
)

const (
	cstFalse = iota
	cstTrue
	cstClk
	cstCount
)

func isConstant(name string) bool {
	return name == True || name == False || name == Clk
}

// A Socket maps a part's pin names to pin numbers in a circuit.
//
type Socket struct {
	m    map[string]int
	c    *Circuit
	path string
}

func newSocket(c *Circuit, path string) *Socket {
	return &Socket{
		m:    map[string]int{False: cstFalse, True: cstTrue, Clk: cstClk},
		c:    c,
		path: path,
	}
}

// Pin returns the pin number allocated to the given pin name.
// This function panics if the pin does not exist.
//
func (s *Socket) Pin(name string) int {
	n, ok := s.m[name]
	if !ok {
		panic("pin " + name + " does not exist")
	}
	return n
}

// PinOrNew returns the pin number allocated to the given pin name.
// If no such pin exists a new one is allocated and registered under the
// socket's hierarchical path.
//
func (s *Socket) PinOrNew(name string) int {
	n, ok := s.m[name]
	if !ok {
		n = s.c.allocPin()
		s.alias(name, n)
	}
	return n
}

// alias maps name to pin n and makes it visible to Circuit.Signal.
//
func (s *Socket) alias(name string, n int) {
	s.m[name] = n
	if isConstant(name) {
		return
	}
	p := s.path + name
	if _, ok := s.c.names[p]; !ok {
		s.c.names[p] = n
	}
}

// Bus returns the pin numbers allocated to the given bus name.
// This function panics if any of the bus pins does not exist.
//
func (s *Socket) Bus(name string, bits int) Bus {
	out := make(Bus, bits)
	for i := range out {
		out[i] = s.Pin(BusPinName(name, i))
	}
	return out
}

// Path returns the hierarchical path of the chip instance the socket belongs
// to, e.g. "wavelet_transform.".
//
func (s *Socket) Path() string {
	return s.path
}

// instancePath returns a unique path for a chip instance named name, mounted
// in the container at path parent.
//
func (c *Circuit) instancePath(parent, name string) string {
	if name == "" {
		return parent
	}
	p := parent + name
	n := c.paths[p]
	c.paths[p] = n + 1
	if n > 0 {
		p += "#" + strconv.Itoa(n)
	}
	return p + "."
}

// mountPart mounts part p in the container described by parent. Pins of p
// that are not connected are wired to False for inputs and to anonymous pins
// for outputs.
//
func mountPart(parent *Socket, p Part) []Component {
	sub := newSocket(parent.c, parent.path)
	for _, cn := range p.Conns {
		sub.m[cn.PP] = parent.PinOrNew(cn.CP)
	}
	for _, n := range p.Inputs {
		if _, ok := sub.m[n]; !ok {
			sub.m[n] = cstFalse
		}
	}
	for _, n := range p.Outputs {
		if _, ok := sub.m[n]; !ok {
			sub.m[n] = parent.c.allocPin()
		}
	}
	return p.Mount(sub)
}
