// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Bus is a group of pins, least significant bit first.
//
type Bus []int

// Uint64 returns the current state of the bus as an unsigned value.
//
func (b Bus) Uint64(c *Circuit) uint64 {
	var v uint64
	for i, p := range b {
		if c.Get(p) {
			v |= 1 << uint(i)
		}
	}
	return v
}

// Int64 returns the current state of the bus as a two's complement value.
//
func (b Bus) Int64(c *Circuit) int64 {
	v := b.Uint64(c)
	if n := uint(len(b)); n > 0 && n < 64 && v&(1<<(n-1)) != 0 {
		v |= ^uint64(0) << n
	}
	return int64(v)
}

// SetInt64 sets the state of the bus to the low bits of v.
//
func (b Bus) SetInt64(c *Circuit, v int64) {
	for i, p := range b {
		c.Set(p, v&(1<<uint(i)) != 0)
	}
}

// Signal returns the pins of the named wire or bus. Names are hierarchical:
// wires of the top level circuit have plain names, wires internal to a chip
// instance are prefixed with the instance name, e.g.
// "wavelet_transform.fir_0.o_wavelet".
//
// A plain name that is not a wire resolves to the bus name[0], name[1], ...
//
func (c *Circuit) Signal(name string) (Bus, error) {
	if n, ok := c.names[name]; ok {
		return Bus{n}, nil
	}
	var b Bus
	for i := 0; ; i++ {
		n, ok := c.names[BusPinName(name, i)]
		if !ok {
			break
		}
		b = append(b, n)
	}
	if len(b) == 0 {
		return nil, errors.Errorf("signal %q not found", name)
	}
	return b, nil
}

// SignalInfo describes a named signal.
//
type SignalInfo struct {
	Name  string `json:"name"`
	Width int    `json:"width"`
}

// Signals returns all named signals of the circuit, with buses grouped
// together, sorted by name.
//
func (c *Circuit) Signals() []SignalInfo {
	width := make(map[string]int)
	for n := range c.names {
		if isConstant(n) && n != Clk {
			continue
		}
		i := strings.LastIndexByte(n, '[')
		if i < 0 || !strings.HasSuffix(n, "]") {
			width[n] = 1
			continue
		}
		idx, err := strconv.Atoi(n[i+1 : len(n)-1])
		if err != nil {
			width[n] = 1
			continue
		}
		if bus := n[:i]; width[bus] < idx+1 {
			width[bus] = idx + 1
		}
	}
	out := make([]SignalInfo, 0, len(width))
	for n, w := range width {
		out = append(out, SignalInfo{n, w})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
