// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
//
package hwtest

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/wavebench/hwsim"
)

// maxRandomBits caps the number of random input vectors to 1<<maxRandomBits.
//
const maxRandomBits = 12

func samePins(t *testing.T, what string, a, b []string) {
	t.Helper()
	if len(a) != len(b) {
		t.Fatalf("%s: %d pins != %d pins", what, len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("%s: pin %d is %q != %q", what, i, a[i], b[i])
		}
	}
}

// wire connects pins to top level wires named outPrefix+pin for outputs
// and pin for inputs.
func wire(spec *hwsim.PartSpec, outPrefix string) string {
	conns := make([]string, 0, len(spec.Inputs)+len(spec.Outputs))
	for _, p := range spec.Inputs {
		conns = append(conns, p+"="+p)
	}
	for _, p := range spec.Outputs {
		conns = append(conns, p+"="+outPrefix+p)
	}
	return strings.Join(conns, ", ")
}

// ComparePart takes two parts and compares their outputs given the same
// inputs. Both parts must have the same Input/Output interface.
//
// Inputs are driven with all zeros, all ones, then random vectors. Each
// vector is applied for one clock cycle.
//
func ComparePart(t *testing.T, tpc uint, part1 hwsim.NewPartFn, part2 hwsim.NewPartFn) {
	t.Helper()

	seed := time.Now().UnixNano()
	r := rand.New(rand.NewSource(seed))

	spec1, spec2 := part1("").PartSpec, part2("").PartSpec
	samePins(t, "inputs", spec1.Inputs, spec2.Inputs)
	samePins(t, "outputs", spec1.Outputs, spec2.Outputs)

	ins := make([]*hwsim.Port, len(spec1.Inputs))
	parts := make(hwsim.Parts, 0, len(ins)+2)
	for i, n := range spec1.Inputs {
		ins[i] = hwsim.NewPort(n, 1)
		parts = append(parts, ins[i].Part())
	}
	parts = append(parts,
		part1(wire(spec1, "x.")),
		part2(wire(spec2, "y.")))

	c, err := hwsim.NewCircuit(0, tpc, parts...)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	outs := make([][2]hwsim.Bus, len(spec1.Outputs))
	for i, n := range spec1.Outputs {
		for j, prefix := range []string{"x.", "y."} {
			if outs[i][j], err = c.Signal(prefix + n); err != nil {
				t.Fatal(err)
			}
		}
	}

	check := func(vector string) {
		t.Helper()
		c.TickTock()
		for i, o := range outs {
			if x, y := o[0].Uint64(c), o[1].Uint64(c); x != y {
				t.Fatalf("seed %d, inputs %s: %s=%d in %s, %d in %s", seed, vector, spec1.Outputs[i], x, spec1.Name, y, spec2.Name)
			}
		}
	}
	apply := func(bit func(int) int64) {
		t.Helper()
		var b strings.Builder
		for i, p := range ins {
			v := bit(i)
			p.Set(v)
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(spec1.Inputs[i])
			b.WriteByte('=')
			b.WriteByte(byte('0' + v))
		}
		check(b.String())
	}

	start := time.Now()
	c.TickTock()
	apply(func(int) int64 { return 0 })
	apply(func(int) int64 { return 1 })
	n := len(ins)
	if n > maxRandomBits {
		n = maxRandomBits
	}
	for i := 0; i < 1<<uint(n); i++ {
		apply(func(int) int64 { return r.Int63n(2) })
	}

	elapsed := time.Since(start)
	ticks := c.Steps() / c.SPC()
	t.Logf("%d components. %d steps in %v. %d clock ticks => %.2f Hz", c.Size(), c.Steps(), elapsed, ticks, float64(ticks)/elapsed.Seconds())
}
