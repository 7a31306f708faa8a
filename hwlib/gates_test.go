package hwlib_test

import (
	"strings"
	"testing"

	hw "github.com/db47h/wavebench/hwsim"
	hl "github.com/db47h/wavebench/hwlib"
	"github.com/db47h/wavebench/hwtest"
)

const testTPC = 8

// newTestCircuit returns a circuit where every input of gate is driven by a
// port wired to a top level signal of the same name. Outputs are wired to
// top level signals of the same name.
func newTestCircuit(t *testing.T, gate hw.NewPartFn) (*hw.Circuit, map[string]*hw.Port) {
	t.Helper()
	spec := gate("").PartSpec // dummy part, only used to get the pin names
	ports := make(map[string]*hw.Port)
	parts := make(hw.Parts, 0, len(spec.Inputs)+1)
	conns := make([]string, 0, len(spec.Inputs)+len(spec.Outputs))
	for _, n := range spec.Inputs {
		conns = append(conns, n+"="+n)
		p := hw.NewPort(n, 1)
		ports[n] = p
		parts = append(parts, p.Part())
	}
	for _, n := range spec.Outputs {
		conns = append(conns, n+"="+n)
	}
	parts = append(parts, gate(strings.Join(conns, ", ")))
	c, err := hw.NewCircuit(0, testTPC, parts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.Dispose)
	return c, ports
}

func testGate(t *testing.T, gate hw.NewPartFn, result [][]bool) {
	t.Helper()
	spec := gate("").PartSpec
	c, ports := newTestCircuit(t, gate)
	outs := make([]hw.Bus, len(spec.Outputs))
	for i, n := range spec.Outputs {
		b, err := c.Signal(n)
		if err != nil {
			t.Fatal(err)
		}
		outs[i] = b
	}
	// the first input is the most significant bit of the row index
	n := len(spec.Inputs)
	for row := 0; row < 1<<uint(n); row++ {
		for i, pin := range spec.Inputs {
			ports[pin].Set(int64(row>>uint(n-i-1)) & 1)
		}
		c.TickTock()
		for o, b := range outs {
			if got, want := b.Uint64(c) != 0, result[o][row]; got != want {
				t.Errorf("%s row %d: %s = %v, want %v", spec.Name, row, spec.Outputs[o], got, want)
			}
		}
	}
}

func Test_gate_builtin(t *testing.T) {
	tr, err := hw.Chip("TRUE", "a", "out",
		hl.And("a=true, b=true, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	fa, err := hw.Chip("FALSE", "a", "out",
		hl.Or("a=false, b=false, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	td := []struct {
		name   string
		gate   hw.NewPartFn
		result [][]bool // one row per input combination, first input is the MSB
	}{
		{"NOT", hl.Not, [][]bool{{true, false}}},
		{"AND", hl.And, [][]bool{{false, false, false, true}}},
		{"NAND", hl.Nand, [][]bool{{true, true, true, false}}},
		{"OR", hl.Or, [][]bool{{false, true, true, true}}},
		{"XOR", hl.Xor, [][]bool{{false, true, true, false}}},
		{"TRUE", tr, [][]bool{{true, true}}},
		{"FALSE", fa, [][]bool{{false, false}}},
		{"MUX", hl.Mux, [][]bool{{false, false, false, true, true, false, true, true}}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			testGate(t, d.gate, d.result)
		})
	}
}

func TestAndNWays(t *testing.T) {
	and4, err := hw.Chip("myAnd4Way", "in[4]", "out",
		hl.And("a=in[0], b=in[1], out=o1"),
		hl.And("a=in[2], b=in[3], out=o2"),
		hl.And("a=o1, b=o2, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, 4, hl.AndNWay(4), and4)
}
