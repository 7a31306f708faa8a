package hwsim_test

import (
	"testing"

	hl "github.com/db47h/wavebench/hwlib"
	hw "github.com/db47h/wavebench/hwsim"
	"github.com/db47h/wavebench/hwtest"
)

type testPart struct {
	A   [4]int `hw:"in"`
	B   [4]int `hw:"in"`
	Sel int    `hw:"in"`
	Out [4]int `hw:"out"`
}

func (t *testPart) Update(c *hw.Circuit) {
	src := t.A
	if c.Get(t.Sel) {
		src = t.B
	}
	for i, p := range src {
		c.Set(t.Out[i], c.Get(p))
	}
}

func Test_MakePart(t *testing.T) {
	m, err := hw.Chip("myMux4", "a[4], b[4], sel", "out[4]",
		hl.Mux("a=a[0], b=b[0], sel=sel, out=out[0]"),
		hl.Mux("a=a[1], b=b[1], sel=sel, out=out[1]"),
		hl.Mux("a=a[2], b=b[2], sel=sel, out=out[2]"),
		hl.Mux("a=a[3], b=b[3], sel=sel, out=out[3]"),
	)
	if err != nil {
		t.Fatal(err)
	}

	p := hw.MakePart((*testPart)(nil)).NewPart
	hwtest.ComparePart(t, 4, p, m)
}

// counter counts rising edges of its input, starting at Start.
type counter struct {
	Start int64
	In    int    `hw:"in,inc"`
	Out   [8]int `hw:"out,count"`

	n    int64
	prev bool
}

func (ct *counter) Update(c *hw.Circuit) {
	if c.AtTick() {
		if ct.n == 0 {
			ct.n = ct.Start
		}
		in := c.Get(ct.In)
		if in && !ct.prev {
			ct.n++
		}
		ct.prev = in
	}
	hw.Bus(ct.Out[:]).SetInt64(c, ct.n)
}

func Test_MakePart_prototype(t *testing.T) {
	spec := hw.MakePart(&counter{Start: 10})
	if spec.Name != "counter" {
		t.Fatalf("Name = %q", spec.Name)
	}
	if len(spec.Inputs) != 1 || spec.Inputs[0] != "inc" || len(spec.Outputs) != 8 || spec.Outputs[7] != "count[7]" {
		t.Fatalf("bad pin lists %v, %v", spec.Inputs, spec.Outputs)
	}

	var inc bool
	var a, b int64
	c, err := hw.NewCircuit(0, testTPC,
		hw.Input(func() bool { return inc })("out=inc"),
		spec.NewPart("inc=inc, count=ca"),
		spec.NewPart("inc=inc, count=cb"),
		hw.OutputN(8, func(v int64) { a = v })("in=ca"),
		hw.OutputN(8, func(v int64) { b = v })("in=cb"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	for i := 0; i < 3; i++ {
		inc = true
		c.TickTock()
		inc = false
		c.TickTock()
	}
	c.TickTock()
	if a != 13 || b != 13 {
		t.Fatalf("counters = %d, %d, expected 13, 13", a, b)
	}
}
