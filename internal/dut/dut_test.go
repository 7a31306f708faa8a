package dut_test

import (
	"testing"

	"github.com/db47h/wavebench/hwsim"
	"github.com/db47h/wavebench/internal/dut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDevice struct {
	*dut.Device
	t     *testing.T
	ports map[string]*hwsim.Port
}

func newDevice(t *testing.T) *testDevice {
	t.Helper()
	d, err := dut.New(0, 8, dut.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(d.Dispose)
	ports := make(map[string]*hwsim.Port)
	for _, p := range d.Ports() {
		ports[p.Name()] = p
	}
	return &testDevice{d, t, ports}
}

func (d *testDevice) set(name string, v int64) {
	p, ok := d.ports[name]
	require.True(d.t, ok, "no port %s", name)
	p.Set(v)
}

func (d *testDevice) get(name string) int64 {
	b, err := d.Signal(name)
	require.NoError(d.t, err)
	return b.Int64(d.Circuit)
}

func (d *testDevice) active() bool {
	b, err := d.Signal(dut.Active)
	require.NoError(d.t, err)
	return b.Uint64(d.Circuit) != 0
}

func (d *testDevice) cycles(n int) {
	for i := 0; i < n; i++ {
		d.TickTock()
	}
}

// powerUp runs a valid bring-up and returns once the device is active.
func (d *testDevice) powerUp() {
	d.cycles(8)
	for _, r := range dut.PowerRails {
		d.set(r, 1)
		d.cycles(8)
	}
	d.set(dut.Reset, 1)
	for i := 0; i < 100; i++ {
		d.cycles(1)
		if !d.active() {
			break
		}
	}
	require.False(d.t, d.active(), "o_active never fell")
	for i := 0; i < 100; i++ {
		d.cycles(1)
		if d.active() {
			return
		}
	}
	d.t.Fatal("o_active never rose")
}

func (d *testDevice) strobe(v int64) {
	d.set(dut.Value, v)
	d.set(dut.Strobe, 1)
	d.cycles(1)
	d.set(dut.Strobe, 0)
	d.cycles(2)
}

func TestSignals(t *testing.T) {
	d := newDevice(t)
	widths := make(map[string]int)
	for _, s := range d.Signals() {
		widths[s.Name] = s.Width
	}
	assert.Equal(t, 1, widths[dut.Reset])
	assert.Equal(t, 1, widths[dut.Active])
	assert.Equal(t, dut.ValueBits, widths[dut.Value])
	assert.Equal(t, dut.SelectBits, widths[dut.Select])
	assert.Equal(t, dut.OutputBits, widths[dut.Output])
	for k := 0; k < dut.Channels; k++ {
		assert.Equal(t, dut.OutputBits, widths[dut.Reference(k)], "channel %d", k)
	}
}

func TestPowerUp(t *testing.T) {
	d := newDevice(t)
	d.cycles(4)
	assert.True(t, d.active(), "o_active must be high in reset")
	d.powerUp()
}

func TestPowerUp_no_release(t *testing.T) {
	d := newDevice(t)
	for _, r := range dut.PowerRails {
		d.set(r, 1)
		d.cycles(8)
	}
	for i := 0; i < 100; i++ {
		d.cycles(1)
		require.True(t, d.active(), "cycle %d", i)
	}
}

func TestPowerUp_rails_out_of_order(t *testing.T) {
	d := newDevice(t)
	d.cycles(8)
	for _, r := range []string{"power2", "power1", "power3", "power4"} {
		d.set(r, 1)
		d.cycles(8)
	}
	d.set(dut.Reset, 1)
	for i := 0; i < 100; i++ {
		d.cycles(1)
		require.True(t, d.active(), "cycle %d", i)
	}
}

func TestPowerUp_rails_too_close(t *testing.T) {
	d := newDevice(t)
	for _, r := range dut.PowerRails {
		d.set(r, 1)
		d.cycles(1)
	}
	d.set(dut.Reset, 1)
	for i := 0; i < 100; i++ {
		d.cycles(1)
		require.True(t, d.active(), "cycle %d", i)
	}
}

func TestChannels(t *testing.T) {
	d := newDevice(t)
	d.powerUp()
	assert.Equal(t, int64(0), d.get(dut.Output))

	d.strobe(10)
	for k := 0; k < dut.Channels; k++ {
		assert.Equal(t, int64(10), d.get(dut.Reference(k)), "channel %d", k)
	}
	d.strobe(20)
	assert.Equal(t, int64(10), d.get(dut.Reference(0)))
	assert.Equal(t, int64(30), d.get(dut.Reference(1)))
	d.strobe(-128)
	// newest: -128; previous: 20
	assert.Equal(t, int64(-148), d.get(dut.Reference(0)))
	// newest two: 20 + -128, previous two: 10 + 0
	assert.Equal(t, int64(-118), d.get(dut.Reference(1)))
	// all within the newest half
	assert.Equal(t, int64(-98), d.get(dut.Reference(2)))

	for k := 0; k < dut.Channels; k++ {
		d.set(dut.Select, int64(k))
		d.cycles(2)
		assert.Equal(t, d.get(dut.Reference(k)), d.get(dut.Output), "select %d", k)
	}
	d.set(dut.Select, 7)
	d.cycles(2)
	assert.Equal(t, int64(0), d.get(dut.Output))
}

func TestStrobe_edge(t *testing.T) {
	d := newDevice(t)
	d.powerUp()

	// a strobe held high latches a single sample
	d.set(dut.Value, 7)
	d.set(dut.Strobe, 1)
	d.cycles(4)
	d.set(dut.Strobe, 0)
	d.cycles(2)
	assert.Equal(t, int64(7), d.get(dut.Reference(0)))
}

func TestStrobe_ignored_in_reset(t *testing.T) {
	d := newDevice(t)
	d.strobe(42)
	for k := 0; k < dut.Channels; k++ {
		assert.Equal(t, int64(0), d.get(dut.Reference(k)), "channel %d", k)
	}
}
