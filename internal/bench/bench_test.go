package bench_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/db47h/wavebench/internal/bench"
	"github.com/db47h/wavebench/internal/config"
	"github.com/db47h/wavebench/internal/dut"
	"github.com/db47h/wavebench/internal/source"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver records the operations of a bench. Every wait on the clock
// succeeds and advances time by one period.
type fakeDriver struct {
	clk    string
	values map[string]uint64
	ops    []string
	now    time.Duration
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{clk: "clk", values: make(map[string]uint64)}
}

func (d *fakeDriver) Set(name string, v int64) error {
	d.ops = append(d.ops, fmt.Sprintf("%s=%d", name, v))
	d.values[name] = uint64(v)
	return nil
}

func (d *fakeDriver) Get(name string) (uint64, error) {
	v, ok := d.values[name]
	if !ok {
		return 0, errors.Errorf("no signal %s", name)
	}
	return v, nil
}

func (d *fakeDriver) Wait(_ context.Context, name string, e bench.Edge, timeout time.Duration) error {
	if name != d.clk {
		return errors.Errorf("unexpected wait on %s", name)
	}
	d.ops = append(d.ops, "edge")
	d.now += 50 * time.Nanosecond
	return nil
}

func (d *fakeDriver) Now() time.Duration { return d.now }

func TestStimulate_sequence(t *testing.T) {
	cfg := config.Default()
	cfg.Stimulus.SwitchEvery = 1
	d := newFakeDriver()
	d.values[cfg.Signals.Select] = 0
	d.values[cfg.Signals.Output] = 7
	d.values[cfg.Checker.ReferenceFor(0)] = 7
	d.values[cfg.Checker.ReferenceFor(1)] = 7

	b := bench.New(d, cfg, nil)
	st, err := b.Stimulate(context.Background(), source.NewSlice(-128, 127, 3, -4), bench.StimulusOptions{Checked: true})
	require.NoError(t, err)
	assert.Equal(t, 2, st.Checks)
	assert.Equal(t, []string{
		"edge", "i_value=3", "i_data_clk=1", "edge", "i_data_clk=0",
		"edge", "edge",
		"edge", "edge", "edge", "edge",
		"edge", "i_select_output_channel=1", "i_value=-4", "i_data_clk=1", "edge", "i_data_clk=0",
		"edge", "edge",
		"edge", "edge", "edge", "edge",
	}, d.ops)
	assert.Equal(t, []bench.Entry{
		{Iteration: 0, Select: 0, Sample: 3, Value: 3, Checked: true},
		{Iteration: 1, Select: 1, Switched: true, Sample: -4, Value: -4, Checked: true},
	}, st.Trace.Entries)
}

func TestStimulate_unchecked(t *testing.T) {
	cfg := config.Default()
	d := newFakeDriver()
	b := bench.New(d, cfg, nil)
	st, err := b.Stimulate(context.Background(), source.NewSlice(-32768, 32767, 32767), bench.StimulusOptions{Convert: true})
	require.NoError(t, err)
	assert.Zero(t, st.Checks)
	assert.Equal(t, []string{
		"edge", "i_value=126", "i_data_clk=1", "edge", "i_data_clk=0",
		"edge", "edge", "edge", "edge",
	}, d.ops)
}

func TestStimulate_truncated(t *testing.T) {
	d := newFakeDriver()
	b := bench.New(d, config.Default(), nil)
	st, err := b.Stimulate(context.Background(), source.NewSlice(-128, 127, 1, 2), bench.StimulusOptions{Iterations: 5})
	require.NoError(t, err)
	assert.True(t, st.Trace.Truncated)
	assert.Equal(t, 2, st.Trace.Len())
}

func TestStimulate_out_of_range(t *testing.T) {
	d := newFakeDriver()
	b := bench.New(d, config.Default(), nil)
	st, err := b.Stimulate(context.Background(), source.NewSlice(-128, 127, 1, 128), bench.StimulusOptions{})
	var ae *bench.AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 1, ae.Iteration)
	assert.Equal(t, d.Now(), ae.At)
	assert.Equal(t, 1, st.Trace.Len())
}

func TestChecker(t *testing.T) {
	cfg := config.Default()
	d := newFakeDriver()
	chk := bench.NewChecker(d, cfg, nil)

	d.values[cfg.Signals.Select] = 0
	d.values[cfg.Signals.Output] = 5
	d.values[cfg.Checker.ReferenceFor(0)] = 5
	ok, err := chk.Check(0)
	require.NoError(t, err)
	assert.True(t, ok)

	// unchecked channel
	d.values[cfg.Signals.Select] = 5
	ok, err = chk.Check(1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, chk.Checks())

	d.values[cfg.Signals.Select] = 0
	d.values[cfg.Checker.ReferenceFor(0)] = 6
	d.now = time.Microsecond
	ok, err = chk.Check(2)
	assert.True(t, ok)
	var ae *bench.AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, int64(5), ae.Got)
	assert.Equal(t, int64(6), ae.Want)
	assert.Equal(t, 2, ae.Iteration)
	assert.Equal(t, time.Microsecond, ae.At)
	assert.Contains(t, ae.Error(), "iteration 2")
	assert.True(t, bench.IsFailure(err))
	assert.Equal(t, 2, chk.Checks())
}

func TestInitialCheck(t *testing.T) {
	cfg := config.Default()
	d := newFakeDriver()
	b := bench.New(d, cfg, nil)

	d.values[cfg.Signals.Output] = 0
	require.NoError(t, b.InitialCheck())
	d.values[cfg.Signals.Output] = 3
	var ae *bench.AssertionError
	require.ErrorAs(t, b.InitialCheck(), &ae)
	assert.Equal(t, int64(3), ae.Got)
}

func newBench(t *testing.T, cfg *config.Config) (*bench.Bench, *bench.SimDriver) {
	t.Helper()
	dev, err := dut.New(cfg.Clock.Workers, cfg.Clock.StepsPerCycle, cfg.Device)
	require.NoError(t, err)
	t.Cleanup(dev.Dispose)
	dev.SetPeriod(cfg.Clock.Period)
	d := bench.NewSimDriver(dev.Circuit, dev.Ports()...)
	d.SetDeadline(cfg.Deadline)
	return bench.New(d, cfg, nil), d
}

func TestPowerUp(t *testing.T) {
	cfg := config.Default()
	b, d := newBench(t, cfg)
	require.NoError(t, b.PowerUp(context.Background()))
	v, err := d.Get(cfg.Signals.Active)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
	// hold, gaps and settle delay
	assert.True(t, d.Now() >= time.Duration(8+3*8+80)*cfg.Clock.Period, "now = %v", d.Now())
	require.NoError(t, b.InitialCheck())
}

// recorder logs the signal writes and the non clock edges of a bench,
// stamped with simulated time.
type recorder struct {
	*bench.SimDriver
	clk string
	log []string
}

func (r *recorder) Set(name string, v int64) error {
	r.log = append(r.log, fmt.Sprintf("%v %s=%d", r.Now(), name, v))
	return r.SimDriver.Set(name, v)
}

func (r *recorder) Wait(ctx context.Context, name string, e bench.Edge, timeout time.Duration) error {
	err := r.SimDriver.Wait(ctx, name, e, timeout)
	if err == nil && name != r.clk {
		r.log = append(r.log, fmt.Sprintf("%v %s %s", r.Now(), name, e))
	}
	return err
}

func TestPowerUp_sequence(t *testing.T) {
	cfg := config.Default()
	_, d := newBench(t, cfg)
	r := &recorder{SimDriver: d, clk: cfg.Signals.Clock}
	b := bench.New(r, cfg, nil)

	require.NoError(t, b.PowerUp(context.Background()))
	// 8 cycles hold, rails 8 cycles apart, reset released 80 cycles after
	// the last rail, at 50ns per cycle.
	assert.Equal(t, []string{
		"0s RSTB=0",
		"0s power1=0",
		"0s power2=0",
		"0s power3=0",
		"0s power4=0",
		"400ns power1=1",
		"800ns power2=1",
		"1.2µs power3=1",
		"1.6µs power4=1",
		"5.6µs RSTB=1",
		"5.856µs o_active falling",
		"7.456µs o_active rising",
	}, r.log)
}

func TestPowerUp_timeout(t *testing.T) {
	cfg := config.Default()
	// rails enabled in the wrong order fault the device
	cfg.Signals.Power = []string{"power4", "power3", "power2", "power1"}
	cfg.Power.ActiveTimeout = 10 * time.Microsecond
	b, _ := newBench(t, cfg)

	err := b.PowerUp(context.Background())
	var te *bench.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, bench.Falling, te.Edge)
	assert.Equal(t, cfg.Power.ActiveTimeout, te.Budget)
	assert.Contains(t, err.Error(), "to fall")
}

func TestPowerUp_deadline(t *testing.T) {
	cfg := config.Default()
	cfg.Deadline = time.Microsecond
	b, _ := newBench(t, cfg)
	err := b.PowerUp(context.Background())
	require.ErrorIs(t, err, bench.ErrDeadline)
}

func TestStimulate_device(t *testing.T) {
	const n = 300
	cfg := config.Default()
	cfg.Stimulus.SwitchEvery = 20
	b, _ := newBench(t, cfg)
	ctx := context.Background()

	require.NoError(t, b.PowerUp(ctx))
	require.NoError(t, b.InitialCheck())
	st, err := b.Stimulate(ctx, source.NewChirp(n), bench.StimulusOptions{Iterations: n, Checked: true})
	require.NoError(t, err)
	require.Equal(t, n, st.Trace.Len())
	assert.False(t, st.Trace.Truncated)

	// channels 5 and 6 are not checked
	want := 0
	for _, e := range st.Trace.Entries {
		if e.Select <= 4 {
			want++
			assert.True(t, e.Checked, "iteration %d", e.Iteration)
		} else {
			assert.False(t, e.Checked, "iteration %d", e.Iteration)
		}
	}
	assert.Equal(t, want, st.Checks)

	// the trace does not depend on the device
	sched, err := bench.Schedule(source.NewChirp(n), n, cfg.Stimulus.SwitchEvery, cfg.Stimulus.Channels, false)
	require.NoError(t, err)
	assert.Equal(t, sched.Values(), st.Trace.Values())
	assert.Equal(t, sched.Selects(), st.Trace.Selects())
}
