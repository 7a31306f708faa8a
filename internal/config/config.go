// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads the bench configuration.
//
// A configuration file is a YAML document overlaid on Default(): fields
// omitted from the file keep their default value. Unknown fields are
// rejected.
//
package config

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/db47h/wavebench/internal/dut"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Scenario names.
//
const (
	ScenarioPowerUp = "power_up"
	ScenarioAudio   = "audio"
	ScenarioSweep   = "sweep"
)

// Scenarios lists all known scenarios in their default run order.
//
var Scenarios = []string{ScenarioPowerUp, ScenarioAudio, ScenarioSweep}

// Config is the bench configuration.
//
type Config struct {
	Clock    Clock      `yaml:"clock"`
	Signals  Signals    `yaml:"signals"`
	Power    Power      `yaml:"power"`
	Stimulus Stimulus   `yaml:"stimulus"`
	Checker  Checker    `yaml:"checker"`
	Sweep    Sweep      `yaml:"sweep"`
	Audio    Audio      `yaml:"audio"`
	Device   dut.Config `yaml:"device"`

	// Deadline bounds the simulated time of every scenario. Zero means no
	// deadline.
	Deadline time.Duration `yaml:"deadline"`

	// Scenarios to run, in order.
	Scenarios []string `yaml:"scenarios"`
}

// Clock configures the simulator clock.
//
type Clock struct {
	Period        time.Duration `yaml:"period"`
	StepsPerCycle uint          `yaml:"steps_per_cycle"`
	Workers       int           `yaml:"workers"`
}

// Signals maps the device signal roles to signal names.
//
type Signals struct {
	Clock  string   `yaml:"clock"`
	Reset  string   `yaml:"reset"`
	Power  []string `yaml:"power"`
	Active string   `yaml:"active"`
	Strobe string   `yaml:"strobe"`
	Value  string   `yaml:"value"`
	Select string   `yaml:"select"`
	Output string   `yaml:"output"`
}

// Power configures the power-up sequence.
//
type Power struct {
	Hold          int           `yaml:"hold"`           // cycles before the first rail
	Gap           int           `yaml:"gap"`            // cycles between rails
	Settle        int           `yaml:"settle"`         // cycles between the last rail and reset release
	ActiveTimeout time.Duration `yaml:"active_timeout"` // bound of each o_active edge wait
}

// Stimulus configures the stimulus loop.
//
type Stimulus struct {
	SwitchEvery int `yaml:"switch_every"` // iterations between channel switches
	Channels    int `yaml:"channels"`     // channel count, the select value is counter mod Channels
	CheckAfter  int `yaml:"check_after"`  // edges between strobe deassertion and the check
	Settle      int `yaml:"settle"`       // edges after the check (or after deassertion when unchecked)
}

// Checker configures the output checker.
//
type Checker struct {
	// Reference is the name pattern of the per-channel reference signals.
	// "{k}" is replaced with the channel index.
	Reference string `yaml:"reference"`
	Channels  []int  `yaml:"channels"`
	// Before data scenarios, check that the output reads zero.
	InitialZero bool `yaml:"initial_zero"`
}

// Sweep configures the synthetic scenario.
//
type Sweep struct {
	Iterations int  `yaml:"iterations"`
	Checked    bool `yaml:"checked"`
}

// Audio configures the audio replay scenario.
//
type Audio struct {
	File     string `yaml:"file"`
	Divisor  int    `yaml:"divisor"`
	Decimate bool   `yaml:"decimate"`
	Checked  bool   `yaml:"checked"`
}

// Default returns the reference configuration.
//
func Default() *Config {
	return &Config{
		Clock: Clock{
			Period:        50 * time.Nanosecond,
			StepsPerCycle: 8,
		},
		Signals: Signals{
			Clock:  "clk",
			Reset:  dut.Reset,
			Power:  append([]string(nil), dut.PowerRails...),
			Active: dut.Active,
			Strobe: dut.Strobe,
			Value:  dut.Value,
			Select: dut.Select,
			Output: dut.Output,
		},
		Power: Power{
			Hold:          8,
			Gap:           8,
			Settle:        80,
			ActiveTimeout: 700 * time.Microsecond,
		},
		Stimulus: Stimulus{
			SwitchEvery: 200,
			Channels:    dut.Channels,
			CheckAfter:  2,
			Settle:      4,
		},
		Checker: Checker{
			Reference:   dut.Name + ".fir_{k}.o_wavelet",
			Channels:    []int{0, 1, 2, 3, 4},
			InitialZero: true,
		},
		Sweep: Sweep{
			Iterations: 5000,
			Checked:    true,
		},
		Audio: Audio{
			Divisor: 10,
		},
		Device:    dut.DefaultConfig(),
		Scenarios: append([]string(nil), Scenarios...),
	}
}

// ReferenceFor returns the reference signal name for channel k.
//
func (c *Checker) ReferenceFor(k int) string {
	return strings.ReplaceAll(c.Reference, "{k}", strconv.Itoa(k))
}

// Load reads the named configuration file, overlays it on the defaults and
// validates the result.
//
func Load(name string) (*Config, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read configuration")
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return c, nil
}

// Parse is like Load but reads the configuration from data.
//
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to parse YAML")
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return c, nil
}

// Validate checks the configuration for consistency.
//
func (c *Config) Validate() error {
	switch {
	case c.Clock.Period <= 0:
		return errors.New("clock.period must be positive")
	case c.Clock.StepsPerCycle < 2:
		return errors.New("clock.steps_per_cycle must be at least 2")
	case c.Power.Hold < 0 || c.Power.Gap < 0 || c.Power.Settle < 0:
		return errors.New("power cycle counts must not be negative")
	case c.Power.ActiveTimeout <= 0:
		return errors.New("power.active_timeout must be positive")
	case len(c.Signals.Power) == 0:
		return errors.New("signals.power must list at least one rail")
	case c.Stimulus.SwitchEvery < 0:
		return errors.New("stimulus.switch_every must not be negative")
	case c.Stimulus.Channels < 1 || c.Stimulus.Channels > 8:
		return errors.New("stimulus.channels must be in [1, 8]")
	case c.Stimulus.CheckAfter < 0 || c.Stimulus.Settle < 0:
		return errors.New("stimulus edge counts must not be negative")
	case c.Sweep.Iterations < 0:
		return errors.New("sweep.iterations must not be negative")
	case c.Audio.Divisor < 1:
		return errors.New("audio.divisor must be at least 1")
	case c.Deadline < 0:
		return errors.New("deadline must not be negative")
	}
	for _, s := range []struct{ field, name string }{
		{"clock", c.Signals.Clock},
		{"reset", c.Signals.Reset},
		{"active", c.Signals.Active},
		{"strobe", c.Signals.Strobe},
		{"value", c.Signals.Value},
		{"select", c.Signals.Select},
		{"output", c.Signals.Output},
	} {
		if s.name == "" {
			return errors.Errorf("signals.%s must not be empty", s.field)
		}
	}
	if !strings.Contains(c.Checker.Reference, "{k}") {
		return errors.New("checker.reference must contain {k}")
	}
	for _, k := range c.Checker.Channels {
		if k < 0 || k >= c.Stimulus.Channels {
			return errors.Errorf("checker.channels: channel %d out of range", k)
		}
	}
	for _, s := range c.Scenarios {
		if !IsScenario(s) {
			return errors.Errorf("unknown scenario %q", s)
		}
	}
	return nil
}

// IsScenario returns true if name is a known scenario.
//
func IsScenario(name string) bool {
	for _, s := range Scenarios {
		if s == name {
			return true
		}
	}
	return false
}
