// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package dut provides a behavioural model of the wavelet transform device.
//
// The model exposes the device's signal contract: staged power rails, an
// active low reset, an activity indicator, a strobed 8 bits sample input and
// a 16 bits output multiplexed from seven filter channels. Channel k is a
// Haar detail filter over the last 2^(k+1) samples. It is a test peer for the
// bench, not a model of the real transform.
//
package dut

import (
	"strconv"
	"strings"

	"github.com/db47h/wavebench/hwlib"
	"github.com/db47h/wavebench/hwsim"
	"github.com/pkg/errors"
)

// Device signal names.
//
const (
	Name   = "wavelet_transform"
	Reset  = "RSTB"
	Active = "o_active"
	Strobe = "i_data_clk"
	Value  = "i_value"
	Select = "i_select_output_channel"
	Output = "o_multiplexed_wavelet_out"
)

// Device geometry.
//
const (
	Channels   = 7
	ValueBits  = 8
	SelectBits = 3
	OutputBits = 16
)

// PowerRails lists the power enable inputs in bring-up order.
//
var PowerRails = []string{"power1", "power2", "power3", "power4"}

// Reference returns the name of the internal output signal of channel k.
//
func Reference(k int) string {
	return Name + "." + firName(k) + ".o_wavelet"
}

func firName(k int) string { return "fir_" + strconv.Itoa(k) }

// Config holds the timing parameters of the model, in clock cycles.
//
type Config struct {
	MinRailGap int `yaml:"min_rail_gap"`
	FallDelay  int `yaml:"fall_delay"`
	LowCycles  int `yaml:"low_cycles"`
}

// DefaultConfig returns the default model timings.
//
func DefaultConfig() Config {
	return Config{
		MinRailGap: 4,
		FallDelay:  4,
		LowCycles:  32,
	}
}

// Chip returns the device as a chip named "wavelet_transform".
//
//	Inputs: RSTB, power1, power2, power3, power4, i_data_clk, i_value[8], i_select_output_channel[3]
//	Outputs: o_active, o_multiplexed_wavelet_out[16]
//
func Chip(cfg Config) (hwsim.NewPartFn, error) {
	if cfg.MinRailGap < 0 || cfg.FallDelay < 0 || cfg.LowCycles < 1 {
		return nil, errors.Errorf("invalid device timings %+v", cfg)
	}

	pwr := hwsim.MakePart(&powerCtrl{
		MinGap:    cfg.MinRailGap,
		FallDelay: cfg.FallDelay,
		LowCycles: cfg.LowCycles,
	})
	pwr.Name = "POWER"

	rails := make([]string, len(PowerRails))
	good := make([]string, len(PowerRails))
	for i, r := range PowerRails {
		rails[i] = "rail[" + strconv.Itoa(i) + "]=" + r
		good[i] = "in[" + strconv.Itoa(i) + "]=" + r
	}

	parts := hwsim.Parts{
		hwlib.Not("in=" + Reset + ", out=rst"),
		hwlib.AndNWay(len(PowerRails))(strings.Join(good, ", ") + ", out=power_good"),
		pwr.NewPart("rst=rst, good=power_good, " + strings.Join(rails, ", ") + ", active=" + Active + ", en=en"),
		hwlib.DFFN(SelectBits)("in=" + Select + ", out=sel"),
	}

	mux := make([]string, 0, Channels+2)
	for k := 0; k < Channels; k++ {
		f := hwsim.MakePart(&fir{Taps: 2 << uint(k)})
		f.Name = "FIR" + strconv.Itoa(k)
		parts = append(parts, f.NewPart("strobe="+Strobe+", en=en, value="+Value+", o_wavelet="+firName(k)+".o_wavelet"))
		mux = append(mux, "in"+strconv.Itoa(k)+"="+firName(k)+".o_wavelet")
	}
	mux = append(mux, "sel=sel", "out="+Output)
	parts = append(parts, hwlib.MuxMWayN(Channels, OutputBits)(strings.Join(mux, ", ")))

	inputs := append([]string{Reset}, PowerRails...)
	inputs = append(inputs,
		Strobe,
		Value+"["+strconv.Itoa(ValueBits)+"]",
		Select+"["+strconv.Itoa(SelectBits)+"]")
	outputs := Active + ", " + Output + "[" + strconv.Itoa(OutputBits) + "]"

	return hwsim.Chip(Name, strings.Join(inputs, ", "), outputs, parts...)
}

// A Device is a circuit made of the device chip and the ports driving its
// inputs. Top level wires carry the device pin names.
//
type Device struct {
	*hwsim.Circuit
	ports []*hwsim.Port
}

// New returns a new device simulation. workers and stepsPerCycle are passed
// to hwsim.NewCircuit.
//
// Callers must call Dispose once the device is no longer needed.
//
func New(workers int, stepsPerCycle uint, cfg Config) (*Device, error) {
	chip, err := Chip(cfg)
	if err != nil {
		return nil, err
	}
	ports := []*hwsim.Port{hwsim.NewPort(Reset, 1)}
	for _, r := range PowerRails {
		ports = append(ports, hwsim.NewPort(r, 1))
	}
	ports = append(ports,
		hwsim.NewPort(Strobe, 1),
		hwsim.NewPort(Value, ValueBits),
		hwsim.NewPort(Select, SelectBits))

	parts := make(hwsim.Parts, 0, len(ports)+1)
	conns := make([]string, 0, len(ports)+2)
	for _, p := range ports {
		parts = append(parts, p.Part())
		conns = append(conns, p.Name()+"="+p.Name())
	}
	conns = append(conns, Active+"="+Active, Output+"="+Output)
	parts = append(parts, chip(strings.Join(conns, ", ")))

	c, err := hwsim.NewCircuit(workers, stepsPerCycle, parts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build device")
	}
	return &Device{c, ports}, nil
}

// Ports returns the ports driving the device inputs.
//
func (d *Device) Ports() []*hwsim.Port {
	return d.ports
}
