// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package hwsim provides the necessary tools to describe digital hardware using
Go as a hardware description language and run it in a naive cycle based
simulator.

This includes an API to compose basic components (logic gates, muxers,
registers, etc.) into more complex ones, and a Circuit type that steps the
resulting netlist.

The API is designed to mimic a real hardware description language. As a
result, it relies heavily on closures and can feel a bit awkward when
implementing custom components. MakePart provides a reflection based
alternative for components with more complex behavior.

Simulation model

Every wire has two states: the current one, read with Circuit.Get, and the
next one, written with Circuit.Set. Circuit.Step runs all components once then
swaps both states. A signal therefore propagates through one component per
step. The clk wire is driven by the circuit itself and completes one period
every SPC() steps: it is high during the first half and low during the second
half. Clocked components update their state when Circuit.AtTick is true.

Inputs driven from outside the circuit (Input, InputN, Port) become visible
one step after they are read. A value set right after a rising edge of clk is
therefore sampled by clocked components at the next rising edge, as in a
synchronous testbench.

Named wires are available through Circuit.Signal. Wires internal to a chip are
prefixed with the chip's instance path, e.g. "wavelet_transform.fir_0.o_wavelet".
*/
package hwsim
