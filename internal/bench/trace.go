// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bench

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// An Entry records the stimulus of one iteration.
//
type Entry struct {
	Iteration int  `json:"iteration"`
	Select    int  `json:"select"`
	Switched  bool `json:"switched,omitempty"`
	Sample    int  `json:"sample"`
	Value     int  `json:"value"`
	Checked   bool `json:"checked,omitempty"`
}

// A Trace records the stimulus applied to a device.
//
type Trace struct {
	Entries   []Entry `json:"entries"`
	Truncated bool    `json:"truncated,omitempty"`
}

// Add appends e to the trace.
//
func (t *Trace) Add(e Entry) {
	t.Entries = append(t.Entries, e)
}

// Len returns the number of entries.
//
func (t *Trace) Len() int { return len(t.Entries) }

// Values returns the values driven, in order.
//
func (t *Trace) Values() []int {
	v := make([]int, len(t.Entries))
	for i := range t.Entries {
		v[i] = t.Entries[i].Value
	}
	return v
}

// Selects returns the select value of every iteration.
//
func (t *Trace) Selects() []int {
	v := make([]int, len(t.Entries))
	for i := range t.Entries {
		v[i] = t.Entries[i].Select
	}
	return v
}

// WriteText writes the trace to w, one line per iteration.
//
func (t *Trace) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range t.Entries {
		fmt.Fprintf(bw, "iter=%d select=%d sample=%d value=%d", e.Iteration, e.Select, e.Sample, e.Value)
		if e.Switched {
			bw.WriteString(" switch")
		}
		if e.Checked {
			bw.WriteString(" checked")
		}
		bw.WriteByte('\n')
	}
	if t.Truncated {
		bw.WriteString("truncated\n")
	}
	return bw.Flush()
}

// WriteJSON writes the trace to w as a JSON document.
//
func (t *Trace) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}
