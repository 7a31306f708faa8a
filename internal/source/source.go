// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package source provides the sample sequences fed to the device.
//
// A Source is finite, ordered and restartable. Sources can be file backed
// (WAV) or synthetic (Chirp, Slice), and wrapped to shorten them (Take) or
// decimate them (Decimate).
//
package source

// A Source produces a finite sequence of signed samples.
//
type Source interface {
	// Next returns the next sample. ok is false once the source is exhausted.
	Next() (v int, ok bool)
	// Reset restarts the sequence from its first sample.
	Reset()
	// Len returns the declared number of samples.
	Len() int
	// Range returns the declared range of sample values, bounds included.
	Range() (min, max int)
}

// Slice is an in-memory Source.
//
type Slice struct {
	data     []int
	pos      int
	min, max int
}

// NewSlice returns a Source over data with values declared in [min, max].
//
func NewSlice(min, max int, data ...int) *Slice {
	return &Slice{data: data, min: min, max: max}
}

// Next implements Source.
//
func (s *Slice) Next() (int, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	v := s.data[s.pos]
	s.pos++
	return v, true
}

// Reset implements Source.
//
func (s *Slice) Reset() { s.pos = 0 }

// Len returns the number of samples in the slice.
//
func (s *Slice) Len() int { return len(s.data) }

// Range returns the range given to NewSlice.
//
func (s *Slice) Range() (min, max int) { return s.min, s.max }

// Take returns a Source made of at most the n first samples of src.
//
func Take(src Source, n int) Source {
	if l := src.Len(); n > l {
		n = l
	}
	if n < 0 {
		n = 0
	}
	return &take{src: src, n: n}
}

type take struct {
	src  Source
	n, i int
}

func (t *take) Next() (int, bool) {
	if t.i >= t.n {
		return 0, false
	}
	t.i++
	return t.src.Next()
}

func (t *take) Reset()                { t.i = 0; t.src.Reset() }
func (t *take) Len() int              { return t.n }
func (t *take) Range() (min, max int) { return t.src.Range() }

// Decimate returns a Source made of the first sample of each complete block
// of k samples of src.
//
func Decimate(src Source, k int) Source {
	if k < 1 {
		k = 1
	}
	return &decimate{src: src, k: k}
}

type decimate struct {
	src  Source
	k, i int
}

func (d *decimate) Next() (int, bool) {
	if d.i >= d.Len() {
		return 0, false
	}
	v, ok := d.src.Next()
	if !ok {
		return 0, false
	}
	for j := 1; j < d.k; j++ {
		if _, ok := d.src.Next(); !ok {
			// incomplete block
			return 0, false
		}
	}
	d.i++
	return v, true
}

func (d *decimate) Reset()                { d.i = 0; d.src.Reset() }
func (d *decimate) Len() int              { return d.src.Len() / d.k }
func (d *decimate) Range() (min, max int) { return d.src.Range() }
