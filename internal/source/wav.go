// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package source

import (
	"io"
	"os"

	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// WAV is a Source backed by a mono 16 bits PCM wave file. Each call to Next
// returns one native frame.
//
type WAV struct {
	data       []int
	pos        int
	frames     int
	sampleRate int
}

// OpenWAV decodes the named wave file.
//
func OpenWAV(name string) (*WAV, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open wave file")
	}
	defer f.Close()
	w, err := ReadWAV(f)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return w, nil
}

// ReadWAV decodes a wave file from r.
//
func ReadWAV(r io.ReadSeeker) (*WAV, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		if err := d.Err(); err != nil {
			return nil, errors.Wrap(err, "invalid wave file")
		}
		return nil, errors.New("invalid wave file")
	}
	if d.NumChans != 1 {
		return nil, errors.Errorf("unsupported channel count %d, expected mono", d.NumChans)
	}
	if d.BitDepth != 16 {
		return nil, errors.Errorf("unsupported bit depth %d, expected 16", d.BitDepth)
	}
	if d.WavAudioFormat != 1 {
		return nil, errors.Errorf("unsupported audio format %d, expected PCM", d.WavAudioFormat)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode PCM data")
	}
	return &WAV{
		data:       buf.Data,
		frames:     int(d.PCMLen() / 2),
		sampleRate: int(d.SampleRate),
	}, nil
}

// Next returns the next decoded frame, up to Len frames.
//
func (w *WAV) Next() (int, bool) {
	if w.pos >= len(w.data) || w.pos >= w.frames {
		return 0, false
	}
	v := w.data[w.pos]
	w.pos++
	return v, true
}

// Reset implements Source.
//
func (w *WAV) Reset() { w.pos = 0 }

// Len returns the frame count declared in the file header. It may be larger
// than the number of frames actually present in a truncated file.
//
func (w *WAV) Len() int { return w.frames }

// Range returns the range of 16 bits samples.
//
func (w *WAV) Range() (min, max int) { return -32768, 32767 }

// Decoded returns the number of frames actually decoded.
//
func (w *WAV) Decoded() int { return len(w.data) }

// SampleRate returns the sample rate declared in the file header.
//
func (w *WAV) SampleRate() int { return w.sampleRate }
