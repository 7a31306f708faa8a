package source_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/db47h/wavebench/internal/source"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(s source.Source) []int {
	var out []int
	for {
		v, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func writeWAV(t *testing.T, bits, chans int, data []int) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "in.wav")
	f, err := os.Create(name)
	require.NoError(t, err)
	defer f.Close()
	enc := wav.NewEncoder(f, 8000, bits, chans, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: chans, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: bits,
	}))
	require.NoError(t, enc.Close())
	return name
}

func TestChirp(t *testing.T) {
	c := source.NewChirp(20)
	assert.Equal(t, 20, c.Len())
	min, max := c.Range()
	assert.Equal(t, -128, min)
	assert.Equal(t, 127, max)

	want := []int{0, 13, 26, 39, 52, 64, 76, 87, 97, 106, 114, 120, 125, 127, 127, 126, 123, 117, 109, 99}
	assert.Equal(t, want, drain(c))

	_, ok := c.Next()
	assert.False(t, ok)
	c.Reset()
	assert.Equal(t, want, drain(c), "a chirp must be restartable")
}

func TestChirpSample_range(t *testing.T) {
	var lo, hi int
	for i := 0; i < 5000; i++ {
		v := source.ChirpSample(i)
		require.True(t, v >= -128 && v <= 127, "sample %d = %d", i, v)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	// sin(x)*128 reaches 128 and is clamped
	assert.Equal(t, 127, hi)
	assert.Equal(t, -128, lo)
	assert.Equal(t, 127, source.ChirpSample(13))
	assert.Equal(t, -128, source.ChirpSample(35))
}

func TestSlice(t *testing.T) {
	s := source.NewSlice(-10, 10, 1, -2, 3)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []int{1, -2, 3}, drain(s))
	s.Reset()
	v, ok := s.Next()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestTake(t *testing.T) {
	s := source.Take(source.NewSlice(0, 100, 1, 2, 3, 4, 5), 3)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []int{1, 2, 3}, drain(s))
	s.Reset()
	assert.Equal(t, []int{1, 2, 3}, drain(s))

	long := source.Take(source.NewSlice(0, 100, 1, 2), 10)
	assert.Equal(t, 2, long.Len())
	assert.Equal(t, []int{1, 2}, drain(long))
}

func TestDecimate(t *testing.T) {
	data := make([]int, 25)
	for i := range data {
		data[i] = i
	}
	s := source.Decimate(source.NewSlice(0, 100, data...), 10)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []int{0, 10}, drain(s))
	s.Reset()
	assert.Equal(t, []int{0, 10}, drain(s))
}

func TestWAV(t *testing.T) {
	data := []int{0, 1, -1, 32767, -32768, 1234, -4321}
	w, err := source.OpenWAV(writeWAV(t, 16, 1, data))
	require.NoError(t, err)
	assert.Equal(t, len(data), w.Len())
	assert.Equal(t, len(data), w.Decoded())
	assert.Equal(t, 8000, w.SampleRate())
	min, max := w.Range()
	assert.Equal(t, -32768, min)
	assert.Equal(t, 32767, max)
	assert.Equal(t, data, drain(w))

	w.Reset()
	assert.Equal(t, data[:2], drain(source.Take(w, 2)))
}

func TestWAV_unsupported(t *testing.T) {
	_, err := source.OpenWAV(writeWAV(t, 16, 2, []int{1, 2, 3, 4}))
	assert.ErrorContains(t, err, "expected mono")

	_, err = source.OpenWAV(writeWAV(t, 8, 1, []int{1, 2, 3, 4}))
	assert.ErrorContains(t, err, "expected 16")

	_, err = source.OpenWAV(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)

	name := filepath.Join(t.TempDir(), "garbage.wav")
	require.NoError(t, os.WriteFile(name, []byte("not a wave file"), 0o644))
	_, err = source.OpenWAV(name)
	assert.ErrorContains(t, err, "invalid wave file")
}
