// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic audio sources and encoded fixtures for
// tests. It implements audio.Source without importing it to avoid cycles.
package audiotest

import (
	"errors"
	"io"
	"math"
)

// ErrBroken is returned by a MockSource built with FailAfter.
var ErrBroken = errors.New("broken source")

// Waveform generates the value of one sample.
type Waveform func(frame, channel int) float32

func Silence(int, int) float32 { return 0 }

func Constant(v float32) Waveform {
	return func(int, int) float32 { return v }
}

// Sine is a sine at freq Hz scaled to amp, identical on every channel.
func Sine(rate int, freq, amp float64) Waveform {
	return func(frame, _ int) float32 {
		t := float64(frame) / float64(rate)
		return float32(amp * math.Sin(2*math.Pi*freq*t))
	}
}

// Impulse is silent except for value v at frame at.
func Impulse(at int, v float32) Waveform {
	return func(frame, _ int) float32 {
		if frame == at {
			return v
		}
		return 0
	}
}

// Samples renders frames frames of w as an interleaved slice.
func Samples(channels, frames int, w Waveform) []float32 {
	out := make([]float32, channels*frames)
	for f := range frames {
		for c := range channels {
			out[f*channels+c] = w(f, c)
		}
	}
	return out
}

// MockSource generates audio on demand.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int
	generated  int
	failAfter  int
	waveform   Waveform
	closed     bool
}

func NewMockSource(sampleRate, channels, frames int, w Waveform) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		failAfter:  -1,
		waveform:   w,
	}
}

func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewMockSource(sampleRate, channels, frames, Silence)
}

func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, Sine(sampleRate, frequency, 1))
}

func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, Constant(value))
}

// FailAfter makes ReadSamples return ErrBroken once n frames were produced.
func (m *MockSource) FailAfter(n int) *MockSource {
	m.failAfter = n
	return m
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) Closed() bool    { return m.closed }
func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Reset rewinds the generator.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.failAfter >= 0 && m.generated >= m.failAfter {
		return 0, ErrBroken
	}

	if m.generated >= m.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.generated)
	if m.failAfter >= 0 {
		n = min(n, m.failAfter-m.generated)
	}

	for f := range n {
		for c := range m.channels {
			dst[f*m.channels+c] = m.waveform(m.generated+f, c)
		}
	}

	m.generated += n
	if m.generated >= m.frames {
		return n * m.channels, io.EOF
	}

	return n * m.channels, nil
}
