// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/internal/audiotest"
)

// mockStream hands out pre-built frames.
type mockStream struct {
	frames []*frame.Frame
	err    error
	closed bool
}

func (m *mockStream) ParseNext() (*frame.Frame, error) {
	if len(m.frames) == 0 {
		if m.err != nil {
			return nil, m.err
		}
		return nil, io.EOF
	}

	f := m.frames[0]
	m.frames = m.frames[1:]
	return f, nil
}

func (m *mockStream) Close() error {
	m.closed = true
	return nil
}

func newFrame(channels ...[]int32) *frame.Frame {
	f := &frame.Frame{Header: frame.Header{BlockSize: uint16(len(channels[0]))}}
	for _, samples := range channels {
		f.Subframes = append(f.Subframes, &frame.Subframe{Samples: samples, NSamples: len(samples)})
	}
	return f
}

func TestDecoder_CanDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header []byte
		want   bool
	}{
		{"native flac", []byte("fLaC\x00\x00\x00\x22"), true},
		{"ogg flac", audiotest.OggPage([]byte("\x7fFLAC\x01\x00")), false},
		{"wav", []byte("RIFF\x00\x00\x00\x00WAVE"), false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := (Decoder{}).CanDecode(tt.header); got != tt.want {
				t.Errorf("CanDecode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("not a flac file"), []byte("fLaC")} {
		_, err := Decoder{}.Decode(bytes.NewReader(data))
		if !errors.Is(err, ErrNotFlacFile) {
			t.Errorf("Decode(%q) error = %v, want ErrNotFlacFile", data, err)
		}
	}
}

func TestDecoder_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		bitDepth int
	}{
		{"mono 16-bit", 1, 16},
		{"stereo 16-bit", 2, 16},
		{"stereo 24-bit", 2, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			samples := audiotest.Samples(tt.channels, 5000, audiotest.Sine(44100, 440, 0.5))
			data := audiotest.FLAC(44100, tt.channels, tt.bitDepth, 1024, samples)

			src, err := Decoder{}.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			defer src.Close()

			if src.SampleRate() != 44100 || src.Channels() != tt.channels {
				t.Errorf("Decode() = %d Hz %d ch, want 44100 Hz %d ch", src.SampleRate(), src.Channels(), tt.channels)
			}

			got, err := audio.ReadAll(context.Background(), src, len(samples), 0)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}

			if len(got) != len(samples) {
				t.Fatalf("read %d samples, want %d", len(got), len(samples))
			}

			for i := range samples {
				if math.Abs(float64(got[i]-samples[i])) > 1e-3 {
					t.Fatalf("sample %d = %v, want ≈%v", i, got[i], samples[i])
				}
			}
		})
	}
}

func TestSource_ReadSamples_Interleaves(t *testing.T) {
	t.Parallel()

	stream := &mockStream{frames: []*frame.Frame{
		newFrame([]int32{0, 16384}, []int32{-16384, -32768}),
		newFrame([]int32{8192}, []int32{-8192}),
	}}
	src := &source{stream: stream, sampleRate: 8000, channels: 2, bitDepth: 16}

	want := []float32{0, -0.5, 0.5, -1, 0.25, -0.25}

	// read in odd-sized pieces to cross frame boundaries
	var got []float32
	dst := make([]float32, 3)
	for range 10 {
		n, err := src.ReadSamples(dst)
		got = append(got, dst[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSource_ReadSamples_EOF(t *testing.T) {
	t.Parallel()

	src := &source{stream: &mockStream{}, sampleRate: 8000, channels: 1, bitDepth: 16}

	for range 2 {
		n, err := src.ReadSamples(make([]float32, 4))
		if n != 0 || err != io.EOF {
			t.Errorf("ReadSamples() = (%d, %v), want (0, EOF)", n, err)
		}
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	src := &source{stream: &mockStream{}, sampleRate: 8000, channels: 1, bitDepth: 16}

	n, err := src.ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	stream := &mockStream{
		frames: []*frame.Frame{newFrame([]int32{1, 2})},
		err:    io.ErrUnexpectedEOF,
	}
	src := &source{stream: stream, sampleRate: 8000, channels: 1, bitDepth: 16}

	n, err := src.ReadSamples(make([]float32, 8))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want ErrUnexpectedEOF", err)
	}
	if n != 2 {
		t.Errorf("ReadSamples() n = %d, want the 2 samples decoded before the error", n)
	}
}

func TestSource_ReadSamples_ChannelMismatch(t *testing.T) {
	t.Parallel()

	stream := &mockStream{frames: []*frame.Frame{newFrame([]int32{1}, []int32{2}, []int32{3})}}
	src := &source{stream: stream, sampleRate: 8000, channels: 2, bitDepth: 16}

	if _, err := src.ReadSamples(make([]float32, 8)); !errors.Is(err, ErrChannelMismatch) {
		t.Errorf("ReadSamples() error = %v, want ErrChannelMismatch", err)
	}
}

func TestSource_Close(t *testing.T) {
	t.Parallel()

	stream := &mockStream{}
	src := &source{stream: stream, sampleRate: 8000, channels: 1, bitDepth: 16}

	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !stream.closed {
		t.Error("Close() did not close the stream")
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	data := audiotest.FLAC(44100, 2, 16, 4096, audiotest.Samples(2, 44100, audiotest.Sine(44100, 440, 0.8)))

	b.ReportAllocs()
	for range b.N {
		src, _ := Decoder{}.Decode(bytes.NewReader(data))
		audio.ReadAll(context.Background(), src, 88200, 0)
	}
}
