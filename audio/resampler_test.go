// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/audwave/internal/audiotest"
)

func drain(t *testing.T, src Source, chunk int) []float32 {
	t.Helper()

	out, err := ReadAll(context.Background(), src, chunk, 0)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	return out
}

func TestResampler_Metadata(t *testing.T) {
	t.Parallel()

	resampler := NewResampler(audiotest.NewSilentSource(44100, 2, 1000), 8000)

	if resampler.SampleRate() != 8000 {
		t.Errorf("Resampler.SampleRate() = %d, want 8000", resampler.SampleRate())
	}

	if resampler.Channels() != 2 {
		t.Errorf("Resampler.Channels() = %d, want 2", resampler.Channels())
	}
}

func TestResampler_OutputLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src, dst int
		frames   int
		want     int
	}{
		{"same rate", 8000, 8000, 100, 100},
		{"downsample 6x", 48000, 8000, 1000, 167},
		{"upsample 2x", 8000, 16000, 100, 200},
		{"cd to dvd", 44100, 48000, 44100, 48000},
		{"single frame", 44100, 8000, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := drain(t, NewResampler(audiotest.NewSilentSource(tt.src, 1, tt.frames), tt.dst), 4096)
			if len(out) != tt.want {
				t.Errorf("resampled %d frames to %d, want %d", tt.frames, len(out), tt.want)
			}
		})
	}
}

func TestResampler_StartsAtFirstFrame(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(8000, 1, 10, func(frame, _ int) float32 { return float32(frame) / 10 })
	out := drain(t, NewResampler(src, 16000), 64)

	if out[0] != 0 {
		t.Errorf("first output = %v, want 0 (first input frame)", out[0])
	}

	if math.Abs(float64(out[2]-0.1)) > 1e-6 {
		t.Errorf("out[2] = %v, want 0.1 (second input frame)", out[2])
	}
}

func TestResampler_ConstantSignal(t *testing.T) {
	t.Parallel()

	for _, dst := range []int{8000, 22050, 96000} {
		out := drain(t, NewResampler(audiotest.NewConstantSource(44100, 1, 4410, 0.5), dst), 4096)
		for i, s := range out {
			if math.Abs(float64(s-0.5)) > 0.01 {
				t.Fatalf("dst %d: out[%d] = %v, want ≈0.5", dst, i, s)
			}
		}
	}
}

func TestResampler_StereoPreserved(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(16000, 2, 1600, func(_, ch int) float32 {
		if ch == 0 {
			return 0.25
		}
		return -0.75
	})

	out := drain(t, NewResampler(src, 8000), 4096)
	if len(out)%2 != 0 {
		t.Fatalf("len(out) = %d, not a multiple of 2", len(out))
	}

	for f := 0; f < len(out)/2; f++ {
		if math.Abs(float64(out[2*f]-0.25)) > 0.01 || math.Abs(float64(out[2*f+1]+0.75)) > 0.01 {
			t.Fatalf("frame %d = (%v, %v), want (0.25, -0.75)", f, out[2*f], out[2*f+1])
		}
	}
}

func TestResampler_SineKeepsShape(t *testing.T) {
	t.Parallel()

	// 100 Hz is far below both Nyquist limits; the peak survives.
	out := drain(t, NewResampler(audiotest.NewSineSource(48000, 1, 48000, 100), 16000), 4096)

	var peak float32
	for _, s := range out {
		peak = max(peak, float32(math.Abs(float64(s))))
	}

	if peak < 0.95 || peak > 1.05 {
		t.Errorf("peak after resampling = %v, want ≈1", peak)
	}
}

func TestResampler_EOF(t *testing.T) {
	t.Parallel()

	resampler := NewResampler(audiotest.NewSilentSource(8000, 1, 0), 16000)

	n, err := resampler.ReadSamples(make([]float32, 16))
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() on empty source = (%d, %v), want (0, EOF)", n, err)
	}

	n, err = resampler.ReadSamples(make([]float32, 16))
	if n != 0 || err != io.EOF {
		t.Errorf("second ReadSamples() = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestResampler_InvalidDstSize(t *testing.T) {
	t.Parallel()

	resampler := NewResampler(audiotest.NewSilentSource(44100, 2, 100), 8000)
	if _, err := resampler.ReadSamples(make([]float32, 3)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
	}
}

func TestResampler_SourceError(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(44100, 1, 1000).FailAfter(10)
	_, err := ReadAll(context.Background(), NewResampler(src, 8000), 0, 0)
	if !errors.Is(err, audiotest.ErrBroken) {
		t.Errorf("ReadAll() error = %v, want ErrBroken", err)
	}
}

func TestResampler_SmallReads(t *testing.T) {
	t.Parallel()

	whole := drain(t, NewResampler(audiotest.NewSineSource(44100, 1, 2000, 440), 8000), 4096)

	resampler := NewResampler(audiotest.NewSineSource(44100, 1, 2000, 440), 8000)
	var pieces []float32
	buf := make([]float32, 3)
	for {
		n, err := resampler.ReadSamples(buf)
		pieces = append(pieces, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if len(pieces) != len(whole) {
		t.Fatalf("chunked read produced %d samples, want %d", len(pieces), len(whole))
	}
	for i := range whole {
		if pieces[i] != whole[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, pieces[i], whole[i])
		}
	}
}

func TestResampler_Close(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(44100, 1, 10)
	if err := NewResampler(src, 8000).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !src.Closed() {
		t.Error("Close() did not close the source")
	}
}

func BenchmarkResampler_Downsample(b *testing.B) {
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for range b.N {
		resampler := NewResampler(audiotest.NewSineSource(44100, 2, 44100, 440), 8000)
		for {
			if _, err := resampler.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
