// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"fmt"
	"io"
)

// maxEmptyReads bounds how often a source may return (0, nil) in a row
// before reading gives up with io.ErrNoProgress.
const maxEmptyReads = 100

// PCMBuffer is decoded audio held in memory: interleaved float32 samples in
// [-1, 1]. It is immutable once constructed; Samples exposes the backing
// slice for reading only.
type PCMBuffer struct {
	samples  []float32
	rate     int
	channels int
}

// NewPCMBuffer takes ownership of samples.
func NewPCMBuffer(samples []float32, rate, channels int) (*PCMBuffer, error) {
	if rate <= 0 {
		return nil, ErrInvalidRate
	}

	if channels <= 0 || len(samples)%channels != 0 {
		return nil, ErrInvalidLayout
	}

	return &PCMBuffer{
		samples:  samples,
		rate:     rate,
		channels: channels,
	}, nil
}

func (b *PCMBuffer) SampleRate() int    { return b.rate }
func (b *PCMBuffer) Channels() int      { return b.channels }
func (b *PCMBuffer) Len() int           { return len(b.samples) }
func (b *PCMBuffer) Frames() int        { return len(b.samples) / b.channels }
func (b *PCMBuffer) Samples() []float32 { return b.samples }
func (b *PCMBuffer) Duration() float64  { return float64(b.Frames()) / float64(b.rate) }
func (b *PCMBuffer) Source() Source     { return &bufferSource{buf: b} }
func (b *PCMBuffer) String() string {
	return fmt.Sprintf("%d frames, %d Hz, %d ch", b.Frames(), b.rate, b.channels)
}

// Mono returns b itself when it already has one channel, otherwise a new
// buffer averaging all channels.
func (b *PCMBuffer) Mono() *PCMBuffer {
	if b.channels == 1 {
		return b
	}

	mono := make([]float32, b.Frames())
	n, _ := NewMonoMixer(b.Source()).ReadSamples(mono)

	return &PCMBuffer{samples: mono[:n], rate: b.rate, channels: 1}
}

// Resample returns b converted to rate, or b itself when the rate matches.
func (b *PCMBuffer) Resample(ctx context.Context, rate int) (*PCMBuffer, error) {
	if rate <= 0 {
		return nil, ErrInvalidRate
	}

	if rate == b.rate {
		return b, nil
	}

	est := int(float64(b.Frames())*float64(rate)/float64(b.rate)) + 1
	samples, err := ReadAll(ctx, NewResampler(b.Source(), rate), est*b.channels, 0)
	if err != nil {
		return nil, err
	}

	return &PCMBuffer{samples: samples, rate: rate, channels: b.channels}, nil
}

// ReadAll drains src into one interleaved slice. sizeHint preallocates;
// maxFrames, when positive, stops with ErrTooLong once exceeded.
func ReadAll(ctx context.Context, src Source, sizeHint int, maxFrames int) ([]float32, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrInvalidLayout
	}

	chunk := 4096 * channels
	out := make([]float32, 0, max(sizeHint, chunk))
	empty := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		if cap(out)-len(out) < chunk {
			grown := make([]float32, len(out), len(out)+max(chunk, cap(out)))
			copy(grown, out)
			out = grown
		}

		n, err := src.ReadSamples(out[len(out) : len(out)+chunk])
		out = out[:len(out)+n]

		if maxFrames > 0 && len(out)/channels > maxFrames {
			return nil, ErrTooLong
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		if n == 0 {
			empty++
			if empty > maxEmptyReads {
				return nil, io.ErrNoProgress
			}
			continue
		}
		empty = 0
	}

	// A truncated stream can end mid-frame.
	out = out[:len(out)-len(out)%channels]

	return out, nil
}

// bufferSource streams a PCMBuffer. Each call to PCMBuffer.Source gets its
// own cursor so concurrent readers never share state.
type bufferSource struct {
	buf *PCMBuffer
	off int
}

func (s *bufferSource) SampleRate() int { return s.buf.rate }
func (s *bufferSource) Channels() int   { return s.buf.channels }
func (s *bufferSource) Close() error    { return nil }

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.buf.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if s.off >= len(s.buf.samples) {
		return 0, io.EOF
	}

	n := copy(dst, s.buf.samples[s.off:])
	s.off += n

	if s.off >= len(s.buf.samples) {
		return n, io.EOF
	}

	return n, nil
}
