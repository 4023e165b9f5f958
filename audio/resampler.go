// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audwave/utils"
)

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// A one-pole low-pass runs on the input when downsampling.
type Resampler struct {
	src      Source
	srcRate  int64
	dstRate  int64
	channels int

	// hist[1] is the frame at index, hist[0] the one before it and
	// hist[2], hist[3] the two after. Past the end of src the last real
	// frame is repeated.
	hist     [4][]float32
	index    int64 // absolute source index of hist[1]
	read     int64 // real frames pulled from src
	produced int64 // output frames so far
	primed   bool
	eof      bool
	done     bool

	lowpass []float32 // filter state, nil when not downsampling
	alpha   float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()

	r := &Resampler{
		src:      src,
		srcRate:  int64(src.SampleRate()),
		dstRate:  int64(dstRate),
		channels: channels,
	}

	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}

	if r.srcRate > r.dstRate {
		r.lowpass = make([]float32, channels)
		r.alpha = 0.5
	}

	return r
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// pull reads exactly one frame into dst. It reports false once src is drained.
func (r *Resampler) pull(dst []float32) (bool, error) {
	if r.eof {
		return false, nil
	}

	for empty := 0; ; empty++ {
		n, err := r.src.ReadSamples(dst)
		if err == io.EOF {
			r.eof = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}

		if n == r.channels {
			r.read++
			r.filter(dst, r.read == 1)
			return true, nil
		}

		if r.eof {
			return false, nil
		}

		if empty >= maxEmptyReads {
			return false, io.ErrNoProgress
		}
	}
}

func (r *Resampler) filter(frame []float32, first bool) {
	if r.lowpass == nil {
		return
	}

	if first {
		// seed with the first frame to avoid a fade-in transient
		copy(r.lowpass, frame)
	}

	for c, x := range frame {
		y := r.alpha*x + (1-r.alpha)*r.lowpass[c]
		r.lowpass[c] = y
		frame[c] = y
	}
}

// fill loads hist[slot] from src, or repeats hist[slot-1] past the end.
func (r *Resampler) fill(slot int) error {
	ok, err := r.pull(r.hist[slot])
	if err != nil {
		return err
	}

	if !ok {
		copy(r.hist[slot], r.hist[slot-1])
	}

	return nil
}

func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.pull(r.hist[1])
	if err != nil {
		return err
	}

	if !ok {
		r.done = true
		return nil
	}

	copy(r.hist[0], r.hist[1])
	if err := r.fill(2); err != nil {
		return err
	}

	return r.fill(3)
}

func (r *Resampler) advance() error {
	r.hist[0], r.hist[1], r.hist[2], r.hist[3] = r.hist[1], r.hist[2], r.hist[3], r.hist[0]
	r.index++

	return r.fill(3)
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	frames := len(dst) / r.channels

	for !r.done && written < frames {
		// Output frame k sits at source position k*src/dst, kept as an
		// integer index and remainder so long streams never drift.
		num := r.produced * r.srcRate
		target := num / r.dstRate

		if r.eof && target >= r.read {
			r.done = true
			break
		}

		for r.index < target {
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if r.eof && r.index >= r.read {
			r.done = true
			break
		}

		x := float32(num%r.dstRate) / float32(r.dstRate)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], x)
		}

		written++
		r.produced++
	}

	if r.done {
		if written == 0 {
			return 0, io.EOF
		}
		return written * r.channels, io.EOF
	}

	return written * r.channels, nil
}
