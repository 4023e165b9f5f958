// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ik5/audwave/audio"
)

// Mode selects how a bucket is reduced to one magnitude.
type Mode int

const (
	// Peak is the largest absolute sample in the bucket.
	Peak Mode = iota
	// RMS is the root mean square of the bucket.
	RMS
)

var ErrInvalidBuckets = errors.New("bucket count must be positive")

func (m Mode) String() string {
	switch m {
	case Peak:
		return "peak"
	case RMS:
		return "rms"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "peak" or "rms" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "peak", "":
		return Peak, nil
	case "rms":
		return RMS, nil
	}
	return 0, fmt.Errorf("unknown waveform mode %q", s)
}

// Reducer turns a buffer into exactly Buckets magnitudes in [0, 1].
type Reducer struct {
	Buckets int
	Mode    Mode
}

// Reduce folds buf to mono, splits it into Buckets contiguous buckets and
// normalizes the result so the loudest bucket is 1.0. Silence stays at 0.
func (r Reducer) Reduce(ctx context.Context, buf *audio.PCMBuffer) ([]float64, error) {
	if r.Buckets < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBuckets, r.Buckets)
	}
	if buf == nil || buf.Len() == 0 {
		return nil, audio.ErrEmptyInput
	}

	mags, err := r.magnitudes(ctx, buf.Mono().Samples())
	if err != nil {
		return nil, err
	}

	normalize(mags)
	return mags, nil
}

// bounds returns the half-open sample range of bucket i. The last bucket
// absorbs the remainder; with fewer samples than buckets the tail is empty.
func bounds(i, buckets, total int) (int, int) {
	size := max(total/buckets, 1)
	start := min(i*size, total)
	end := min(start+size, total)
	if i == buckets-1 {
		end = total
	}
	return start, end
}

func (r Reducer) magnitudes(ctx context.Context, samples []float32) ([]float64, error) {
	mags := make([]float64, r.Buckets)

	for i := range mags {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w", err)
			}
		}

		start, end := bounds(i, r.Buckets, len(samples))
		if start == end {
			continue
		}

		switch r.Mode {
		case RMS:
			mags[i] = rms(samples[start:end])
		default:
			mags[i] = peak(samples[start:end])
		}
	}

	return mags, nil
}

func peak(s []float32) float64 {
	var m float32
	for _, v := range s {
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return float64(m)
}

func rms(s []float32) float64 {
	var sum float64
	for _, v := range s {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(s)))
}

func normalize(mags []float64) {
	var top float64
	for _, v := range mags {
		top = max(top, v)
	}
	if top == 0 {
		return
	}

	for i, v := range mags {
		mags[i] = v / top
	}
}
