// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ik5/audwave/audio"
)

// Codec quantizes magnitudes to Bits-wide unsigned integers and serializes
// them as padded standard base64. 16-bit values are big-endian.
type Codec struct {
	Buckets int
	Bits    int
}

func (c Codec) width() (int, error) {
	switch c.Bits {
	case 8:
		return 1, nil
	case 16:
		return 2, nil
	}
	return 0, fmt.Errorf("%w: %d-bit quantization", audio.ErrEncoding, c.Bits)
}

// EncodedLen is the length of every string Encode returns.
func (c Codec) EncodedLen() int {
	w, err := c.width()
	if err != nil {
		return 0
	}
	return base64.StdEncoding.EncodedLen(c.Buckets * w)
}

func (c Codec) Encode(mags []float64) (string, error) {
	w, err := c.width()
	if err != nil {
		return "", err
	}
	if len(mags) != c.Buckets {
		return "", fmt.Errorf("%w: %d magnitudes for %d buckets", audio.ErrEncoding, len(mags), c.Buckets)
	}

	top := float64(uint32(1)<<c.Bits - 1)
	raw := make([]byte, len(mags)*w)
	for i, v := range mags {
		q := quantize(v, top)
		if w == 1 {
			raw[i] = byte(q)
		} else {
			binary.BigEndian.PutUint16(raw[2*i:], uint16(q))
		}
	}

	return base64.StdEncoding.EncodeToString(raw), nil
}

func (c Codec) Decode(s string) ([]float64, error) {
	w, err := c.width()
	if err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrEncoding, err)
	}
	if len(raw) != c.Buckets*w {
		return nil, fmt.Errorf("%w: %d bytes for %d buckets", audio.ErrEncoding, len(raw), c.Buckets)
	}

	top := float64(uint32(1)<<c.Bits - 1)
	mags := make([]float64, c.Buckets)
	for i := range mags {
		if w == 1 {
			mags[i] = float64(raw[i]) / top
		} else {
			mags[i] = float64(binary.BigEndian.Uint16(raw[2*i:])) / top
		}
	}

	return mags, nil
}

// quantize rounds v*top and clamps it to [0, top]. NaN maps to 0.
func quantize(v, top float64) uint32 {
	q := math.Round(v * top)
	switch {
	case math.IsNaN(q) || q < 0:
		return 0
	case q > top:
		return uint32(top)
	}
	return uint32(q)
}
