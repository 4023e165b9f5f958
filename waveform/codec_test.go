// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"encoding/base64"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ik5/audwave/audio"
)

func TestCodec_Encode8(t *testing.T) {
	t.Parallel()

	c := Codec{Buckets: 4, Bits: 8}

	s, err := c.Encode([]float64{0, 0.5, 1, 0.25})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("output is not base64: %v", err)
	}

	want := []byte{0, 128, 255, 64}
	if string(raw) != string(want) {
		t.Errorf("Encode() bytes = %v, want %v", raw, want)
	}
}

func TestCodec_Clamp(t *testing.T) {
	t.Parallel()

	c := Codec{Buckets: 4, Bits: 8}

	s, err := c.Encode([]float64{-0.5, 1.7, math.NaN(), math.Inf(1)})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	raw, _ := base64.StdEncoding.DecodeString(s)
	want := []byte{0, 255, 0, 255}
	if string(raw) != string(want) {
		t.Errorf("Encode() bytes = %v, want %v", raw, want)
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	mags := make([]float64, 257)
	for i := range mags {
		mags[i] = float64(i) / 256
	}

	for _, bits := range []int{8, 16} {
		c := Codec{Buckets: len(mags), Bits: bits}

		s, err := c.Encode(mags)
		if err != nil {
			t.Fatalf("%d-bit: Encode() error = %v", bits, err)
		}
		if len(s) != c.EncodedLen() {
			t.Errorf("%d-bit: len = %d, EncodedLen() = %d", bits, len(s), c.EncodedLen())
		}
		if strings.ContainsAny(s, "\r\n") {
			t.Errorf("%d-bit: output contains line breaks", bits)
		}

		got, err := c.Decode(s)
		if err != nil {
			t.Fatalf("%d-bit: Decode() error = %v", bits, err)
		}

		tolerance := 0.5 / float64(uint32(1)<<bits-1)
		for i := range mags {
			if math.Abs(got[i]-mags[i]) > tolerance+1e-12 {
				t.Errorf("%d-bit: bucket %d = %v, want %v ± %v", bits, i, got[i], mags[i], tolerance)
			}
		}
	}
}

func TestCodec_EncodedLen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		buckets, bits, want int
	}{
		{200, 8, 268},
		{200, 16, 536},
		{1, 8, 4},
		{100, 8, 136},
		{100, 12, 0},
	}

	for _, tt := range tests {
		if got := (Codec{Buckets: tt.buckets, Bits: tt.bits}).EncodedLen(); got != tt.want {
			t.Errorf("EncodedLen(%d, %d) = %d, want %d", tt.buckets, tt.bits, got, tt.want)
		}
	}
}

func TestCodec_Errors(t *testing.T) {
	t.Parallel()

	c := Codec{Buckets: 4, Bits: 8}

	if _, err := c.Encode([]float64{1, 2, 3}); !errors.Is(err, audio.ErrEncoding) {
		t.Errorf("Encode(short) error = %v, want ErrEncoding", err)
	}
	if _, err := c.Decode("not base64!"); !errors.Is(err, audio.ErrEncoding) {
		t.Errorf("Decode(garbage) error = %v, want ErrEncoding", err)
	}
	if _, err := c.Decode(base64.StdEncoding.EncodeToString([]byte{1, 2, 3})); !errors.Is(err, audio.ErrEncoding) {
		t.Errorf("Decode(wrong length) error = %v, want ErrEncoding", err)
	}
	if _, err := (Codec{Buckets: 4, Bits: 12}).Encode(make([]float64, 4)); !errors.Is(err, audio.ErrEncoding) {
		t.Errorf("Encode(12-bit) error = %v, want ErrEncoding", err)
	}
}

func BenchmarkCodec_Encode(b *testing.B) {
	mags := make([]float64, 1000)
	for i := range mags {
		mags[i] = math.Abs(math.Sin(float64(i)))
	}
	c := Codec{Buckets: len(mags), Bits: 8}

	b.ReportAllocs()
	for range b.N {
		c.Encode(mags)
	}
}
