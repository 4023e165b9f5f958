// SPDX-License-Identifier: EPL-2.0

package audwave

import (
	"errors"
	"fmt"
	"time"

	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/waveform"
)

// Config is fixed for the lifetime of a Pipeline.
type Config struct {
	// Buckets is the number of waveform values, N.
	Buckets int
	// QuantizationBits is 8 (one byte per bucket) or 16 (two, big-endian).
	QuantizationBits int
	Mode             waveform.Mode

	// Codec selects the output encoder by name.
	Codec      string
	Bitrate    int
	Complexity int

	// ResampleRate, when positive, forces every input to this rate.
	// Otherwise only rates outside StandardRates go to FallbackRate.
	ResampleRate int
	FallbackRate int
	// PreserveChannels keeps the decoded channel layout for transcoding.
	// The waveform is always computed from the mono mix.
	PreserveChannels bool

	MaxInputBytes int
	MaxDuration   time.Duration
	StreamSerial  uint32
}

// StandardRates are passed through untouched when ResampleRate is zero.
var StandardRates = []int{8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000, 96000}

func DefaultConfig() Config {
	return Config{
		Buckets:          200,
		QuantizationBits: 8,
		Mode:             waveform.Peak,
		Codec:            "opus",
		Bitrate:          64000,
		Complexity:       10,
		FallbackRate:     48000,
		MaxInputBytes:    512 << 20,
		MaxDuration:      4 * time.Hour,
		StreamSerial:     0x61776176,
	}
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Buckets > 0, "buckets must be positive, got %d", c.Buckets)
	check(c.QuantizationBits == 8 || c.QuantizationBits == 16,
		"quantization bits must be 8 or 16, got %d", c.QuantizationBits)
	check(c.Mode == waveform.Peak || c.Mode == waveform.RMS, "unknown waveform mode %v", c.Mode)
	check(c.Codec != "", "codec must be set")
	check(c.Bitrate >= 0, "bitrate must not be negative, got %d", c.Bitrate)
	check(c.Complexity >= 0 && c.Complexity <= 10, "complexity must be within 0..10, got %d", c.Complexity)
	check(c.ResampleRate >= 0, "resample rate must not be negative, got %d", c.ResampleRate)
	check(c.FallbackRate > 0, "fallback rate must be positive, got %d", c.FallbackRate)
	check(c.MaxInputBytes > 0, "max input bytes must be positive, got %d", c.MaxInputBytes)
	check(c.MaxDuration > 0, "max duration must be positive, got %s", c.MaxDuration)

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Profile is the encoding profile handed to the output encoder.
func (c Config) Profile() audio.EncodingProfile {
	return audio.EncodingProfile{
		Codec:      c.Codec,
		Bitrate:    c.Bitrate,
		Complexity: c.Complexity,
		Serial:     c.StreamSerial,
	}
}
