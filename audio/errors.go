// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every failure leaving the pipeline matches exactly one of
// these with errors.Is.
var (
	// ErrDecode covers empty, truncated, oversized or unrecognized input.
	ErrDecode = errors.New("decode error")
	// ErrUnsupportedFormat is a recognized container or codec without an implementation.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrEmptyInput is decoded audio with zero samples.
	ErrEmptyInput = errors.New("empty input")
	// ErrEncoding is a waveform serialization invariant violation.
	ErrEncoding = errors.New("waveform encoding error")
	// ErrEncode is a transcoding failure.
	ErrEncode = errors.New("encode error")
)

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrInvalidLayout  = errors.New("sample count must be multiple of channels")
	ErrInvalidRate    = errors.New("sample rate must be positive")
	ErrNoData         = errors.New("no input data")
	ErrUnknownFormat  = errors.New("unrecognized container")
	ErrTooLong        = errors.New("audio exceeds duration limit")
)

// classify makes sure a decoder failure carries a taxonomy sentinel.
func classify(format string, err error) error {
	if errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrDecode) {
		return fmt.Errorf("%s: %w", format, err)
	}

	return fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
}
