// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// Sound data is read with github.com/go-audio/aiff. Big-endian integer PCM
// at 8, 16, 24 or 32 bits is accepted, with any channel count and sample
// rate. Samples are normalized to float32 in [-1, 1).
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // ...
//	}
//
// AIFF-C files are accepted only when their COMM chunk declares the NONE
// compression type. Anything else, including little-endian "sowt", is
// rejected with an error that wraps both audio.ErrUnsupportedFormat and
// ErrCompressed.
//
// Decode reads the whole input into memory, because go-audio needs an
// io.ReadSeeker and the COMM chunk is inspected before decoding starts.
package aiff
