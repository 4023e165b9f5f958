// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis, a pure Go decoder.
// Vorbis is a free, open-source lossy audio compression format.
//
//	src, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
// Samples are interleaved float32 as produced by the decoder, at the
// stream's own rate and channel count. ReadSamples only hands out whole
// frames, so a destination shorter than one frame reads nothing.
//
// CanDecode looks inside the first Ogg page, so Ogg files carrying Opus,
// FLAC or Speex are not claimed by this package.
package vorbis
