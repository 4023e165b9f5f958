// SPDX-License-Identifier: EPL-2.0

// Package opus reads and writes Ogg Opus (RFC 7845) through libopus, using
// gopkg.in/hraban/opus.v2 for the codec and internal/ogg for the container.
//
// # Encoding
//
// Encoder produces 20ms packets at a fixed bitrate and complexity taken
// from audio.EncodingProfile. The input must already be at one of the rates
// libopus accepts (8, 12, 16, 24 or 48 kHz, see SupportedRate) and have one
// or two channels. The stream serial comes from the profile, which keeps
// the output byte-for-byte reproducible.
//
// Granule positions count 48 kHz samples. OpusHead declares a pre-skip of
// PreSkip samples and the final page's granule marks the true end, so a
// conforming player drops both the encoder delay and the silence that pads
// the last packet.
//
// # Decoding
//
// Decoder accepts streams with channel mapping family 0. It always yields
// 48 kHz samples, applies the pre-skip and trims the tail to the last
// granule position. Other logical streams multiplexed into the same file
// are ignored.
package opus
