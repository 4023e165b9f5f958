// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes RIFF/WAVE audio.
//
// Decoding is built on github.com/go-audio/wav and accepts integer PCM
// (format tag 1 or WAVE_FORMAT_EXTENSIBLE) at 8, 16, 24 or 32 bits, any
// channel count and any sample rate. 8-bit data is offset binary and is
// re-centred before normalization. IEEE float and compressed variants
// (ADPCM, µ-law, A-law, ...) are recognized and rejected with an error that
// wraps audio.ErrUnsupportedFormat.
//
//	src, err := wav.Decoder{}.Decode(file)
//	if errors.Is(err, audio.ErrUnsupportedFormat) {
//	    // valid WAV, but not integer PCM
//	}
//
// Encoder writes 16-bit PCM at the buffer's own rate and channel count:
//
//	data, err := wav.Encoder{}.Encode(ctx, pcm, audio.EncodingProfile{})
//
// The encoder is lossless apart from 16-bit quantization and is mostly used
// in tests and as an output for callers that do not want Opus.
package wav
