// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MPEG-1 and
// MPEG-2 Layer III streams. It provides a simple interface for reading MP3
// audio as PCM samples.
//
//	src, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// # Output Format
//
// MP3 decoder output:
//   - Sample format: float32 in range [-1.0, 1.0)
//   - Channels: always 2, mono files are duplicated by go-mp3
//   - Sample rate: that of the MP3 file
//
// Use audio.NewMonoMixer or PCMBuffer.Mono to fold the output back to one
// channel.
//
// # Detection
//
// CanDecode accepts an ID3v2 tag or a Layer III frame header with a valid
// version, bitrate index and sample-rate index. Layer I and II streams are
// left to audio.KnownContainer, which reports them as unsupported.
package mp3
