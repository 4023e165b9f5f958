// SPDX-License-Identifier: EPL-2.0

// Package audwave turns an uploaded audio file into a compressed,
// playback-ready copy plus a compact waveform preview.
//
// A Pipeline decodes its input once and then runs two independent stages
// on the resulting PCM concurrently:
//
//   - the waveform branch folds the audio to mono, reduces it to a fixed
//     number of peak or RMS buckets, quantizes them and encodes them as
//     base64
//   - the transcode branch re-encodes the audio (Ogg Opus by default)
//
// # Quick Start
//
//	p, err := audwave.New(audwave.DefaultConfig(), audwave.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//
//	res, err := p.Generate(ctx, data)
//	if err != nil {
//		var se *audwave.StageError
//		if errors.As(err, &se) {
//			log.Printf("failed at %s", se.Stage)
//		}
//		return err
//	}
//
//	// res.Audio, res.ContentType, res.Waveform, res.Duration
//
// # Supported Formats
//
// Input is detected by content, never by file name:
//   - WAV (PCM 8/16/24/32-bit) via formats/wav
//   - FLAC via formats/flac
//   - AIFF and uncompressed AIFF-C via formats/aiff
//   - Ogg Vorbis via formats/vorbis
//   - Ogg Opus via formats/opus
//   - MP3 via formats/mp3
//
// Containers that are recognized but not implemented, such as MP4 or
// Matroska, fail with audio.ErrUnsupportedFormat. Anything else fails with
// audio.ErrDecode.
//
// # Errors
//
// Every error returned by Generate is a *StageError naming the failed
// stage, and matches exactly one of audio.ErrDecode,
// audio.ErrUnsupportedFormat, audio.ErrEmptyInput, audio.ErrEncoding or
// audio.ErrEncode with errors.Is. Context cancellation is passed through.
package audwave
