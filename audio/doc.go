// SPDX-License-Identifier: EPL-2.0

// Package audio provides the in-memory audio model and the low-level
// processing primitives shared by decoders, encoders and the pipeline.
//
// The package contains:
//   - Source, the pull-based stream every decoder returns
//   - Decoder and Encoder, the format capability interfaces
//   - Registry, an immutable priority-ordered list of decoders
//   - PCMBuffer, decoded audio held in memory
//   - Resampler and MonoMixer, Source-to-Source converters
//   - the error taxonomy shared by every stage
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    Close() error
//	}
//
// Samples are interleaved float32 in [-1.0, 1.0]. ReadSamples returns the
// number of values written, not frames, and io.EOF once the stream is done
// (possibly together with the final values).
//
// # Format Detection
//
// Decoders are probed in the order they were given to NewRegistry. Each one
// looks at the first ProbeSize bytes and claims the data or not:
//
//	registry := audio.NewRegistry(wav.Decoder{}, flac.Decoder{}, mp3.Decoder{})
//	src, dec, err := registry.Open(ctx, data)
//
// Lookup distinguishes containers that are known but not implemented
// (ErrUnsupportedFormat) from data nothing recognizes (ErrDecode).
//
// # PCMBuffer
//
// PCMBuffer is immutable once built, so any number of goroutines may read
// it. Mono and Resample return new buffers; Source returns an independent
// reader each time:
//
//	mono := buf.Mono()
//	at48k, err := buf.Resample(ctx, 48000)
//
// # Resampling
//
// The Resampler uses Catmull-Rom cubic interpolation. When downsampling,
// the input passes through a one-pole low-pass first to reduce aliasing.
// Output length is ceil(frames * dst / src).
//
// # Errors
//
// ErrDecode, ErrUnsupportedFormat, ErrEmptyInput, ErrEncoding and ErrEncode
// classify every failure. Causes stay reachable through errors.Is and
// errors.As.
package audio
