// SPDX-License-Identifier: EPL-2.0

// Package waveform reduces decoded audio to a fixed number of amplitude
// buckets and serializes them as a compact base64 string.
//
//	mags, err := waveform.Reducer{Buckets: 200}.Reduce(ctx, pcm)
//	s, err := waveform.Codec{Buckets: 200, Bits: 8}.Encode(mags)
//
// The number of buckets never depends on the input length. Short inputs
// leave trailing buckets empty (0.0), long inputs put the remainder of the
// integer division into the last bucket.
package waveform
