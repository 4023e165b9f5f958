// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"context"
	"fmt"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/internal/memio"
	"github.com/ik5/audwave/utils"
)

const (
	encodeBitDepth = 16
	encodeChunk    = 8192 // frames converted per Write
)

// Encoder writes 16-bit PCM WAV. It ignores bitrate and complexity.
type Encoder struct{}

func (Encoder) Name() string               { return "wav" }
func (Encoder) ContentType() string        { return "audio/wav" }
func (Encoder) SupportedRate(rate int) int { return rate }
func (Encoder) MaxChannels() int           { return 8 }

func (Encoder) Encode(ctx context.Context, buf *audio.PCMBuffer, _ audio.EncodingProfile) ([]byte, error) {
	channels := buf.Channels()
	ws := memio.NewWriteSeeker(44 + buf.Len()*encodeBitDepth/8)
	enc := wav.NewEncoder(ws, buf.SampleRate(), encodeBitDepth, channels, formatPCM)

	samples := buf.Samples()
	step := encodeChunk * channels
	ints := make([]int, min(step, len(samples)))
	format := &goaudio.Format{NumChannels: channels, SampleRate: buf.SampleRate()}

	write := func(chunk []float32) error {
		data := ints[:len(chunk)]
		for i, s := range chunk {
			data[i] = int(utils.Float32ToInt16(s))
		}

		ib := &goaudio.IntBuffer{Format: format, Data: data, SourceBitDepth: encodeBitDepth}
		if err := enc.Write(ib); err != nil {
			return fmt.Errorf("writing wav frames: %w", err)
		}
		return nil
	}

	// an empty write still emits the header
	if len(samples) == 0 {
		if err := write(nil); err != nil {
			return nil, err
		}
	}

	for start := 0; start < len(samples); start += step {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		if err := write(samples[start:min(start+step, len(samples))]); err != nil {
			return nil, err
		}
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finishing wav: %w", err)
	}

	return ws.Bytes(), nil
}
