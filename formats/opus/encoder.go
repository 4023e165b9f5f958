// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"bytes"
	"context"
	"fmt"

	"gopkg.in/hraban/opus.v2"

	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/internal/ogg"
)

const (
	granuleRate = 48000 // granule positions always count 48 kHz samples
	frameMillis = 20
	// PreSkip is the encoder delay written to OpusHead, in 48 kHz samples.
	PreSkip = 312

	maxPacket      = 4000
	packetsPerPage = 50 // one second of 20ms packets
)

// Encoder writes Ogg Opus (RFC 7845) with one fixed serial per profile.
type Encoder struct{}

func (Encoder) Name() string        { return "opus" }
func (Encoder) ContentType() string { return "audio/ogg; codecs=opus" }
func (Encoder) MaxChannels() int    { return 2 }

// SupportedRate keeps the rates libopus accepts and maps the rest to 48 kHz.
func (Encoder) SupportedRate(rate int) int {
	switch rate {
	case 8000, 12000, 16000, 24000, 48000:
		return rate
	}
	return granuleRate
}

func (e Encoder) Encode(ctx context.Context, buf *audio.PCMBuffer, profile audio.EncodingProfile) ([]byte, error) {
	rate, channels := buf.SampleRate(), buf.Channels()
	if e.SupportedRate(rate) != rate {
		return nil, fmt.Errorf("%w: %d Hz", ErrRate, rate)
	}
	if channels > e.MaxChannels() {
		return nil, fmt.Errorf("%w: %d", ErrChannels, channels)
	}

	enc, err := opus.NewEncoder(rate, channels, opus.AppAudio)
	if err != nil {
		return nil, fmt.Errorf("creating opus encoder: %w", err)
	}
	if profile.Bitrate > 0 {
		if err := enc.SetBitrate(profile.Bitrate); err != nil {
			return nil, fmt.Errorf("setting bitrate %d: %w", profile.Bitrate, err)
		}
	}
	if err := enc.SetComplexity(profile.Complexity); err != nil {
		return nil, fmt.Errorf("setting complexity %d: %w", profile.Complexity, err)
	}

	head, err := Head{
		Version:   1,
		Channels:  channels,
		PreSkip:   PreSkip,
		InputRate: rate,
	}.MarshalBinary()
	if err != nil {
		return nil, err
	}

	out := new(bytes.Buffer)
	w := ogg.NewWriter(out, profile.Serial)
	if err := w.WritePage([][]byte{head}, 0, ogg.FlagBOS); err != nil {
		return nil, fmt.Errorf("writing OpusHead: %w", err)
	}
	if err := w.WritePage([][]byte{tags(Vendor)}, 0, 0); err != nil {
		return nil, fmt.Errorf("writing OpusTags: %w", err)
	}

	p := &pager{
		w:        w,
		step:     int64(granuleRate / rate),
		final:    int64(buf.Frames())*int64(granuleRate/rate) + PreSkip,
		frameLen: rate * frameMillis / 1000,
	}

	// the encoder delay is flushed with trailing silence
	frameLen := p.frameLen * channels
	total := buf.Len() + PreSkip/int(p.step)*channels
	samples := buf.Samples()
	frame := make([]float32, frameLen)
	packet := make([]byte, maxPacket)

	for start := 0; start < total; start += frameLen {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		n := 0
		if start < len(samples) {
			n = copy(frame, samples[start:])
		}
		clear(frame[n:])

		size, err := enc.EncodeFloat32(frame, packet)
		if err != nil {
			return nil, fmt.Errorf("encoding frame at %d: %w", start/channels, err)
		}

		if err := p.add(packet[:size], start+frameLen >= total); err != nil {
			return nil, err
		}
	}

	return out.Bytes(), nil
}

// pager groups audio packets into pages and tracks granule positions.
type pager struct {
	w        *ogg.Writer
	step     int64 // granule units per input sample
	final    int64
	frameLen int

	packets  [][]byte
	segments int
	granule  int64
}

func (p *pager) add(packet []byte, last bool) error {
	lacing := ogg.LacingSize(len(packet))
	if len(p.packets) > 0 && p.segments+lacing > ogg.MaxSegments {
		if err := p.flush(0); err != nil {
			return err
		}
	}

	p.packets = append(p.packets, bytes.Clone(packet))
	p.segments += lacing
	p.granule += int64(p.frameLen) * p.step

	if last {
		p.granule = p.final
		return p.flush(ogg.FlagEOS)
	}

	if len(p.packets) >= packetsPerPage {
		return p.flush(0)
	}

	return nil
}

func (p *pager) flush(flags byte) error {
	if err := p.w.WritePage(p.packets, min(p.granule, p.final), flags); err != nil {
		return fmt.Errorf("writing ogg page: %w", err)
	}

	p.packets = p.packets[:0]
	p.segments = 0
	return nil
}
