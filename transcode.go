// SPDX-License-Identifier: EPL-2.0

package audwave

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ik5/audwave/audio"
)

// Transcoder re-encodes PCM with one encoder and a fixed profile.
type Transcoder struct {
	encoder audio.Encoder
	profile audio.EncodingProfile
	logger  *zap.Logger
}

// NewTranscoder picks the encoder named by profile.Codec.
func NewTranscoder(encoders []audio.Encoder, profile audio.EncodingProfile, logger *zap.Logger) (*Transcoder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, e := range encoders {
		if e.Name() == profile.Codec {
			return &Transcoder{encoder: e, profile: profile, logger: logger}, nil
		}
	}

	return nil, fmt.Errorf("%w: %w %q", audio.ErrEncode, ErrUnknownCodec, profile.Codec)
}

func (t *Transcoder) ContentType() string { return t.encoder.ContentType() }

// Transcode adapts buf to what the encoder accepts and encodes it. Layouts
// wider than the encoder supports are folded to mono.
func (t *Transcoder) Transcode(ctx context.Context, buf *audio.PCMBuffer) ([]byte, error) {
	if buf.Channels() > t.encoder.MaxChannels() {
		buf = buf.Mono()
	}

	if rate := t.encoder.SupportedRate(buf.SampleRate()); rate != buf.SampleRate() {
		t.logger.Debug("resampling for encoder",
			zap.String("codec", t.encoder.Name()),
			zap.Int("from", buf.SampleRate()),
			zap.Int("to", rate),
		)

		var err error
		buf, err = buf.Resample(ctx, rate)
		if err != nil {
			return nil, fmt.Errorf("%w: resampling to %d Hz: %w", audio.ErrEncode, rate, err)
		}
	}

	out, err := t.encoder.Encode(ctx, buf, t.profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", audio.ErrEncode, t.encoder.Name(), err)
	}

	return out, nil
}
