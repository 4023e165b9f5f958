// SPDX-License-Identifier: EPL-2.0

package audwave

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/audwave/audio"
)

// SampleSource turns raw bytes of any supported format into a PCMBuffer.
type SampleSource struct {
	registry     *audio.Registry
	maxBytes     int
	maxDuration  time.Duration
	resampleRate int
	fallbackRate int
	preserve     bool
	logger       *zap.Logger
}

// Info describes decoded audio before any downmix or resampling.
type Info struct {
	Format     string  `json:"format"`
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Frames     int     `json:"frames"`
	Duration   float64 `json:"duration"`
}

func NewSampleSource(registry *audio.Registry, cfg Config, logger *zap.Logger) *SampleSource {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SampleSource{
		registry:     registry,
		maxBytes:     cfg.MaxInputBytes,
		maxDuration:  cfg.MaxDuration,
		resampleRate: cfg.ResampleRate,
		fallbackRate: cfg.FallbackRate,
		preserve:     cfg.PreserveChannels,
		logger:       logger,
	}
}

// Decode detects the format of data, decodes it, folds it to mono unless
// channels are preserved and resamples it according to the rate policy.
func (s *SampleSource) Decode(ctx context.Context, data []byte) (*audio.PCMBuffer, error) {
	buf, format, err := s.decode(ctx, data)
	if err != nil {
		return nil, err
	}

	if !s.preserve {
		buf = buf.Mono()
	}

	if buf.Len() == 0 {
		return buf, nil
	}

	if rate := s.targetRate(buf.SampleRate()); rate != buf.SampleRate() {
		s.logger.Debug("resampling",
			zap.String("format", format),
			zap.Int("from", buf.SampleRate()),
			zap.Int("to", rate),
		)

		buf, err = buf.Resample(ctx, rate)
		if err != nil {
			return nil, decodeError(err)
		}
	}

	return buf, nil
}

// Probe decodes data and reports what it contains without converting it.
func (s *SampleSource) Probe(ctx context.Context, data []byte) (Info, error) {
	buf, format, err := s.decode(ctx, data)
	if err != nil {
		return Info{}, err
	}

	return Info{
		Format:     format,
		SampleRate: buf.SampleRate(),
		Channels:   buf.Channels(),
		Frames:     buf.Frames(),
		Duration:   buf.Duration(),
	}, nil
}

func (s *SampleSource) decode(ctx context.Context, data []byte) (*audio.PCMBuffer, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: %w", audio.ErrDecode, audio.ErrNoData)
	}
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return nil, "", fmt.Errorf("%w: %d bytes: %w", audio.ErrDecode, len(data), ErrInputTooLarge)
	}

	src, dec, err := s.registry.Open(ctx, data)
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	rate, channels := src.SampleRate(), src.Channels()
	maxFrames := 0
	if s.maxDuration > 0 {
		maxFrames = int(s.maxDuration.Seconds() * float64(rate))
	}

	samples, err := audio.ReadAll(ctx, src, sizeHint(len(data), maxFrames, channels), maxFrames)
	if err != nil {
		return nil, dec.Name(), decodeError(fmt.Errorf("%s: %w", dec.Name(), err))
	}

	buf, err := audio.NewPCMBuffer(samples, rate, channels)
	if err != nil {
		return nil, dec.Name(), decodeError(fmt.Errorf("%s: %w", dec.Name(), err))
	}

	s.logger.Debug("decoded",
		zap.String("format", dec.Name()),
		zap.Int("sample_rate", rate),
		zap.Int("channels", channels),
		zap.Int("frames", buf.Frames()),
	)

	return buf, dec.Name(), nil
}

// maxSizeHint bounds the up-front sample allocation; ReadAll grows past it.
const maxSizeHint = 1 << 23

// sizeHint guesses the decoded sample count from the input size as if it
// were 16-bit PCM, capped by the duration limit and maxSizeHint.
func sizeHint(dataLen, maxFrames, channels int) int {
	hint := min(dataLen/2, maxSizeHint)
	if maxFrames > 0 {
		hint = min(hint, maxFrames*channels)
	}
	return hint
}

// targetRate applies the resample policy to a decoded rate.
func (s *SampleSource) targetRate(rate int) int {
	if s.resampleRate > 0 {
		return s.resampleRate
	}
	if slices.Contains(StandardRates, rate) {
		return rate
	}
	return s.fallbackRate
}

// decodeError tags err with ErrDecode unless it already carries a taxonomy
// sentinel or is a context error.
func decodeError(err error) error {
	switch {
	case errors.Is(err, audio.ErrDecode),
		errors.Is(err, audio.ErrUnsupportedFormat),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}

	return fmt.Errorf("%w: %w", audio.ErrDecode, err)
}
