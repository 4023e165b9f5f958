// SPDX-License-Identifier: EPL-2.0

package audwave

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/waveform"
)

// AudioResult is everything Generate derives from one input.
type AudioResult struct {
	Audio       []byte  `json:"audio"`
	ContentType string  `json:"content_type"`
	Waveform    string  `json:"waveform"`
	Duration    float64 `json:"duration"`
}

// Pipeline is safe for concurrent use. It holds no per-call state.
type Pipeline struct {
	cfg        Config
	source     *SampleSource
	reducer    waveform.Reducer
	codec      waveform.Codec
	transcoder *Transcoder
	logger     *zap.Logger
}

type options struct {
	logger   *zap.Logger
	decoders []audio.Decoder
	encoders []audio.Encoder
}

type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDecoders replaces the built-in decoders. Order is probe priority.
func WithDecoders(d ...audio.Decoder) Option {
	return func(o *options) { o.decoders = d }
}

// WithEncoders replaces the built-in encoders.
func WithEncoders(e ...audio.Encoder) Option {
	return func(o *options) { o.encoders = e }
}

func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		logger:   zap.NewNop(),
		decoders: defaultDecoders,
		encoders: defaultEncoders,
	}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger.Named("audwave")

	transcoder, err := NewTranscoder(o.encoders, cfg.Profile(), logger)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:        cfg,
		source:     NewSampleSource(audio.NewRegistry(o.decoders...), cfg, logger),
		reducer:    waveform.Reducer{Buckets: cfg.Buckets, Mode: cfg.Mode},
		codec:      waveform.Codec{Buckets: cfg.Buckets, Bits: cfg.QuantizationBits},
		transcoder: transcoder,
		logger:     logger,
	}, nil
}

func (p *Pipeline) Config() Config { return p.cfg }

// Source exposes the decoding stage on its own.
func (p *Pipeline) Source() *SampleSource { return p.source }

// ContentType of AudioResult.Audio.
func (p *Pipeline) ContentType() string { return p.transcoder.ContentType() }

// Generate decodes data once, then computes the waveform and the transcoded
// audio concurrently from the same buffer. The first failure cancels the
// other branch and is returned as a *StageError.
func (p *Pipeline) Generate(ctx context.Context, data []byte) (*AudioResult, error) {
	start := time.Now()

	buf, err := p.source.Decode(ctx, data)
	if err != nil {
		return nil, p.fail(StageDecode, err)
	}
	if buf.Len() == 0 {
		return nil, p.fail(StageReduce, audio.ErrEmptyInput)
	}

	res := &AudioResult{
		ContentType: p.transcoder.ContentType(),
		Duration:    buf.Duration(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		mags, err := p.reducer.Reduce(gctx, buf.Mono())
		if err != nil {
			return stageError(StageReduce, err)
		}

		wf, err := p.codec.Encode(mags)
		if err != nil {
			return stageError(StageEncodeWaveform, err)
		}

		res.Waveform = wf
		return nil
	})

	g.Go(func() error {
		out, err := p.transcoder.Transcode(gctx, buf)
		if err != nil {
			return stageError(StageTranscode, err)
		}

		res.Audio = out
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, p.fail("", err)
	}

	p.logger.Debug("generated",
		zap.Int("input_bytes", len(data)),
		zap.Int("audio_bytes", len(res.Audio)),
		zap.Float64("duration", res.Duration),
		zap.Duration("elapsed", time.Since(start)),
	)

	return res, nil
}

func (p *Pipeline) fail(stage Stage, err error) error {
	err = stageError(stage, err)
	p.logger.Warn("generate failed", zap.Error(err))
	return err
}
