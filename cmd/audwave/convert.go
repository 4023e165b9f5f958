// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ik5/audwave"
	"github.com/ik5/audwave/audio"
)

// newConvertCmd streams one file through the resampler and mixer into an
// encoder, without computing a waveform.
func newConvertCmd(a *app) *cobra.Command {
	var (
		rate         int
		keepChannels bool
	)

	cmd := &cobra.Command{
		Use:   "convert <in|-> <out>",
		Short: "Resample, downmix and re-encode one file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			tr, err := audwave.NewTranscoder(audwave.DefaultEncoders(), a.cfg.Profile(), a.logger)
			if err != nil {
				return err
			}

			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			src, dec, err := audio.NewRegistry(audwave.DefaultDecoders()...).Open(ctx, data)
			if err != nil {
				return err
			}
			defer src.Close()

			var chain audio.Source = src
			if rate > 0 && rate != src.SampleRate() {
				chain = audio.NewResampler(chain, rate)
			}
			if !keepChannels {
				chain = audio.NewMonoMixer(chain)
			}

			samples, err := audio.ReadAll(ctx, chain, len(data)/2, 0)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", audio.ErrDecode, dec.Name(), err)
			}

			buf, err := audio.NewPCMBuffer(samples, chain.SampleRate(), chain.Channels())
			if err != nil {
				return err
			}

			out, err := tr.Transcode(ctx, buf)
			if err != nil {
				return err
			}

			a.logger.Info("converted",
				zap.String("format", dec.Name()),
				zap.Stringer("pcm", buf),
				zap.String("content_type", tr.ContentType()),
				zap.Int("bytes", len(out)),
			)

			return os.WriteFile(args[1], out, 0o644)
		},
	}

	cmd.Flags().IntVar(&rate, "rate", 8000, "output sample rate, 0 keeps the input rate")
	cmd.Flags().BoolVar(&keepChannels, "keep-channels", false, "do not downmix to mono")

	return cmd
}
