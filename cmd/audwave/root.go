// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ik5/audwave"
	"github.com/ik5/audwave/waveform"
)

// app carries the settings shared by every subcommand.
type app struct {
	cfg      audwave.Config
	mode     string
	log      logConfig
	logger   *zap.Logger
	closeLog func() error
}

func newRootCmd() *cobra.Command {
	a := &app{
		cfg: configFromEnv(),
		log: logConfigFromEnv(),
	}
	a.mode = a.cfg.Mode.String()

	cmd := &cobra.Command{
		Use:           "audwave",
		Short:         "Waveform previews and playback copies of audio files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			m, err := waveform.ParseMode(a.mode)
			if err != nil {
				return err
			}
			a.cfg.Mode = m

			a.logger, a.closeLog, err = newLogger(a.log, cmd.ErrOrStderr())
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.IntVar(&a.cfg.Buckets, "buckets", a.cfg.Buckets, "number of waveform buckets")
	f.IntVar(&a.cfg.QuantizationBits, "bits", a.cfg.QuantizationBits, "waveform quantization, 8 or 16")
	f.StringVar(&a.mode, "mode", a.mode, "waveform reduction, peak or rms")
	f.StringVar(&a.cfg.Codec, "codec", a.cfg.Codec, "output codec, opus or wav")
	f.IntVar(&a.cfg.Bitrate, "bitrate", a.cfg.Bitrate, "output bitrate in bits per second")
	f.IntVar(&a.cfg.Complexity, "complexity", a.cfg.Complexity, "encoder complexity, 0..10")
	f.IntVar(&a.cfg.ResampleRate, "resample-rate", a.cfg.ResampleRate, "force every input to this rate, 0 keeps standard rates")
	f.IntVar(&a.cfg.FallbackRate, "fallback-rate", a.cfg.FallbackRate, "rate for inputs with a non-standard rate")
	f.BoolVar(&a.cfg.PreserveChannels, "preserve-channels", a.cfg.PreserveChannels, "keep the input channel layout in the output")
	f.IntVar(&a.cfg.MaxInputBytes, "max-bytes", a.cfg.MaxInputBytes, "largest accepted input")
	f.DurationVar(&a.cfg.MaxDuration, "max-duration", a.cfg.MaxDuration, "longest accepted input")
	f.Uint32Var(&a.cfg.StreamSerial, "serial", a.cfg.StreamSerial, "Ogg stream serial of the output")
	f.StringVar(&a.log.Level, "log-level", a.log.Level, "debug, info, warn or error")
	f.StringVar(&a.log.OutputPath, "log-file", a.log.OutputPath, "also write logs to this rotated file")

	cmd.AddCommand(
		newGenerateCmd(a),
		newProbeCmd(a),
		newConvertCmd(a),
	)

	return cmd
}

// readInput reads a whole file, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}
