// SPDX-License-Identifier: EPL-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/audwave"
)

type generateOutput struct {
	ContentType string  `json:"content_type"`
	Waveform    string  `json:"waveform"`
	Duration    float64 `json:"duration"`
	AudioBytes  int     `json:"audio_bytes"`
	Output      string  `json:"output,omitempty"`
}

func newGenerateCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "generate <file|->",
		Short: "Compute the waveform and transcode one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := audwave.New(a.cfg, audwave.WithLogger(a.logger))
			if err != nil {
				return err
			}

			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			res, err := p.Generate(cmd.Context(), data)
			if err != nil {
				return err
			}

			if out != "" {
				if err := os.WriteFile(out, res.Audio, 0o644); err != nil {
					return fmt.Errorf("writing output: %w", err)
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(generateOutput{
				ContentType: res.ContentType,
				Waveform:    res.Waveform,
				Duration:    res.Duration,
				AudioBytes:  len(res.Audio),
				Output:      out,
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the transcoded audio to this file")

	return cmd
}
