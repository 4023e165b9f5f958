// SPDX-License-Identifier: EPL-2.0

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ik5/audwave"
	"github.com/ik5/audwave/audio"
)

func newProbeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file|->",
		Short: "Report the detected format, rate, channels and duration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			src := audwave.NewSampleSource(audio.NewRegistry(audwave.DefaultDecoders()...), a.cfg, a.logger)
			info, err := src.Probe(cmd.Context(), data)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}
