// SPDX-License-Identifier: EPL-2.0

package audwave_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/ik5/audwave"
	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/internal/audiotest"
)

func ExamplePipeline_Generate() {
	cfg := audwave.DefaultConfig()
	cfg.Buckets = 4
	cfg.Codec = "wav"

	p, err := audwave.New(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}

	// One second at 8 kHz with a single click at the start.
	data := audiotest.WAV(8000, 1, 16, audiotest.Samples(1, 8000, audiotest.Impulse(0, 1)))

	res, err := p.Generate(context.Background(), data)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(res.ContentType)
	fmt.Println(len(res.Audio))
	fmt.Println(res.Waveform)
	fmt.Printf("%.1fs\n", res.Duration)
	// Output:
	// audio/wav
	// 16044
	// /wAAAA==
	// 1.0s
}

func ExampleStageError() {
	p, err := audwave.New(audwave.DefaultConfig())
	if err != nil {
		fmt.Println(err)
		return
	}

	_, err = p.Generate(context.Background(), []byte("definitely not audio"))

	var se *audwave.StageError
	if errors.As(err, &se) {
		fmt.Println(se.Stage)
	}
	fmt.Println(errors.Is(err, audio.ErrDecode))
	// Output:
	// decode
	// true
}

func ExampleSampleSource_Probe() {
	src := audwave.NewSampleSource(
		audio.NewRegistry(audwave.DefaultDecoders()...),
		audwave.DefaultConfig(),
		nil,
	)

	info, err := src.Probe(context.Background(), audiotest.SineWAV(22050, 2, 440, 0.5))
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%s %d Hz %d ch %.1fs\n", info.Format, info.SampleRate, info.Channels, info.Duration)
	// Output: wav 22050 Hz 1 ch 2.0s
}

func ExampleConfig_Validate() {
	cfg := audwave.DefaultConfig()
	cfg.Buckets = 0

	err := cfg.Validate()
	fmt.Println(errors.Is(err, audwave.ErrInvalidConfig))
	// Output: true
}
