// SPDX-License-Identifier: EPL-2.0

package audwave

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step that failed.
type Stage string

const (
	StageDecode         Stage = "decode"
	StageReduce         Stage = "reduce"
	StageEncodeWaveform Stage = "encode-waveform"
	StageTranscode      Stage = "transcode"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInputTooLarge = errors.New("input exceeds size limit")
	ErrUnknownCodec  = errors.New("no encoder for codec")
)

// StageError is returned by Pipeline.Generate. Err carries one of the audio
// taxonomy sentinels, so errors.Is(err, audio.ErrDecode) works through it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("audwave: %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}

	var se *StageError
	if errors.As(err, &se) {
		return err
	}

	return &StageError{Stage: stage, Err: err}
}
