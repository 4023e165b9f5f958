// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	ErrFloatNotSupported    = errors.New("IEEE float WAV is not supported")
	ErrCompressedWav        = errors.New("compressed WAV is not supported")
	ErrBitDepth             = errors.New("only 8, 16, 24 and 32-bit PCM supported")
	ErrMissingData          = errors.New("WAV data chunk not found")
	ErrTruncated            = errors.New("WAV data chunk is shorter than declared")
)
