// SPDX-License-Identifier: EPL-2.0

package audwave

import (
	"slices"

	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/formats/aiff"
	"github.com/ik5/audwave/formats/flac"
	"github.com/ik5/audwave/formats/mp3"
	"github.com/ik5/audwave/formats/opus"
	"github.com/ik5/audwave/formats/vorbis"
	"github.com/ik5/audwave/formats/wav"
)

// Probe order. MP3 goes last because a bare frame sync is the weakest
// signature.
var defaultDecoders = []audio.Decoder{
	wav.Decoder{},
	flac.Decoder{},
	aiff.Decoder{},
	vorbis.Decoder{},
	opus.Decoder{},
	mp3.Decoder{},
}

var defaultEncoders = []audio.Encoder{
	opus.Encoder{},
	wav.Encoder{},
}

// DefaultDecoders returns a copy of the built-in decoders in priority order.
func DefaultDecoders() []audio.Decoder { return slices.Clone(defaultDecoders) }

// DefaultEncoders returns a copy of the built-in encoders.
func DefaultEncoders() []audio.Encoder { return slices.Clone(defaultEncoders) }
