// SPDX-License-Identifier: EPL-2.0

package opus

import "errors"

var (
	ErrNotOpus       = errors.New("not an Ogg Opus stream")
	ErrBadHeader     = errors.New("malformed OpusHead")
	ErrMappingFamily = errors.New("only channel mapping family 0 is supported")
	ErrNoTags        = errors.New("missing OpusTags header")
	ErrRate          = errors.New("sample rate not supported by opus")
	ErrChannels      = errors.New("opus encodes at most two channels")
)
