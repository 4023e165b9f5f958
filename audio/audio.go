// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// ProbeSize is the number of leading bytes handed to Decoder.CanDecode.
const ProbeSize = 4096

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	// Close releases any resources.
	Close() error
}

// Decoder is a format capability: it recognizes a container by its leading
// bytes and turns a reader into a Source.
type Decoder interface {
	// Name is the registry key (e.g., "wav", "mp3", "vorbis").
	Name() string
	// CanDecode reports whether header, the first ProbeSize bytes (or fewer)
	// of the input, belongs to this format.
	CanDecode(header []byte) bool
	Decode(r io.Reader) (Source, error)
}

// EncodingProfile is the fixed output quality for one Pipeline.
type EncodingProfile struct {
	Codec      string
	Bitrate    int // bits per second, encoders without a bitrate ignore it
	Complexity int
	Serial     uint32 // container stream serial, keeps output deterministic
}

// Encoder turns a PCMBuffer into a complete output container.
type Encoder interface {
	Name() string
	ContentType() string
	// SupportedRate returns the rate the encoder wants for input at rate.
	SupportedRate(rate int) int
	MaxChannels() int
	Encode(ctx context.Context, buf *PCMBuffer, profile EncodingProfile) ([]byte, error)
}

// Registry holds decoders in priority order. It is built once and never
// modified afterwards, so lookups need no locking.
type Registry struct {
	decoders []Decoder
}

func NewRegistry(decoders ...Decoder) *Registry {
	return &Registry{
		decoders: append([]Decoder(nil), decoders...),
	}
}

func (r *Registry) Get(format string) (Decoder, bool) {
	for _, d := range r.decoders {
		if d.Name() == format {
			return d, true
		}
	}

	return nil, false
}

// Names lists the registered formats in priority order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.decoders))
	for i, d := range r.decoders {
		names[i] = d.Name()
	}

	return names
}

// Lookup returns the first decoder that claims data.
//
// When none does, the result is ErrUnsupportedFormat for containers that are
// known but have no decoder here, and ErrDecode for anything else.
func (r *Registry) Lookup(data []byte) (Decoder, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrDecode, ErrNoData)
	}

	header := data[:min(len(data), ProbeSize)]
	for _, d := range r.decoders {
		if d.CanDecode(header) {
			return d, nil
		}
	}

	if name, ok := KnownContainer(header); ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	return nil, fmt.Errorf("%w: %w", ErrDecode, ErrUnknownFormat)
}

// Open detects the format of data and decodes it with the matching decoder.
func (r *Registry) Open(ctx context.Context, data []byte) (Source, Decoder, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w", err)
	}

	d, err := r.Lookup(data)
	if err != nil {
		return nil, nil, err
	}

	src, err := d.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, d, classify(d.Name(), err)
	}

	return src, d, nil
}
