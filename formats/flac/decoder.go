// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/utils"
)

var (
	// ErrNotFlacFile indicates the input does not start with a fLaC marker
	ErrNotFlacFile = errors.New("not a FLAC file")

	// ErrBitDepth indicates a sample size outside 4..32 bits
	ErrBitDepth = errors.New("unsupported FLAC bit depth")

	// ErrChannelMismatch indicates a frame whose channel count differs from
	// the stream header
	ErrChannelMismatch = errors.New("FLAC frame channel count changed mid-stream")
)

// frameParser is the part of flac.Stream the source needs, to allow testing.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

type source struct {
	stream     frameParser
	sampleRate int
	channels   int
	bitDepth   int
	buf        []float32
	pending    []float32 // decoded, interleaved samples not yet handed out
	eof        bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return s.stream.Close() }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	n := 0
	for n < len(dst) {
		if len(s.pending) == 0 {
			if s.eof {
				break
			}
			if err := s.next(); err != nil {
				return n, err
			}
			continue
		}

		c := copy(dst[n:], s.pending)
		s.pending = s.pending[c:]
		n += c
	}

	if n == 0 && s.eof {
		return 0, io.EOF
	}

	return n, nil
}

// next decodes one frame into pending.
func (s *source) next() error {
	f, err := s.stream.ParseNext()
	if err == io.EOF {
		s.eof = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	if len(f.Subframes) != s.channels {
		return fmt.Errorf("%w: %d != %d", ErrChannelMismatch, len(f.Subframes), s.channels)
	}

	size := int(f.BlockSize)
	buf := s.buf[:0]
	if cap(buf) < size*s.channels {
		buf = make([]float32, 0, size*s.channels)
	}

	for i := range size {
		for ch := range s.channels {
			buf = append(buf, utils.IntToFloat32(int(f.Subframes[ch].Samples[i]), s.bitDepth))
		}
	}
	s.buf = buf
	s.pending = buf

	return nil
}

type Decoder struct{}

func (Decoder) Name() string { return "flac" }

func (Decoder) CanDecode(header []byte) bool {
	return bytes.HasPrefix(header, []byte("fLaC"))
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}

	info := stream.Info
	if info.BitsPerSample < 4 || info.BitsPerSample > 32 {
		stream.Close()
		return nil, fmt.Errorf("%w: %d-bit: %w", audio.ErrUnsupportedFormat, info.BitsPerSample, ErrBitDepth)
	}

	if info.NChannels == 0 || info.SampleRate == 0 {
		stream.Close()
		return nil, fmt.Errorf("%w: %d channels at %d Hz", audio.ErrDecode, info.NChannels, info.SampleRate)
	}

	return &source{
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
	}, nil
}
