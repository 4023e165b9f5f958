// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"

	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/internal/memio"
	"github.com/ik5/audwave/utils"
)

// WAVE format tags
const (
	formatPCM        = 0x0001
	formatFloat      = 0x0003
	formatExtensible = 0xfffe
)

// pcmReader is the part of wav.Decoder the source needs, to allow testing.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        pcmReader
	sampleRate int
	channels   int
	bitDepth   int
	intBuf     *goaudio.IntBuffer

	// remaining counts the data chunk bytes declared but not yet read.
	remaining int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{Data: make([]int, len(dst))}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	s.remaining -= n * (s.bitDepth / 8)
	if n == 0 {
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("%w", err)
		}
		return 0, s.eof()
	}

	data := s.intBuf.Data[:n]
	if s.bitDepth == 8 {
		for i, v := range data {
			dst[i] = utils.Uint8ToFloat32(v)
		}
	} else {
		for i, v := range data {
			dst[i] = utils.IntToFloat32(v, s.bitDepth)
		}
	}

	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w", err)
	}

	return n, nil
}

// eof ends the stream, or reports ErrTruncated when the data chunk held fewer
// bytes than its header declared. A missing pad byte is not truncation.
func (s *source) eof() error {
	if s.remaining > 1 {
		return fmt.Errorf("%w: %d bytes missing: %w", audio.ErrDecode, s.remaining, ErrTruncated)
	}
	return io.EOF
}

type Decoder struct{}

func (Decoder) Name() string { return "wav" }

func (Decoder) CanDecode(header []byte) bool {
	return len(header) >= 12 &&
		bytes.Equal(header[:4], []byte("RIFF")) &&
		bytes.Equal(header[8:12], []byte("WAVE"))
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := memio.ReadSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("reading wav data: %w", err)
	}

	sub, err := subFormat(rs)
	if err != nil {
		return nil, fmt.Errorf("reading wav data: %w", err)
	}

	dec := wav.NewDecoder(rs)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}

	tag := dec.WavAudioFormat
	if tag == formatExtensible {
		tag = sub
	}

	switch tag {
	case formatPCM:
	case formatFloat:
		return nil, fmt.Errorf("%w: %w", audio.ErrUnsupportedFormat, ErrFloatNotSupported)
	default:
		return nil, fmt.Errorf("%w: format tag 0x%04x: %w", audio.ErrUnsupportedFormat, tag, ErrCompressedWav)
	}

	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit: %w", audio.ErrUnsupportedFormat, dec.BitDepth, ErrBitDepth)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingData, err)
	}

	return &source{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   int(dec.BitDepth),
		remaining:  dec.PCMSize,
	}, nil
}

// subFormat returns the first two bytes of the sub-format GUID of a
// WAVE_FORMAT_EXTENSIBLE fmt chunk, which hold the plain format tag. It
// returns 0 for any other stream and leaves rs where it found it.
func subFormat(rs io.ReadSeeker) (uint16, error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("%w", err)
	}

	sub := extensibleSubFormat(riff.New(rs))

	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w", err)
	}

	return sub, nil
}

func extensibleSubFormat(p *riff.Parser) uint16 {
	// channels through the channel mask, after the format tag
	var ext struct {
		Channels      uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		ExtensionSize uint16
		ValidBits     uint16
		ChannelMask   uint32
		SubFormat     uint16
	}

	if p.ParseHeaders() != nil || p.Format != riff.WavFormatID {
		return 0
	}

	for {
		ch, err := p.NextChunk()
		if err != nil || ch.ID == riff.DataFormatID {
			return 0
		}
		if ch.ID != riff.FmtID {
			ch.Drain()
			continue
		}

		var tag uint16
		if ch.ReadLE(&tag) != nil || tag != formatExtensible || ch.Size < 2+binary.Size(ext) {
			return 0
		}
		if ch.ReadLE(&ext) != nil {
			return 0
		}
		return ext.SubFormat
	}
}
