// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/utils"
)

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// source wraps go-audio aiff.Decoder to implement audio.Source
type source struct {
	dec        aiffReader
	sampleRate int
	channels   int
	bitDepth   int
	intBuf     *goaudio.IntBuffer

	// remaining counts the samples declared in COMM but not yet read.
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
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	s.remaining -= n
	if n == 0 {
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("%w", err)
		}
		return 0, s.eof()
	}

	for i, v := range s.intBuf.Data[:n] {
		// go-audio/aiff hands 8-bit samples back as unsigned bytes
		if s.bitDepth == 8 {
			v = int(int8(v))
		}
		dst[i] = utils.IntToFloat32(v, s.bitDepth)
	}

	// a short read with no error is the end of the sound data
	if n < len(dst) && err == nil {
		return n, s.eof()
	}

	return n, err
}

// eof ends the stream, or reports ErrTruncated when SSND held fewer samples
// than COMM declared.
func (s *source) eof() error {
	if s.remaining > 0 {
		return fmt.Errorf("%w: %d samples missing: %w", audio.ErrDecode, s.remaining, ErrTruncated)
	}
	return io.EOF
}

type Decoder struct{}

func (Decoder) Name() string { return "aiff" }

func (Decoder) CanDecode(header []byte) bool {
	if len(header) < 12 || !bytes.Equal(header[:4], []byte("FORM")) {
		return false
	}

	form := string(header[8:12])
	return form == "AIFF" || form == "AIFC"
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading aiff data: %w", err)
	}

	if !(Decoder{}).CanDecode(data) {
		return nil, ErrNotAiffFile
	}

	if string(data[8:12]) == "AIFC" {
		kind, err := compressionType(data)
		if err != nil {
			return nil, err
		}
		if kind != "NONE" {
			return nil, fmt.Errorf("%w: %q: %w", audio.ErrUnsupportedFormat, kind, ErrCompressed)
		}
	}

	dec := aiff.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit: %w", audio.ErrUnsupportedFormat, dec.BitDepth, ErrBitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels == 0 || format.SampleRate == 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	return &source{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   int(dec.BitDepth),
		remaining:  int(dec.NumSampleFrames) * format.NumChannels,
	}, nil
}

// compressionType walks the chunks of an AIFF-C file and returns the
// four-character compression code from its COMM chunk.
func compressionType(data []byte) (string, error) {
	const commCompression = 18 // channels(2) frames(4) size(2) rate(10)

	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.BigEndian.Uint32(data[off+4 : off+8]))
		body := data[off+8:]

		if id == "COMM" {
			if size < commCompression+4 || len(body) < commCompression+4 {
				return "", ErrUnsupportedAiffChunks
			}
			return string(body[commCompression : commCompression+4]), nil
		}

		if size < 0 || size > len(body) {
			break
		}
		off += 8 + size + size&1
	}

	return "", ErrUnsupportedAiffChunks
}
