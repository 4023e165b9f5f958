// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"fmt"
	"io"

	"gopkg.in/hraban/opus.v2"

	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/internal/ogg"
)

// maxFrame is the longest Opus packet (120ms) at 48 kHz.
const maxFrame = 5760

// packetDecoder is the part of opus.Decoder the source needs, to allow testing.
type packetDecoder interface {
	DecodeFloat32(data []byte, pcm []float32) (int, error)
}

type source struct {
	dec      packetDecoder
	channels int
	packets  [][]byte
	skip     int   // frames still to drop from the front
	left     int64 // frames still to emit, negative when unknown
	pcm      []float32
	pending  []float32
}

func (s *source) SampleRate() int { return granuleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	n := 0
	for n < len(dst) {
		if len(s.pending) == 0 {
			if len(s.packets) == 0 || s.left == 0 {
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

	if n == 0 {
		return 0, io.EOF
	}

	return n, nil
}

// next decodes one packet into pending, applying pre-skip and end trimming.
func (s *source) next() error {
	packet := s.packets[0]
	s.packets = s.packets[1:]

	frames, err := s.dec.DecodeFloat32(packet, s.pcm)
	if err != nil {
		return fmt.Errorf("decoding opus packet: %w", err)
	}

	out := s.pcm[:frames*s.channels]
	if s.skip > 0 {
		drop := min(s.skip, frames)
		s.skip -= drop
		out = out[drop*s.channels:]
	}

	if s.left >= 0 {
		keep := min(int64(len(out)/s.channels), s.left)
		s.left -= keep
		out = out[:keep*int64(s.channels)]
	}

	s.pending = out
	return nil
}

type Decoder struct{}

func (Decoder) Name() string { return "opus" }

// CanDecode accepts an Ogg stream whose first packet is OpusHead.
func (Decoder) CanDecode(header []byte) bool {
	packet, ok := ogg.FirstPacket(header)
	return ok && len(packet) >= len(headMagic) && string(packet[:len(headMagic)]) == headMagic
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading opus data: %w", err)
	}

	packets, granule, err := readPackets(data)
	if err != nil {
		return nil, err
	}
	if len(packets) == 0 {
		return nil, ErrNotOpus
	}

	var head Head
	if err := head.UnmarshalBinary(packets[0]); err != nil {
		return nil, err
	}
	if head.Family != 0 || head.Channels > 2 {
		return nil, fmt.Errorf("%w: family %d with %d channels: %w",
			audio.ErrUnsupportedFormat, head.Family, head.Channels, ErrMappingFamily)
	}

	if len(packets) < 2 || !isTags(packets[1]) {
		return nil, ErrNoTags
	}

	dec, err := opus.NewDecoder(granuleRate, head.Channels)
	if err != nil {
		return nil, fmt.Errorf("creating opus decoder: %w", err)
	}

	left := int64(-1)
	if granule >= 0 {
		left = max(granule-int64(head.PreSkip), 0)
	}

	return &source{
		dec:      dec,
		channels: head.Channels,
		packets:  packets[2:],
		skip:     head.PreSkip,
		left:     left,
		pcm:      make([]float32, maxFrame*head.Channels),
	}, nil
}

// readPackets reassembles the packets of the first logical stream in data
// and returns them with the last granule position seen, or -1.
func readPackets(data []byte) ([][]byte, int64, error) {
	var (
		packets [][]byte
		partial []byte
		serial  uint32
		granule int64 = -1
	)

	for off, first := 0, true; off < len(data); first = false {
		page, n, err := ogg.ReadPage(data[off:])
		if err != nil {
			if first {
				return nil, 0, fmt.Errorf("%w: %w", ErrNotOpus, err)
			}
			return nil, 0, fmt.Errorf("page at offset %d: %w", off, err)
		}
		if err := ogg.Verify(data[off : off+n]); err != nil {
			return nil, 0, fmt.Errorf("page %d: %w", page.Sequence, err)
		}
		off += n

		if first {
			serial = page.Serial
		} else if page.Serial != serial {
			continue
		}

		if page.Flags&ogg.FlagContinued == 0 {
			partial = nil
		}

		split := page.Packets()
		for i, p := range split {
			if i == 0 && partial != nil {
				p = append(partial, p...)
				partial = nil
			}

			// a final lacing value of 255 continues on the next page
			if i == len(split)-1 && len(page.Lacing) > 0 && page.Lacing[len(page.Lacing)-1] == 255 {
				partial = append([]byte(nil), p...)
				continue
			}
			packets = append(packets, p)
		}

		if page.Granule >= 0 && len(packets) > 2 {
			granule = page.Granule
		}

		if page.Flags&ogg.FlagEOS != 0 {
			break
		}
	}

	return packets, granule, nil
}
