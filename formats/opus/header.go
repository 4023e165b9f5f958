// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	headMagic = "OpusHead"
	tagsMagic = "OpusTags"
	headSize  = 19

	// Vendor is written into OpusTags.
	Vendor = "audwave"
)

// Head is the identification header of an Ogg Opus stream (RFC 7845 5.1).
type Head struct {
	Version   byte
	Channels  int
	PreSkip   int // samples at 48 kHz
	InputRate int // informational only
	Gain      int16
	Family    byte
}

// MarshalBinary encodes h for channel mapping family 0.
func (h Head) MarshalBinary() ([]byte, error) {
	if h.Family != 0 {
		return nil, fmt.Errorf("%w: %d", ErrMappingFamily, h.Family)
	}

	b := make([]byte, headSize)
	copy(b, headMagic)
	b[8] = h.Version
	b[9] = byte(h.Channels)
	binary.LittleEndian.PutUint16(b[10:12], uint16(h.PreSkip))
	binary.LittleEndian.PutUint32(b[12:16], uint32(h.InputRate))
	binary.LittleEndian.PutUint16(b[16:18], uint16(h.Gain))
	b[18] = h.Family

	return b, nil
}

func (h *Head) UnmarshalBinary(b []byte) error {
	if len(b) < headSize || !bytes.HasPrefix(b, []byte(headMagic)) {
		return ErrNotOpus
	}

	// only the major version is fixed
	if b[8]>>4 != 0 {
		return fmt.Errorf("%w: version %d", ErrBadHeader, b[8])
	}

	h.Version = b[8]
	h.Channels = int(b[9])
	h.PreSkip = int(binary.LittleEndian.Uint16(b[10:12]))
	h.InputRate = int(binary.LittleEndian.Uint32(b[12:16]))
	h.Gain = int16(binary.LittleEndian.Uint16(b[16:18]))
	h.Family = b[18]

	if h.Channels == 0 {
		return fmt.Errorf("%w: zero channels", ErrBadHeader)
	}

	return nil
}

// tags builds an OpusTags packet with a vendor string and no comments.
func tags(vendor string) []byte {
	b := make([]byte, 0, len(tagsMagic)+8+len(vendor))
	b = append(b, tagsMagic...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(vendor)))
	b = append(b, vendor...)
	b = binary.LittleEndian.AppendUint32(b, 0)

	return b
}

func isTags(packet []byte) bool {
	return bytes.HasPrefix(packet, []byte(tagsMagic))
}
