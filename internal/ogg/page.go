// SPDX-License-Identifier: EPL-2.0

// Package ogg reads and writes Ogg pages (RFC 3533).
package ogg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	HeaderSize  = 27
	MaxSegments = 255

	FlagContinued = 0x01
	FlagBOS       = 0x02
	FlagEOS       = 0x04
)

var capturePattern = []byte("OggS")

var (
	ErrNotOgg       = errors.New("missing OggS capture pattern")
	ErrShortPage    = errors.New("truncated ogg page")
	ErrPageTooLarge = errors.New("packets exceed 255 lacing values")
	ErrBadChecksum  = errors.New("ogg page checksum mismatch")
)

// Page is one parsed Ogg page. Body aliases the input slice.
type Page struct {
	Flags    byte
	Granule  int64
	Serial   uint32
	Sequence uint32
	Checksum uint32
	Lacing   []byte
	Body     []byte
}

// Packets splits the page body on lacing values. The last packet is
// incomplete when the final lacing value is 255.
func (p Page) Packets() [][]byte {
	var (
		out   [][]byte
		start int
		size  int
	)

	for i, l := range p.Lacing {
		size += int(l)
		if l < 255 || i == len(p.Lacing)-1 {
			out = append(out, p.Body[start:start+size])
			start += size
			size = 0
		}
	}

	return out
}

// ReadPage parses the page at the start of data and returns it with the
// number of bytes it occupies.
func ReadPage(data []byte) (Page, int, error) {
	if len(data) < HeaderSize {
		if len(data) >= 4 && string(data[:4]) != string(capturePattern) {
			return Page{}, 0, ErrNotOgg
		}
		return Page{}, 0, ErrShortPage
	}

	if string(data[:4]) != string(capturePattern) {
		return Page{}, 0, ErrNotOgg
	}

	nseg := int(data[26])
	if len(data) < HeaderSize+nseg {
		return Page{}, 0, ErrShortPage
	}

	lacing := data[HeaderSize : HeaderSize+nseg]
	bodyLen := 0
	for _, l := range lacing {
		bodyLen += int(l)
	}

	total := HeaderSize + nseg + bodyLen
	if len(data) < total {
		return Page{}, 0, ErrShortPage
	}

	return Page{
		Flags:    data[5],
		Granule:  int64(binary.LittleEndian.Uint64(data[6:14])),
		Serial:   binary.LittleEndian.Uint32(data[14:18]),
		Sequence: binary.LittleEndian.Uint32(data[18:22]),
		Checksum: binary.LittleEndian.Uint32(data[22:26]),
		Lacing:   lacing,
		Body:     data[HeaderSize+nseg : total],
	}, total, nil
}

// FirstPacket returns the first packet of the first page, or as much of it
// as header holds. Codec identification only needs its leading bytes.
func FirstPacket(header []byte) ([]byte, bool) {
	if len(header) < HeaderSize || string(header[:4]) != string(capturePattern) {
		return nil, false
	}

	nseg := int(header[26])
	if nseg == 0 || len(header) < HeaderSize+nseg {
		return nil, false
	}

	size := 0
	for _, l := range header[HeaderSize : HeaderSize+nseg] {
		size += int(l)
		if l < 255 {
			break
		}
	}

	body := header[HeaderSize+nseg:]
	return body[:min(size, len(body))], true
}

// Verify recomputes the checksum of a complete page.
func Verify(page []byte) error {
	p, n, err := ReadPage(page)
	if err != nil {
		return err
	}

	if got := pageChecksum(page[:n]); got != p.Checksum {
		return fmt.Errorf("%w: have %08x, computed %08x", ErrBadChecksum, p.Checksum, got)
	}

	return nil
}

// Writer emits pages of a single logical stream.
type Writer struct {
	w        io.Writer
	serial   uint32
	sequence uint32
	buf      []byte
}

func NewWriter(w io.Writer, serial uint32) *Writer {
	return &Writer{w: w, serial: serial}
}

// LacingSize is the number of lacing values a packet of n bytes needs.
func LacingSize(n int) int {
	return n/255 + 1
}

// WritePage writes packets as one page. Every packet ends on this page.
func (w *Writer) WritePage(packets [][]byte, granule int64, flags byte) error {
	nseg := 0
	bodyLen := 0
	for _, p := range packets {
		nseg += LacingSize(len(p))
		bodyLen += len(p)
	}

	if nseg > MaxSegments {
		return ErrPageTooLarge
	}

	size := HeaderSize + nseg + bodyLen
	if cap(w.buf) < size {
		w.buf = make([]byte, size)
	}
	page := w.buf[:size]

	copy(page[0:4], capturePattern)
	page[4] = 0
	page[5] = flags
	binary.LittleEndian.PutUint64(page[6:14], uint64(granule))
	binary.LittleEndian.PutUint32(page[14:18], w.serial)
	binary.LittleEndian.PutUint32(page[18:22], w.sequence)
	binary.LittleEndian.PutUint32(page[22:26], 0)
	page[26] = byte(nseg)

	seg := HeaderSize
	body := HeaderSize + nseg
	for _, p := range packets {
		n := len(p)
		for n >= 255 {
			page[seg] = 255
			seg++
			n -= 255
		}
		page[seg] = byte(n)
		seg++

		body += copy(page[body:], p)
	}

	binary.LittleEndian.PutUint32(page[22:26], pageChecksum(page))

	if _, err := w.w.Write(page); err != nil {
		return fmt.Errorf("%w", err)
	}

	w.sequence++
	return nil
}
