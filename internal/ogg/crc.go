// SPDX-License-Identifier: EPL-2.0

package ogg

import "encoding/binary"

// Ogg uses CRC-32 with polynomial 0x04c11db7, unreflected, zero init and no
// final xor. hash/crc32 only implements the reflected form.
const crcPoly = 0x04c11db7

var crcTable = func() [256]uint32 {
	var t [256]uint32
	for i := range t {
		r := uint32(i) << 24
		for range 8 {
			if r&0x80000000 != 0 {
				r = r<<1 ^ crcPoly
			} else {
				r <<= 1
			}
		}
		t[i] = r
	}
	return t
}()

// pageChecksum computes the page CRC with the checksum field treated as zero.
func pageChecksum(page []byte) uint32 {
	var crc uint32
	for i, b := range page {
		if i >= 22 && i < 26 {
			b = 0
		}
		crc = crc<<8 ^ crcTable[byte(crc>>24)^b]
	}

	return crc
}

// Seal stores the checksum of a hand-built page in place.
func Seal(page []byte) {
	binary.LittleEndian.PutUint32(page[22:26], pageChecksum(page))
}
