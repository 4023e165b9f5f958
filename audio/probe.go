// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"

	"github.com/ik5/audwave/internal/ogg"
)

type signature struct {
	name  string
	match func(h []byte) bool
}

func prefix(p string) func([]byte) bool {
	return func(h []byte) bool { return bytes.HasPrefix(h, []byte(p)) }
}

// containers that are recognized but have no decoder in this module.
var knownContainers = []signature{
	{"mp4", func(h []byte) bool { return len(h) >= 8 && string(h[4:8]) == "ftyp" }},
	{"matroska", prefix("\x1a\x45\xdf\xa3")},
	{"asf", prefix("\x30\x26\xb2\x75\x8e\x66\xcf\x11")},
	{"amr", prefix("#!AMR")},
	{"caf", prefix("caff")},
	{"au", prefix(".snd")},
	{"rf64", prefix("RF64")},
	{"8svx", func(h []byte) bool { return len(h) >= 12 && string(h[:4]) == "FORM" && string(h[8:12]) == "8SVX" }},
	{"riff", func(h []byte) bool { return len(h) >= 12 && string(h[:4]) == "RIFF" && string(h[8:12]) != "WAVE" }},
	{"aac", func(h []byte) bool { return len(h) >= 2 && h[0] == 0xff && h[1]&0xf6 == 0xf0 }},
	{"mpeg audio layer I/II", func(h []byte) bool {
		return len(h) >= 2 && h[0] == 0xff && h[1]&0xe0 == 0xe0 && (h[1]>>1)&0x03 >= 2
	}},
	{"ogg", prefix("OggS")},
}

var oggCodecs = []signature{
	{"ogg speex", prefix("Speex   ")},
	{"ogg flac", prefix("\x7fFLAC")},
	{"ogg theora", prefix("\x80theora")},
	{"ogg skeleton", prefix("fishead\x00")},
}

// KnownContainer names the container of header when it is one this module
// recognizes but cannot decode.
func KnownContainer(header []byte) (string, bool) {
	for _, s := range knownContainers {
		if !s.match(header) {
			continue
		}

		if s.name == "ogg" {
			if pkt, ok := ogg.FirstPacket(header); ok {
				for _, c := range oggCodecs {
					if c.match(pkt) {
						return c.name, true
					}
				}
			}
		}

		return s.name, true
	}

	return "", false
}
