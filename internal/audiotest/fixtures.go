// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/ik5/audwave/internal/memio"
)

// WAV encodes interleaved samples as a PCM WAV file of the given bit depth.
func WAV(rate, channels, bitDepth int, samples []float32) []byte {
	ws := memio.NewWriteSeeker(44 + len(samples)*bitDepth/8)
	enc := wav.NewEncoder(ws, rate, bitDepth, channels, 1)

	if err := enc.Write(intBuffer(rate, channels, bitDepth, samples, bitDepth == 8)); err != nil {
		panic(err)
	}
	if err := enc.Close(); err != nil {
		panic(err)
	}

	return ws.Bytes()
}

// AIFF encodes interleaved samples as a big-endian PCM AIFF file.
func AIFF(rate, channels, bitDepth int, samples []float32) []byte {
	ws := memio.NewWriteSeeker(54 + len(samples)*bitDepth/8)
	enc := aiff.NewEncoder(ws, rate, bitDepth, channels)

	if err := enc.Write(intBuffer(rate, channels, bitDepth, samples, false)); err != nil {
		panic(err)
	}
	if err := enc.Close(); err != nil {
		panic(err)
	}

	return ws.Bytes()
}

// AIFC builds an AIFF-C header with the given compression code and no sound
// data.
func AIFC(compression string) []byte {
	comm := new(bytes.Buffer)
	binary.Write(comm, binary.BigEndian, uint16(1))
	binary.Write(comm, binary.BigEndian, uint32(0))
	binary.Write(comm, binary.BigEndian, uint16(16))
	// 44100 as an 80-bit extended float
	comm.Write([]byte{0x40, 0x0e, 0xac, 0x44, 0, 0, 0, 0, 0, 0})
	comm.WriteString(compression)
	comm.Write([]byte{0, 0}) // empty pascal name, padded

	b := new(bytes.Buffer)
	b.WriteString("FORM")
	binary.Write(b, binary.BigEndian, uint32(4+8+comm.Len()))
	b.WriteString("AIFC")
	b.WriteString("COMM")
	binary.Write(b, binary.BigEndian, uint32(comm.Len()))
	b.Write(comm.Bytes())

	return b.Bytes()
}

// FLAC encodes interleaved samples as a FLAC stream of verbatim subframes
// with blocks of blockSize frames.
func FLAC(rate, channels, bitDepth, blockSize int, samples []float32) []byte {
	frames := len(samples) / channels
	info := &meta.StreamInfo{
		BlockSizeMin:  uint16(blockSize),
		BlockSizeMax:  uint16(blockSize),
		SampleRate:    uint32(rate),
		NChannels:     uint8(channels),
		BitsPerSample: uint8(bitDepth),
		NSamples:      uint64(frames),
	}

	ws := memio.NewWriteSeeker(len(samples) * bitDepth / 8)
	enc, err := flac.NewEncoder(ws, info)
	if err != nil {
		panic(err)
	}

	layouts := map[int]frame.Channels{1: frame.ChannelsMono, 2: frame.ChannelsLR}
	scale := float64(int(1)<<(bitDepth-1) - 1)

	for start := 0; start < frames; start += blockSize {
		n := min(blockSize, frames-start)
		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(n),
				SampleRate:        uint32(rate),
				Channels:          layouts[channels],
				BitsPerSample:     uint8(bitDepth),
				Num:               uint64(start / blockSize),
			},
		}

		for ch := range channels {
			sub := &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   make([]int32, n),
				NSamples:  n,
			}
			for i := range n {
				sub.Samples[i] = int32(float64(samples[(start+i)*channels+ch]) * scale)
			}
			f.Subframes = append(f.Subframes, sub)
		}

		if err := enc.WriteFrame(f); err != nil {
			panic(err)
		}
	}

	if err := enc.Close(); err != nil {
		panic(err)
	}

	return ws.Bytes()
}

// SineWAV is a mono 16-bit WAV of a sine wave.
func SineWAV(rate int, seconds, freq, amp float64) []byte {
	frames := int(float64(rate) * seconds)
	return WAV(rate, 1, 16, Samples(1, frames, Sine(rate, freq, amp)))
}

// WAVHeader builds a canonical 44-byte header with an arbitrary format tag,
// followed by dataLen zero bytes.
func WAVHeader(formatTag, channels, rate, bitDepth, dataLen int) []byte {
	b := new(bytes.Buffer)
	blockAlign := channels * bitDepth / 8

	b.WriteString("RIFF")
	binary.Write(b, binary.LittleEndian, uint32(36+dataLen))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(b, binary.LittleEndian, uint32(16))
	binary.Write(b, binary.LittleEndian, uint16(formatTag))
	binary.Write(b, binary.LittleEndian, uint16(channels))
	binary.Write(b, binary.LittleEndian, uint32(rate))
	binary.Write(b, binary.LittleEndian, uint32(rate*blockAlign))
	binary.Write(b, binary.LittleEndian, uint16(blockAlign))
	binary.Write(b, binary.LittleEndian, uint16(bitDepth))
	b.WriteString("data")
	binary.Write(b, binary.LittleEndian, uint32(dataLen))
	b.Write(make([]byte, dataLen))

	return b.Bytes()
}

// WAVExtensibleHeader is WAVHeader with a WAVE_FORMAT_EXTENSIBLE fmt chunk
// whose sub-format GUID carries subFormat.
func WAVExtensibleHeader(subFormat, channels, rate, bitDepth, dataLen int) []byte {
	b := new(bytes.Buffer)
	blockAlign := channels * bitDepth / 8

	b.WriteString("RIFF")
	binary.Write(b, binary.LittleEndian, uint32(60+dataLen))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(b, binary.LittleEndian, uint32(40))
	binary.Write(b, binary.LittleEndian, uint16(0xfffe))
	binary.Write(b, binary.LittleEndian, uint16(channels))
	binary.Write(b, binary.LittleEndian, uint32(rate))
	binary.Write(b, binary.LittleEndian, uint32(rate*blockAlign))
	binary.Write(b, binary.LittleEndian, uint16(blockAlign))
	binary.Write(b, binary.LittleEndian, uint16(bitDepth))
	binary.Write(b, binary.LittleEndian, uint16(22))
	binary.Write(b, binary.LittleEndian, uint16(bitDepth))
	binary.Write(b, binary.LittleEndian, uint32(0))
	binary.Write(b, binary.LittleEndian, uint16(subFormat))
	// KSDATAFORMAT_SUBTYPE tail
	b.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xaa, 0x00, 0x38, 0x9b, 0x71})
	b.WriteString("data")
	binary.Write(b, binary.LittleEndian, uint32(dataLen))
	b.Write(make([]byte, dataLen))

	return b.Bytes()
}

// OggPage builds a single BOS page carrying packet, enough for format probing.
// The checksum is left zero.
func OggPage(packet []byte) []byte {
	b := new(bytes.Buffer)
	b.WriteString("OggS")
	b.WriteByte(0)
	b.WriteByte(0x02)
	b.Write(make([]byte, 8+4+4+4))

	var lacing []byte
	n := len(packet)
	for n >= 255 {
		lacing = append(lacing, 255)
		n -= 255
	}
	lacing = append(lacing, byte(n))

	b.WriteByte(byte(len(lacing)))
	b.Write(lacing)
	b.Write(packet)

	return b.Bytes()
}

func intBuffer(rate, channels, bitDepth int, samples []float32, offset bool) *goaudio.IntBuffer {
	scale := float64(int(1)<<(bitDepth-1) - 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		v := int(float64(s) * scale)
		if offset {
			v += 128
		}
		data[i] = v
	}

	return &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
}
