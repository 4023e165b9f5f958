// SPDX-License-Identifier: EPL-2.0

package mp3_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/formats/mp3"
	"github.com/ik5/audwave/formats/wav"
)

// ExampleDecoder_Decode shows how to decode an MP3 file.
func ExampleDecoder_Decode() {
	f, err := os.Open("input.mp3")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	src, err := mp3.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Decoded MP3: %d Hz, %d channels\n",
		src.SampleRate(), src.Channels())
}

// ExampleDecoder_Decode_convertToWav demonstrates converting MP3 to a mono
// 16kHz WAV file.
func ExampleDecoder_Decode_convertToWav() {
	data, err := os.ReadFile("input.mp3")
	if err != nil {
		log.Fatal(err)
	}

	src, err := mp3.Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		log.Fatal(err)
	}

	samples, err := audio.ReadAll(context.Background(), src, 0, 0)
	if err != nil {
		log.Fatal(err)
	}

	pcm, err := audio.NewPCMBuffer(samples, src.SampleRate(), src.Channels())
	if err != nil {
		log.Fatal(err)
	}

	pcm, err = pcm.Mono().Resample(context.Background(), 16000)
	if err != nil {
		log.Fatal(err)
	}

	out, err := wav.Encoder{}.Encode(context.Background(), pcm, audio.EncodingProfile{})
	if err != nil {
		log.Fatal(err)
	}

	if err := os.WriteFile("output.wav", out, 0o644); err != nil {
		log.Fatal(err)
	}

	fmt.Println("MP3 converted to WAV")
}

// ExampleDecoder_Decode_streaming demonstrates streaming MP3 decoding.
func ExampleDecoder_Decode_streaming() {
	f, err := os.Open("input.mp3")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	src, err := mp3.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}

	buf := make([]float32, 4096)

	var totalSamples int
	for {
		n, err := src.ReadSamples(buf)
		totalSamples += n

		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
	}

	fmt.Printf("Streamed %d samples from MP3\n", totalSamples)
}

// ExampleDecoder_CanDecode shows which headers are claimed by the decoder.
func ExampleDecoder_CanDecode() {
	d := mp3.Decoder{}

	fmt.Println(d.CanDecode([]byte("ID3\x04\x00\x00\x00\x00\x00\x00")))
	fmt.Println(d.CanDecode([]byte{0xff, 0xfb, 0x90, 0x64}))
	fmt.Println(d.CanDecode([]byte("OggS\x00\x02")))
	// Output:
	// true
	// true
	// false
}

// ExampleDecoder_Decode_errorHandling shows error handling for invalid MP3 files.
func ExampleDecoder_Decode_errorHandling() {
	_, err := mp3.Decoder{}.Decode(bytes.NewReader([]byte("not an mp3 file")))
	fmt.Println(err != nil)
	// Output: true
}
