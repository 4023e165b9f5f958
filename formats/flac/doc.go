// SPDX-License-Identifier: EPL-2.0

// Package flac decodes native FLAC streams with github.com/mewkiz/flac.
//
// Frames are parsed one at a time and their subframes interleaved into
// float32 samples normalized by the stream's bit depth. Only the native
// "fLaC" container is claimed; FLAC inside Ogg is reported as unsupported
// by audio.KnownContainer.
//
//	src, err := flac.Decoder{}.Decode(file)
//	if err != nil {
//	    // ...
//	}
//	defer src.Close()
package flac
