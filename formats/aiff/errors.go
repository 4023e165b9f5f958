// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the file is not a valid AIFF file
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrBitDepth indicates a sample size other than 8, 16, 24 or 32 bits
	ErrBitDepth = errors.New("only 8, 16, 24 and 32-bit PCM AIFF is supported")

	// ErrUnsupportedAiffLayout indicates an unsupported AIFF layout
	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")

	// ErrUnsupportedAiffChunks indicates a COMM chunk that could not be read
	ErrUnsupportedAiffChunks = errors.New("unsupported or malformed AIFF chunks")

	// ErrCompressed indicates an AIFF-C file with a compression type other than NONE
	ErrCompressed = errors.New("compressed AIFF-C is not supported")

	// ErrTruncated indicates sound data that ends before the frame count in COMM
	ErrTruncated = errors.New("AIFF sound data is shorter than declared")
)
