// SPDX-License-Identifier: EPL-2.0

// Package memio provides an in-memory io.WriteSeeker for encoders that patch
// headers after writing the payload.
package memio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var ErrNegativeOffset = errors.New("negative position")

type WriteSeeker struct {
	buf []byte
	pos int
}

func NewWriteSeeker(capacity int) *WriteSeeker {
	return &WriteSeeker{buf: make([]byte, 0, capacity)}
}

func (w *WriteSeeker) Write(p []byte) (int, error) {
	end := w.pos + len(p)
	if end > len(w.buf) {
		if end > cap(w.buf) {
			grown := make([]byte, end, max(end, 2*cap(w.buf)))
			copy(grown, w.buf)
			w.buf = grown
		} else {
			w.buf = w.buf[:end]
		}
	}

	copy(w.buf[w.pos:], p)
	w.pos = end
	return len(p), nil
}

func (w *WriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if abs < 0 {
		return 0, ErrNegativeOffset
	}

	w.pos = int(abs)
	return abs, nil
}

// Bytes returns the written data. Seeking past the end and writing leaves a
// zero-filled gap, like a sparse file.
func (w *WriteSeeker) Bytes() []byte {
	return w.buf
}

// ReadSeeker returns r itself when it can seek, otherwise buffers it fully.
// go-audio decoders need to seek between chunks.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return bytes.NewReader(data), nil
}
