// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package media

import (
	"errors"
	"io"
)

// Source produces raw input bytes on demand. Fill returns io.EOF once the
// stream is exhausted and no new bytes were added.
type Source interface {
	Fill(bs *Bitstream) error
}

// ErrBufferFull is returned by Fill when the unconsumed window already spans
// the whole buffer, so no new bytes can be read. It means the stream holds a
// record larger than the buffer capacity; retrying the same Fill can never
// make progress.
var ErrBufferFull = errors.New("media: bitstream buffer full")

// Reader refills a bitstream from an io.Reader.
//
// Each Fill first compacts the unconsumed tail of the bitstream to the front
// of the buffer, then reads as many bytes as fit behind it. This mirrors how
// hardware decode loops keep partially parsed input across submissions.
type Reader struct {
	r   io.Reader
	eof bool
}

// NewReader wraps r as a pipeline source.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Fill compacts bs and reads new bytes behind the valid window.
// It returns io.EOF when the underlying reader is exhausted and Fill added
// nothing, which the pipeline takes as the end-of-stream signal.
func (r *Reader) Fill(bs *Bitstream) error {
	copy(bs.Data, bs.Payload())
	bs.DataOffset = 0

	if bs.DataLength == len(bs.Data) {
		return ErrBufferFull
	}
	if r.eof {
		return io.EOF
	}

	n, err := io.ReadFull(r.r, bs.Data[bs.DataLength:])
	bs.DataLength += n
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		r.eof = true
		if n == 0 {
			return io.EOF
		}
		return nil
	default:
		return err
	}
}
