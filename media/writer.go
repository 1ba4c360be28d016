// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package media

import (
	"fmt"
	"io"
)

// Sink consumes one flushed frame at a time. WriteFrame must drain the valid
// window of bs and reset its cursors so the buffer can be reused for the next
// encode submission.
type Sink interface {
	WriteFrame(bs *Bitstream) error
}

// Writer flushes frames to an io.Writer.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w as a pipeline sink.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteFrame writes the valid window of bs and resets the cursor pair.
func (w *Writer) WriteFrame(bs *Bitstream) error {
	n, err := w.w.Write(bs.Payload())
	if err != nil {
		return fmt.Errorf("media: write frame: %w", err)
	}
	if n != bs.DataLength {
		return fmt.Errorf("media: short frame write: %d of %d bytes", n, bs.DataLength)
	}
	bs.Reset()
	return nil
}

// Discard is a sink that drops frames. It still resets the bitstream cursors,
// keeping the task recycle contract intact, which makes it valid for dry-run
// and benchmark modes.
var Discard Sink = discard{}

type discard struct{}

func (discard) WriteFrame(bs *Bitstream) error {
	bs.Reset()
	return nil
}
