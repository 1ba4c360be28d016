// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/vidpipe"
	"github.com/gogpu/vidpipe/media"
	"github.com/gogpu/vidpipe/surface"
)

// encoder emits the framed zstd stream. Each frame compresses independently,
// so the encoder buffers nothing and drains immediately; the input surface
// stays locked until the session reports the operation complete.
type encoder struct {
	ses  *session
	out  surface.Info
	zw   *zstd.Encoder
	buf  []byte
	hdr  bool // stream header already emitted
	busy busyInjector
}

func newEncoder(ses *session, out surface.Info, level zstd.EncoderLevel, busyEvery int) (*encoder, error) {
	zw, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(level),
		zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return &encoder{ses: ses, out: out, zw: zw, busy: busyInjector{every: busyEvery}}, nil
}

func (e *encoder) SuggestedSurfaces() int { return 1 }

// BufferSize returns a per-task capacity that always fits one stream header
// plus one record of worst-case incompressible payload.
func (e *encoder) BufferSize() int {
	frame := e.out.FourCC.BytesPerFrame(e.out.Width, e.out.Height)
	return streamHeaderSize + frameHeaderSize + frame + frame>>8 + 256
}

func (e *encoder) EncodeFrameAsync(in *surface.Surface, out *media.Bitstream) (vidpipe.SyncPoint, vidpipe.Status) {
	if e.busy.hit() {
		return nil, vidpipe.StatusBusy
	}
	if in == nil {
		return nil, vidpipe.StatusMoreInput
	}

	e.buf = e.zw.EncodeAll(in.Data, e.buf[:0])

	var rec [frameHeaderSize]byte
	if !e.hdr {
		var hdr [streamHeaderSize]byte
		putStreamHeader(hdr[:], e.out)
		if !out.Append(hdr[:]) {
			return nil, vidpipe.StatusNotEnoughBuffer
		}
		e.hdr = true
	}
	putFrameHeader(rec[:], in.Seq, len(e.buf))
	if !out.Append(rec[:]) || !out.Append(e.buf) {
		return nil, vidpipe.StatusNotEnoughBuffer
	}
	return e.ses.submit(in), vidpipe.StatusOK
}

func (e *encoder) Close() error {
	return e.zw.Close()
}

// busyInjector reports a transient busy on every n-th call. Zero disables it.
// It exists so tests can exercise the pipeline's retry path against the real
// backend.
type busyInjector struct {
	every int
	calls int
}

func (b *busyInjector) hit() bool {
	if b.every <= 0 {
		return false
	}
	b.calls++
	return b.calls%b.every == 0
}
