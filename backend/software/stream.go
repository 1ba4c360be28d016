// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/vidpipe/surface"
)

// Stream layout. A stream is one 16-byte header followed by frame records:
// a 16-byte record header and a zstd-compressed raw frame payload.
//
//	header: "VPSH" | fourcc u32 | width u32 | height u32
//	record: "VPSF" | seq u64 | payload size u32 | payload
//
// All integers are little-endian.
const (
	streamHeaderSize = 16
	frameHeaderSize  = 16
)

var (
	headerMagic = [4]byte{'V', 'P', 'S', 'H'}
	frameMagic  = [4]byte{'V', 'P', 'S', 'F'}
)

// parseStreamHeader decodes the stream header without consuming it.
func parseStreamHeader(p []byte) (surface.Info, error) {
	if len(p) < streamHeaderSize {
		return surface.Info{}, fmt.Errorf("software: stream header truncated: %d bytes", len(p))
	}
	if [4]byte(p[:4]) != headerMagic {
		return surface.Info{}, fmt.Errorf("software: bad stream magic %q", p[:4])
	}
	info := surface.Info{
		FourCC: surface.FourCC(binary.LittleEndian.Uint32(p[4:])),
		Width:  int(binary.LittleEndian.Uint32(p[8:])),
		Height: int(binary.LittleEndian.Uint32(p[12:])),
	}
	if err := info.Validate(); err != nil {
		return surface.Info{}, err
	}
	return info, nil
}

// putStreamHeader encodes the stream header into a 16-byte buffer.
func putStreamHeader(p []byte, info surface.Info) {
	copy(p, headerMagic[:])
	binary.LittleEndian.PutUint32(p[4:], uint32(info.FourCC))
	binary.LittleEndian.PutUint32(p[8:], uint32(info.Width))
	binary.LittleEndian.PutUint32(p[12:], uint32(info.Height))
}

// putFrameHeader encodes a frame record header into a 16-byte buffer.
func putFrameHeader(p []byte, seq uint64, payload int) {
	copy(p, frameMagic[:])
	binary.LittleEndian.PutUint64(p[4:], seq)
	binary.LittleEndian.PutUint32(p[12:], uint32(payload))
}

// StreamWriter produces a stream from raw frames, compressing each payload.
// It is the source-side counterpart of the decoder, used by the CLI and by
// tests to synthesize inputs.
type StreamWriter struct {
	w    io.Writer
	zw   *zstd.Encoder
	info surface.Info
	seq  uint64
	buf  []byte
}

// NewStreamWriter writes the stream header for info and returns a writer
// accepting raw frames of that geometry.
func NewStreamWriter(w io.Writer, info surface.Info) (*StreamWriter, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	zw, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedFastest),
		zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("software: %w", err)
	}

	var hdr [streamHeaderSize]byte
	putStreamHeader(hdr[:], info)
	if _, err := w.Write(hdr[:]); err != nil {
		zw.Close()
		return nil, fmt.Errorf("software: write stream header: %w", err)
	}
	return &StreamWriter{w: w, zw: zw, info: info}, nil
}

// WriteFrame appends one raw frame to the stream.
func (sw *StreamWriter) WriteFrame(pix []byte) error {
	if want := sw.info.FourCC.BytesPerFrame(sw.info.Width, sw.info.Height); len(pix) != want {
		return fmt.Errorf("software: frame of %d bytes, want %d", len(pix), want)
	}

	sw.buf = sw.zw.EncodeAll(pix, sw.buf[:0])

	var hdr [frameHeaderSize]byte
	putFrameHeader(hdr[:], sw.seq, len(sw.buf))
	if _, err := sw.w.Write(hdr[:]); err != nil {
		return fmt.Errorf("software: write frame header: %w", err)
	}
	if _, err := sw.w.Write(sw.buf); err != nil {
		return fmt.Errorf("software: write frame payload: %w", err)
	}
	sw.seq++
	return nil
}

// Frames returns the number of frames written so far.
func (sw *StreamWriter) Frames() uint64 { return sw.seq }

// Close releases the compressor. The underlying writer is not closed.
func (sw *StreamWriter) Close() error {
	return sw.zw.Close()
}

// SyntheticFrame fills a raw RGBA frame with a gradient that varies by
// sequence number, so every frame of a generated stream is distinct.
func SyntheticFrame(info surface.Info, seq int) []byte {
	pix := make([]byte, info.FourCC.BytesPerFrame(info.Width, info.Height))
	for y := 0; y < info.Height; y++ {
		for x := 0; x < info.Width; x++ {
			i := (y*info.Width + x) * 4
			pix[i] = uint8(x + seq)
			pix[i+1] = uint8(y + seq*3)
			pix[i+2] = uint8(x + y + seq*7)
			pix[i+3] = 0xff
		}
	}
	return pix
}
