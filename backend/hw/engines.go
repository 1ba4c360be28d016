// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build (linux || darwin) && !nohw

package hw

import (
	"fmt"
	"time"

	"github.com/gogpu/vidpipe"
	"github.com/gogpu/vidpipe/lut"
	"github.com/gogpu/vidpipe/media"
	"github.com/gogpu/vidpipe/surface"
)

// operation is the sync point for one submitted hardware operation. The
// surface it holds stays locked until the token is waited on.
type operation struct {
	token   uint64
	release *surface.Surface
}

// New builds a hardware engine set from cfg. It is the registered factory.
func New(cfg vidpipe.EngineConfig) (*vidpipe.Engines, error) {
	if err := load(); err != nil {
		return nil, err
	}
	if err := cfg.Target.Validate(); err != nil {
		return nil, fmt.Errorf("hw: target: %w", err)
	}

	depth := cfg.AsyncDepth
	if depth <= 0 {
		depth = vidpipe.DefaultAsyncDepth
	}
	h := vpSessionOpen(uint32(depth))
	if h == 0 {
		return nil, fmt.Errorf("hw: session open failed")
	}

	ses := &session{handle: h}
	return &vidpipe.Engines{
		Decoder:     &decoder{ses: ses},
		Transformer: &transformer{ses: ses, out: cfg.Target, lut: cfg.LUT},
		Encoder:     &encoder{ses: ses, out: cfg.Target},
		Session:     ses,
	}, nil
}

// bptr returns the base pointer of p, or nil for an empty slice.
func bptr(p []byte) *byte {
	if len(p) == 0 {
		return nil
	}
	return &p[0]
}

type session struct {
	handle uintptr
}

func (s *session) SyncOperation(sp vidpipe.SyncPoint, timeout time.Duration) vidpipe.Status {
	op, ok := sp.(*operation)
	if !ok {
		return vidpipe.StatusDeviceFailed
	}
	st := vidpipe.Status(vpSync(s.handle, op.token, uint32(timeout.Milliseconds())))
	if st == vidpipe.StatusOK && op.release != nil {
		op.release.Release()
		op.release = nil
	}
	return st
}

func (s *session) Close() error {
	if s.handle != 0 {
		vpSessionClose(s.handle)
		s.handle = 0
	}
	return nil
}

type decoder struct {
	ses *session
}

func (d *decoder) DecodeHeader(bs *media.Bitstream) (surface.Info, error) {
	p := bs.Payload()
	var fourcc, w, h uint32
	st := vidpipe.Status(vpDecodeHeader(d.ses.handle, bptr(p), uint32(len(p)), &fourcc, &w, &h))
	if st != vidpipe.StatusOK {
		return surface.Info{}, fmt.Errorf("hw: decode header: %s", st)
	}
	info := surface.Info{FourCC: surface.FourCC(fourcc), Width: int(w), Height: int(h)}
	if err := info.Validate(); err != nil {
		return surface.Info{}, err
	}
	return info, nil
}

func (d *decoder) SuggestedSurfaces() int {
	return int(vpDecodeSurfaces(d.ses.handle))
}

func (d *decoder) DecodeFrameAsync(bs *media.Bitstream, work *surface.Surface) (*surface.Surface, vidpipe.SyncPoint, vidpipe.Status) {
	var data *byte
	var n uint32
	if bs != nil {
		p := bs.Payload()
		data, n = bptr(p), uint32(len(p))
	}

	var consumed uint32
	var seq, token uint64
	st := vidpipe.Status(vpDecodeFrame(d.ses.handle, data, n,
		&consumed, bptr(work.Data), uint32(len(work.Data)), &seq, &token))
	if bs != nil {
		bs.Consume(int(consumed))
	}
	if st != vidpipe.StatusOK {
		if st.Warning() && token != 0 {
			st = vidpipe.StatusOK
		} else {
			return nil, nil, st
		}
	}
	work.Seq = seq
	work.Acquire() // released by the transform once it consumes the frame
	return work, &operation{token: token}, vidpipe.StatusOK
}

func (d *decoder) Close() error { return nil }

type transformer struct {
	ses *session
	out surface.Info
	lut *lut.Table
}

func (t *transformer) OutputInfo() surface.Info { return t.out }

func (t *transformer) SuggestedSurfaces() (in, out int) { return 1, 1 }

func (t *transformer) RunFrameAsync(in, out *surface.Surface) (vidpipe.SyncPoint, vidpipe.Status) {
	var src *byte
	var sw, sh uint32
	if in != nil {
		srcInfo := in.Info()
		src, sw, sh = bptr(in.Data), uint32(srcInfo.Width), uint32(srcInfo.Height)
	}
	var lutPtr *uint16
	var lutSize uint32
	if t.lut != nil {
		lutPtr, lutSize = &t.lut.Data[0], uint32(t.lut.Size)
	}

	var token uint64
	st := vidpipe.Status(vpVPPFrame(t.ses.handle, src, sw, sh,
		bptr(out.Data), uint32(t.out.Width), uint32(t.out.Height),
		lutPtr, lutSize, &token))
	if st != vidpipe.StatusOK {
		if st.Warning() && token != 0 {
			st = vidpipe.StatusOK
		} else {
			return nil, st
		}
	}
	if in != nil {
		out.Seq = in.Seq
		in.Release() // input consumed
	}
	out.Acquire() // released when the encode of this frame completes
	return &operation{token: token}, vidpipe.StatusOK
}

func (t *transformer) Close() error { return nil }

type encoder struct {
	ses *session
	out surface.Info
}

func (e *encoder) SuggestedSurfaces() int { return 1 }

func (e *encoder) BufferSize() int {
	return int(vpEncodeBufSize(e.ses.handle, uint32(e.out.Width), uint32(e.out.Height)))
}

func (e *encoder) EncodeFrameAsync(in *surface.Surface, out *media.Bitstream) (vidpipe.SyncPoint, vidpipe.Status) {
	var pix *byte
	var n uint32
	if in != nil {
		pix, n = bptr(in.Data), uint32(len(in.Data))
	}

	end := out.DataOffset + out.DataLength
	free := out.Data[end:]

	var written uint32
	var token uint64
	st := vidpipe.Status(vpEncodeFrame(e.ses.handle, pix, n,
		bptr(free), uint32(len(free)), &written, &token))
	if st != vidpipe.StatusOK {
		if st.Warning() && token != 0 {
			st = vidpipe.StatusOK
		} else {
			return nil, st
		}
	}
	out.DataLength += int(written)
	return &operation{token: token, release: in}, vidpipe.StatusOK
}

func (e *encoder) Close() error { return nil }
