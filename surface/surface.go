// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image"
	"sync/atomic"
)

// FourCC identifies a pixel layout.
type FourCC uint32

// fourcc packs four ASCII bytes in memory order.
func fourcc(a, b, c, d byte) FourCC {
	return FourCC(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

// Supported pixel layouts.
var (
	// FourCCRGBA is 8-bit interleaved RGBA, 4 bytes per pixel.
	FourCCRGBA = fourcc('R', 'G', 'B', 'A')

	// FourCCNV12 is 8-bit planar Y followed by interleaved UV at half
	// resolution, 3/2 bytes per pixel.
	FourCCNV12 = fourcc('N', 'V', '1', '2')

	// FourCCP010 is the 10-bit-in-16 variant of NV12, 3 bytes per pixel.
	FourCCP010 = fourcc('P', '0', '1', '0')
)

// String returns the four-character code as text.
func (f FourCC) String() string {
	return string([]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)})
}

// BytesPerFrame returns the buffer size for one w by h frame, or 0 for an
// unknown layout.
func (f FourCC) BytesPerFrame(w, h int) int {
	switch f {
	case FourCCRGBA:
		return w * h * 4
	case FourCCNV12:
		return w * h * 3 / 2
	case FourCCP010:
		return w * h * 3
	default:
		return 0
	}
}

// Info describes the fixed geometry of a surface. It is set when the owning
// pool is created and never changes afterwards.
type Info struct {
	FourCC FourCC
	Width  int
	Height int
}

// Validate reports whether the geometry is usable.
func (i Info) Validate() error {
	if i.Width <= 0 || i.Height <= 0 {
		return fmt.Errorf("surface: invalid geometry %dx%d", i.Width, i.Height)
	}
	if i.FourCC.BytesPerFrame(i.Width, i.Height) == 0 {
		return fmt.Errorf("surface: unsupported layout %q", i.FourCC.String())
	}
	return nil
}

// Surface is a single reusable frame buffer.
//
// The pixel data and geometry are plain fields; the lock counter is the only
// state shared between the control goroutine and engine completion handlers.
type Surface struct {
	info Info

	// Data holds the raw pixel bytes in the layout described by Info.
	Data []byte

	// Seq is the source-order sequence number of the frame currently held
	// in Data. Engines propagate it from stage to stage so the sink order
	// can be verified against the source order.
	Seq uint64

	locked atomic.Int32
}

// New allocates a surface with backing storage for its geometry.
// Most callers should allocate surfaces through NewPool instead.
func New(info Info) (*Surface, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	return &Surface{
		info: info,
		Data: make([]byte, info.FourCC.BytesPerFrame(info.Width, info.Height)),
	}, nil
}

// Info returns the surface geometry.
func (s *Surface) Info() Info { return s.info }

// Locked reports whether any in-flight operation still references the
// surface.
func (s *Surface) Locked() bool { return s.locked.Load() != 0 }

// Acquire adds one reference for an operation that will read or write the
// surface. It is called by engines at submission time, never by the pool.
func (s *Surface) Acquire() { s.locked.Add(1) }

// Release drops one reference. Engines call it when the operation holding the
// reference completes. Releasing an unlocked surface panics: it indicates a
// double free in an engine backend.
func (s *Surface) Release() {
	if s.locked.Add(-1) < 0 {
		panic("surface: release of unlocked surface")
	}
}

// RGBA returns an image view sharing the surface's backing storage.
// Only valid for FourCCRGBA surfaces; other layouts return nil.
func (s *Surface) RGBA() *image.RGBA {
	if s.info.FourCC != FourCCRGBA {
		return nil
	}
	return &image.RGBA{
		Pix:    s.Data,
		Stride: s.info.Width * 4,
		Rect:   image.Rect(0, 0, s.info.Width, s.info.Height),
	}
}
