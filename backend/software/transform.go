// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"golang.org/x/image/draw"

	"github.com/gogpu/vidpipe"
	"github.com/gogpu/vidpipe/lut"
	"github.com/gogpu/vidpipe/surface"
)

// transformer scales RGBA frames to the target geometry and optionally maps
// them through a 3D color lookup table. The work happens at submission; the
// stage holds no frames, so a nil input drains immediately.
type transformer struct {
	out surface.Info
	lut *lut.Table
}

func (t *transformer) OutputInfo() surface.Info { return t.out }

func (t *transformer) SuggestedSurfaces() (in, out int) { return 1, 1 }

func (t *transformer) RunFrameAsync(in, out *surface.Surface) (vidpipe.SyncPoint, vidpipe.Status) {
	if in == nil {
		return nil, vidpipe.StatusMoreInput
	}
	src, dst := in.RGBA(), out.RGBA()
	if src == nil || dst == nil {
		return nil, vidpipe.StatusDeviceFailed
	}

	draw.ApproxBiLinear.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
	if t.lut != nil {
		applyLUT(t.lut, out.Data)
	}

	out.Seq = in.Seq
	in.Release()  // input consumed
	out.Acquire() // released when the encode of this frame completes
	return completedOp(), vidpipe.StatusOK
}

// applyLUT maps every RGBA pixel through the table in place. Alpha passes
// through.
func applyLUT(t *lut.Table, pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2] = t.Lookup(pix[i], pix[i+1], pix[i+2])
	}
}

func (t *transformer) Close() error { return nil }
