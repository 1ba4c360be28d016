// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"encoding/binary"

	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/vidpipe"
	"github.com/gogpu/vidpipe/media"
	"github.com/gogpu/vidpipe/surface"
)

// pendingFrame is a parsed but not yet emitted frame record.
type pendingFrame struct {
	seq     uint64
	payload []byte
}

// decoder decodes the framed zstd stream.
//
// Records are parsed off the bitstream eagerly, so a MoreInput status always
// means the stream genuinely holds no complete record. An optional emit delay
// holds parsed frames back the way a reordering hardware decoder does: the
// first output appears only after delay+1 records have gone in, and the tail
// comes out during draining.
type decoder struct {
	info  surface.Info
	delay int
	zr    *zstd.Decoder

	queue []pendingFrame
	buf   []byte
}

func newDecoder(delay int) (*decoder, error) {
	zr, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return &decoder{delay: delay, zr: zr}, nil
}

func (d *decoder) DecodeHeader(bs *media.Bitstream) (surface.Info, error) {
	info, err := parseStreamHeader(bs.Payload())
	if err != nil {
		return surface.Info{}, err
	}
	d.info = info
	return info, nil
}

func (d *decoder) SuggestedSurfaces() int { return d.delay + 1 }

func (d *decoder) DecodeFrameAsync(bs *media.Bitstream, work *surface.Surface) (*surface.Surface, vidpipe.SyncPoint, vidpipe.Status) {
	if bs != nil {
		if st := d.parseAll(bs); st != vidpipe.StatusOK {
			return nil, nil, st
		}
		if len(d.queue) <= d.delay {
			return nil, nil, vidpipe.StatusMoreInput
		}
	} else if len(d.queue) == 0 {
		return nil, nil, vidpipe.StatusMoreInput
	}

	p := d.queue[0]
	d.queue = d.queue[1:]

	var err error
	d.buf, err = d.zr.DecodeAll(p.payload, d.buf[:0])
	if err != nil || len(d.buf) != len(work.Data) {
		return nil, nil, vidpipe.StatusDeviceFailed
	}
	copy(work.Data, d.buf)
	work.Seq = p.seq
	work.Acquire() // released by the transform once it consumes the frame
	return work, completedOp(), vidpipe.StatusOK
}

// parseAll moves every complete frame record from the bitstream into the
// pending queue, skipping a leading stream header.
func (d *decoder) parseAll(bs *media.Bitstream) vidpipe.Status {
	for {
		p := bs.Payload()
		if len(p) >= streamHeaderSize && [4]byte(p[:4]) == headerMagic {
			bs.Consume(streamHeaderSize)
			continue
		}
		if len(p) < frameHeaderSize {
			return vidpipe.StatusOK
		}
		if [4]byte(p[:4]) != frameMagic {
			return vidpipe.StatusDeviceFailed
		}
		size := int(binary.LittleEndian.Uint32(p[12:]))
		if len(p) < frameHeaderSize+size {
			return vidpipe.StatusOK
		}

		payload := make([]byte, size)
		copy(payload, p[frameHeaderSize:])
		d.queue = append(d.queue, pendingFrame{
			seq:     binary.LittleEndian.Uint64(p[4:]),
			payload: payload,
		})
		bs.Consume(frameHeaderSize + size)
	}
}

func (d *decoder) Close() error {
	d.zr.Close()
	return nil
}
