// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package media

import "fmt"

// Bitstream is a fixed-capacity byte buffer shared with codec engines.
//
// Data[DataOffset : DataOffset+DataLength] is the valid window. Decoders
// consume from the front by advancing DataOffset; encoders append at the end
// by growing DataLength. Capacity never changes after creation: the encoder's
// negotiated buffer size determines it.
type Bitstream struct {
	Data       []byte
	DataOffset int
	DataLength int
}

// NewBitstream allocates a bitstream with the given capacity.
func NewBitstream(capacity int) (*Bitstream, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("media: bitstream capacity %d, want > 0", capacity)
	}
	return &Bitstream{Data: make([]byte, capacity)}, nil
}

// Payload returns the valid window of the buffer.
func (b *Bitstream) Payload() []byte {
	return b.Data[b.DataOffset : b.DataOffset+b.DataLength]
}

// Consume advances the window past n consumed bytes.
func (b *Bitstream) Consume(n int) {
	if n > b.DataLength {
		n = b.DataLength
	}
	b.DataOffset += n
	b.DataLength -= n
}

// Append copies p after the valid window, growing it. It reports whether the
// bytes fit; on false the bitstream is unchanged and the caller must flush or
// enlarge before retrying.
func (b *Bitstream) Append(p []byte) bool {
	end := b.DataOffset + b.DataLength
	if end+len(p) > len(b.Data) {
		return false
	}
	copy(b.Data[end:], p)
	b.DataLength += len(p)
	return true
}

// Reset zeroes the cursor pair. The backing storage is retained; stale bytes
// beyond the window are never read, so they are not cleared.
func (b *Bitstream) Reset() {
	b.DataOffset = 0
	b.DataLength = 0
}
