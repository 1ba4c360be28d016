// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package media provides bitstream buffers and the source/sink plumbing the
// vidpipe pipeline reads from and writes to.
//
// A Bitstream is a fixed-capacity byte buffer with a cursor pair
// (DataOffset, DataLength) marking the valid window, matching how hardware
// codec APIs hand partially consumed buffers back and forth. Reader refills a
// bitstream from an io.Reader, compacting the unconsumed tail first. Writer
// flushes the valid window of a bitstream to an io.Writer and resets the
// cursors. Discard is a valid sink for dry runs: it resets the cursors
// without writing anywhere.
package media
