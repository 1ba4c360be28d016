// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides frame surfaces and surface pools for the vidpipe
// transcode pipeline.
//
// A Surface is one hardware-addressable frame buffer. Surfaces are created
// once, with fixed geometry, and live inside a Pool for their entire lifetime.
// Pipeline stages never own a surface: they borrow one for the duration of a
// single asynchronous operation and release it when the downstream stage has
// consumed its contents.
//
// # Lock accounting
//
// Each surface carries an atomic lock counter, incremented when the surface is
// handed to an engine as the target or input of a submitted operation and
// decremented when that operation (or the operation that consumed the surface)
// completes. Pool.AcquireFree only ever returns surfaces whose counter is
// zero.
//
// The counter is atomic because completion signaling arrives from engine
// worker goroutines while the single pipeline control goroutine scans the
// pool.
//
// # Sizing
//
// A pool must be sized so that the stages it feeds can never starve each
// other:
//
//	n = suggested(producer) + suggested(consumer) + asyncDepth
//
// With that sizing, AcquireFree returning no surface is a transient
// backpressure condition that resolves once the oldest in-flight operation is
// waited on. An undersized pool instead deadlocks, which the pipeline reports
// as a fatal configuration error.
package surface
