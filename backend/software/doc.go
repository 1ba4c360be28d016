// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides a pure-Go engine backend for vidpipe.
//
// It implements the full transcode chain without any hardware dependency:
// a framed zstd stream codec for decode and encode, and an RGBA transform
// built on golang.org/x/image scaling with optional 3D-LUT color mapping.
// Completion signaling runs through a worker goroutine, so submissions
// complete asynchronously like they do on a hardware engine.
//
// The backend registers itself under the name "software" at software
// priority. Import it for its side effect:
//
//	import _ "github.com/gogpu/vidpipe/backend/software"
package software
