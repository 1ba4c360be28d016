// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package hw provides a hardware engine backend for vidpipe, binding the
// libvidpipe_hw companion library through purego. No cgo is involved; the
// library is loaded at runtime and the backend reports itself unavailable
// when it cannot be found, so importing this package is always safe.
//
// The backend registers itself under the name "hw" at hardware priority.
// Import it for its side effect:
//
//	import _ "github.com/gogpu/vidpipe/backend/hw"
package hw
