// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !((linux || darwin) && !nohw)

package hw

import (
	"errors"

	"github.com/gogpu/vidpipe"
)

// Available reports false: the companion library is not supported on this
// platform.
func Available() bool { return false }

// New always fails on platforms without the companion library.
func New(cfg vidpipe.EngineConfig) (*vidpipe.Engines, error) {
	return nil, errors.New("hw: not supported on this platform")
}
