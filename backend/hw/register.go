// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hw

import "github.com/gogpu/vidpipe"

// Name is the registry name of this backend.
const Name = "hw"

// Priority is the registry priority: preferred over software engines.
const Priority = 100

func init() {
	vidpipe.Register(Name, Priority, New, Available)
}
