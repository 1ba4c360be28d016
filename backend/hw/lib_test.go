// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build (linux || darwin) && !nohw

package hw

import "testing"

// TestLibNamesEnvOverride tests that VIDPIPE_HW_LIB overrides the platform
// search list.
func TestLibNamesEnvOverride(t *testing.T) {
	t.Setenv("VIDPIPE_HW_LIB", "/tmp/libcustom.so")
	names := libNames()
	if len(names) != 1 || names[0] != "/tmp/libcustom.so" {
		t.Errorf("libNames() = %v, want the override only", names)
	}

	t.Setenv("VIDPIPE_HW_LIB", "")
	if names := libNames(); len(names) == 0 {
		t.Error("libNames() empty without override")
	}
}
