// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hw

import (
	"testing"

	"github.com/gogpu/vidpipe"
)

// TestRegistered tests that the backend is always listed, whether or not the
// companion library is present.
func TestRegistered(t *testing.T) {
	found := false
	for _, name := range vidpipe.Backends() {
		if name == Name {
			found = true
		}
	}
	if !found {
		t.Fatalf("%q not in Backends", Name)
	}
}

// TestUnavailableFailsCleanly tests that building engines without a usable
// device returns an error rather than panicking.
func TestUnavailableFailsCleanly(t *testing.T) {
	if Available() {
		t.Skip("hardware present")
	}
	if _, err := New(vidpipe.EngineConfig{}); err == nil {
		t.Error("New without the companion library should fail")
	}
}
