// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "testing"

// TestInfoValidate tests geometry validation.
func TestInfoValidate(t *testing.T) {
	good := Info{FourCC: FourCCRGBA, Width: 64, Height: 48}
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	bad := []Info{
		{FourCC: FourCCRGBA, Width: 0, Height: 48},
		{FourCC: FourCCRGBA, Width: 64, Height: -1},
		{FourCC: FourCC(0), Width: 64, Height: 48},
	}
	for _, info := range bad {
		if err := info.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", info)
		}
	}
}

// TestBytesPerFrame tests per-layout buffer sizing.
func TestBytesPerFrame(t *testing.T) {
	tests := []struct {
		fourcc FourCC
		want   int
	}{
		{FourCCRGBA, 64 * 48 * 4},
		{FourCCNV12, 64 * 48 * 3 / 2},
		{FourCCP010, 64 * 48 * 3},
		{FourCC(0), 0},
	}
	for _, tt := range tests {
		if got := tt.fourcc.BytesPerFrame(64, 48); got != tt.want {
			t.Errorf("%s.BytesPerFrame(64, 48) = %d, want %d", tt.fourcc, got, tt.want)
		}
	}
}

// TestFourCCString tests the four-character code text form.
func TestFourCCString(t *testing.T) {
	if got := FourCCNV12.String(); got != "NV12" {
		t.Errorf("String() = %q, want %q", got, "NV12")
	}
}

// TestSurfaceLockAccounting tests acquire/release reference counting.
func TestSurfaceLockAccounting(t *testing.T) {
	s, err := New(Info{FourCC: FourCCRGBA, Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if s.Locked() {
		t.Fatal("new surface should be unlocked")
	}

	s.Acquire()
	s.Acquire()
	if !s.Locked() {
		t.Fatal("surface with two references should be locked")
	}

	s.Release()
	if !s.Locked() {
		t.Fatal("surface with one reference should stay locked")
	}

	s.Release()
	if s.Locked() {
		t.Fatal("surface should be unlocked after final release")
	}
}

// TestReleaseUnlockedPanics tests that a double free is caught.
func TestReleaseUnlockedPanics(t *testing.T) {
	s, err := New(Info{FourCC: FourCCRGBA, Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("Release of unlocked surface should panic")
		}
	}()
	s.Release()
}

// TestRGBAView tests that the image view shares backing storage.
func TestRGBAView(t *testing.T) {
	s, err := New(Info{FourCC: FourCCRGBA, Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	img := s.RGBA()
	if img == nil {
		t.Fatal("RGBA() = nil for RGBA surface")
	}
	img.Pix[0] = 0xAB
	if s.Data[0] != 0xAB {
		t.Error("RGBA view should share the surface's storage")
	}

	nv12, err := New(Info{FourCC: FourCCNV12, Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if nv12.RGBA() != nil {
		t.Error("RGBA() should be nil for non-RGBA layouts")
	}
}
