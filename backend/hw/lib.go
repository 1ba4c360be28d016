// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build (linux || darwin) && !nohw

package hw

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

// Library function bindings. Status codes returned by the library use the
// same encoding as vidpipe.Status; tokens identify in-flight operations.
var (
	vpProbe          func() int32
	vpSessionOpen    func(asyncDepth uint32) uintptr
	vpSessionClose   func(s uintptr)
	vpSync           func(s uintptr, token uint64, timeoutMs uint32) int32
	vpDecodeHeader   func(s uintptr, data *byte, n uint32, fourcc, w, h *uint32) int32
	vpDecodeSurfaces func(s uintptr) uint32
	vpDecodeFrame    func(s uintptr, data *byte, n uint32, consumed *uint32, pix *byte, cap uint32, seq, token *uint64) int32
	vpVPPFrame       func(s uintptr, src *byte, sw, sh uint32, dst *byte, dw, dh uint32, lut *uint16, lutSize uint32, token *uint64) int32
	vpEncodeBufSize  func(s uintptr, w, h uint32) uint32
	vpEncodeFrame    func(s uintptr, pix *byte, n uint32, out *byte, cap uint32, written *uint32, token *uint64) int32
)

var (
	loadOnce sync.Once
	loadErr  error
)

// libNames returns the candidate library names for this platform, with the
// VIDPIPE_HW_LIB environment variable taking precedence.
func libNames() []string {
	if p := os.Getenv("VIDPIPE_HW_LIB"); p != "" {
		return []string{p}
	}
	if runtime.GOOS == "darwin" {
		return []string{"libvidpipe_hw.dylib"}
	}
	return []string{"libvidpipe_hw.so", "libvidpipe_hw.so.1"}
}

// load opens the companion library and binds its symbols, once.
func load() error {
	loadOnce.Do(func() {
		var lib uintptr
		var err error
		for _, name := range libNames() {
			lib, err = purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
			if err == nil {
				break
			}
		}
		if lib == 0 {
			loadErr = fmt.Errorf("hw: load companion library: %w", err)
			return
		}

		for _, sym := range []struct {
			fn   any
			name string
		}{
			{&vpProbe, "vp_hw_probe"},
			{&vpSessionOpen, "vp_hw_session_open"},
			{&vpSessionClose, "vp_hw_session_close"},
			{&vpSync, "vp_hw_sync"},
			{&vpDecodeHeader, "vp_hw_decode_header"},
			{&vpDecodeSurfaces, "vp_hw_decode_surfaces"},
			{&vpDecodeFrame, "vp_hw_decode_frame"},
			{&vpVPPFrame, "vp_hw_vpp_frame"},
			{&vpEncodeBufSize, "vp_hw_encode_buffer_size"},
			{&vpEncodeFrame, "vp_hw_encode_frame"},
		} {
			purego.RegisterLibFunc(sym.fn, lib, sym.name)
		}
	})
	return loadErr
}

// Available reports whether the companion library is present and finds a
// usable device.
func Available() bool {
	if load() != nil {
		return false
	}
	return vpProbe() == 0
}
