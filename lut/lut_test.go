// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lut

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// identityBinary builds a raw binary identity table of the given size.
func identityBinary(size int) []byte {
	var buf bytes.Buffer
	for r := 0; r < size; r++ {
		for g := 0; g < size; g++ {
			for b := 0; b < size; b++ {
				for _, v := range []int{r, g, b} {
					_ = binary.Write(&buf, binary.LittleEndian, uint16(v*65535/(size-1)))
				}
			}
		}
	}
	return buf.Bytes()
}

// TestReadBinarySizes tests size inference from the byte count.
func TestReadBinarySizes(t *testing.T) {
	for _, size := range []int{17, 33, 65} {
		tb, err := ReadBinary(bytes.NewReader(identityBinary(size)))
		if err != nil {
			t.Fatalf("ReadBinary(size %d): %v", size, err)
		}
		if tb.Size != size {
			t.Errorf("Size = %d, want %d", tb.Size, size)
		}
	}

	if _, err := ReadBinary(bytes.NewReader(make([]byte, 100))); err == nil {
		t.Error("ReadBinary with an off-size payload should fail")
	}
}

// TestIdentityLookup tests that an identity table maps colors to themselves
// within interpolation tolerance.
func TestIdentityLookup(t *testing.T) {
	tb, err := ReadBinary(bytes.NewReader(identityBinary(17)))
	if err != nil {
		t.Fatalf("ReadBinary: %v", err)
	}

	for _, c := range []uint8{0, 1, 37, 128, 200, 254, 255} {
		r, g, b := tb.Lookup(c, c, c)
		for _, got := range []uint8{r, g, b} {
			if d := int(got) - int(c); d < -2 || d > 2 {
				t.Errorf("Lookup(%d) = (%d, %d, %d), want ~%d", c, r, g, b, c)
				break
			}
		}
	}
}

// TestParseCube tests the .cube text form, including the blue-major to
// red-major reorder.
func TestParseCube(t *testing.T) {
	// A 2-point table that swaps red and blue.
	src := `# swap red/blue
TITLE "swap"
LUT_3D_SIZE 2
0.0 0.0 0.0
0.0 0.0 1.0
0.0 1.0 0.0
0.0 1.0 1.0
1.0 0.0 0.0
1.0 0.0 1.0
1.0 1.0 0.0
1.0 1.0 1.0
`
	tb, err := ParseCube(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseCube: %v", err)
	}
	if tb.Size != 2 {
		t.Fatalf("Size = %d, want 2", tb.Size)
	}

	r, g, b := tb.Lookup(255, 0, 0)
	if r != 0 || g != 0 || b != 255 {
		t.Errorf("Lookup(red) = (%d, %d, %d), want pure blue", r, g, b)
	}
	r, g, b = tb.Lookup(0, 0, 255)
	if r != 255 || g != 0 || b != 0 {
		t.Errorf("Lookup(blue) = (%d, %d, %d), want pure red", r, g, b)
	}
}

// TestLoadFileByExtension tests format routing: .cube (any case) parses as
// text, everything else as the raw binary layout.
func TestLoadFileByExtension(t *testing.T) {
	dir := t.TempDir()
	cube := "LUT_3D_SIZE 2\n" + strings.Repeat("0.0 0.0 0.0\n", 8)

	for _, name := range []string{"table.cube", "table.CUBE"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(cube), 0o644); err != nil {
			t.Fatal(err)
		}
		tb, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", name, err)
		}
		if tb.Size != 2 {
			t.Errorf("LoadFile(%s): Size = %d, want 2", name, tb.Size)
		}
	}

	bin := filepath.Join(dir, "table.dat")
	if err := os.WriteFile(bin, identityBinary(17), 0o644); err != nil {
		t.Fatal(err)
	}
	tb, err := LoadFile(bin)
	if err != nil {
		t.Fatalf("LoadFile(binary): %v", err)
	}
	if tb.Size != 17 {
		t.Errorf("LoadFile(binary): Size = %d, want 17", tb.Size)
	}
}

// TestParseCubeErrors tests malformed .cube rejection.
func TestParseCubeErrors(t *testing.T) {
	cases := map[string]string{
		"missing size":  "0.0 0.0 0.0\n",
		"1d table":      "LUT_1D_SIZE 2\n",
		"short table":   "LUT_3D_SIZE 2\n0.0 0.0 0.0\n",
		"bad component": "LUT_3D_SIZE 2\n0.0 zero 0.0\n",
		"bad size":      "LUT_3D_SIZE 1\n",
	}
	for name, src := range cases {
		if _, err := ParseCube(strings.NewReader(src)); err == nil {
			t.Errorf("%s: ParseCube should fail", name)
		}
	}
}
