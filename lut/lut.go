// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package lut loads and samples 3D color lookup tables for the transform
// stage of the vidpipe pipeline.
//
// Two on-disk forms are supported: the raw binary layout used by hardware
// video pipelines (size^3 RGB triples of little-endian uint16, with the table
// size inferred from the file length) and the Adobe .cube text format. Both
// load into the same Table, sampled with trilinear interpolation.
package lut

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Table is a size x size x size RGB lookup table.
//
// Entries are stored red-major: index = ((r*size)+g)*size + b, three uint16
// components per entry, full [0, 65535] range.
type Table struct {
	Size int
	Data []uint16 // size^3 * 3 components
}

// Supported binary table sizes, smallest first.
var binarySizes = []int{17, 33, 65}

// LoadFile loads a table from path, picking the format by extension:
// ".cube" is parsed as text, anything else as the raw binary layout.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lut: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".cube") {
		return ParseCube(f)
	}
	return ReadBinary(f)
}

// ReadBinary reads the raw binary layout: size^3 RGB triples of little-endian
// uint16. The table size is inferred from the byte count; 17, 33 and 65
// segment tables are accepted.
func ReadBinary(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("lut: read binary table: %w", err)
	}

	for _, size := range binarySizes {
		want := size * size * size * 3 * 2
		if len(raw) != want {
			continue
		}
		t := &Table{Size: size, Data: make([]uint16, size*size*size*3)}
		for i := range t.Data {
			t.Data[i] = binary.LittleEndian.Uint16(raw[i*2:])
		}
		return t, nil
	}
	return nil, fmt.Errorf("lut: binary table of %d bytes matches no supported size", len(raw))
}

// ParseCube parses the Adobe .cube text format. Only 3D tables are supported;
// LUT_1D_SIZE inputs are rejected.
func ParseCube(r io.Reader) (*Table, error) {
	var (
		t      *Table
		filled int
	)

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)

		switch fields[0] {
		case "TITLE", "DOMAIN_MIN", "DOMAIN_MAX":
			continue
		case "LUT_1D_SIZE":
			return nil, fmt.Errorf("lut: line %d: 1D tables are not supported", line)
		case "LUT_3D_SIZE":
			if t != nil {
				return nil, fmt.Errorf("lut: line %d: duplicate LUT_3D_SIZE", line)
			}
			if len(fields) != 2 {
				return nil, fmt.Errorf("lut: line %d: malformed LUT_3D_SIZE", line)
			}
			size, err := strconv.Atoi(fields[1])
			if err != nil || size < 2 || size > 256 {
				return nil, fmt.Errorf("lut: line %d: bad table size %q", line, fields[1])
			}
			t = &Table{Size: size, Data: make([]uint16, size*size*size*3)}
		default:
			if t == nil {
				return nil, fmt.Errorf("lut: line %d: data before LUT_3D_SIZE", line)
			}
			if len(fields) != 3 {
				return nil, fmt.Errorf("lut: line %d: want 3 components, got %d", line, len(fields))
			}
			if filled >= len(t.Data) {
				return nil, fmt.Errorf("lut: line %d: more entries than size^3", line)
			}
			for _, f := range fields {
				v, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return nil, fmt.Errorf("lut: line %d: %w", line, err)
				}
				if v < 0 {
					v = 0
				}
				if v > 1 {
					v = 1
				}
				t.Data[filled] = uint16(v * 65535)
				filled++
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("lut: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("lut: missing LUT_3D_SIZE")
	}
	if filled != len(t.Data) {
		return nil, fmt.Errorf("lut: %d of %d entries present", filled/3, t.Size*t.Size*t.Size)
	}

	// .cube files are blue-major; reorder to the red-major layout.
	reordered := make([]uint16, len(t.Data))
	n := t.Size
	for b := 0; b < n; b++ {
		for g := 0; g < n; g++ {
			for r := 0; r < n; r++ {
				src := (((b*n)+g)*n + r) * 3
				dst := (((r*n)+g)*n + b) * 3
				copy(reordered[dst:dst+3], t.Data[src:src+3])
			}
		}
	}
	t.Data = reordered
	return t, nil
}

// at returns the table entry for integer lattice coordinates.
func (t *Table) at(r, g, b int) (uint16, uint16, uint16) {
	i := (((r*t.Size)+g)*t.Size + b) * 3
	return t.Data[i], t.Data[i+1], t.Data[i+2]
}

// Lookup maps an 8-bit RGB triple through the table with trilinear
// interpolation.
func (t *Table) Lookup(r, g, b uint8) (uint8, uint8, uint8) {
	n := t.Size - 1

	// Lattice cell and intra-cell fractions in 16.16 fixed point.
	rx, rf := lattice(r, n)
	gx, gf := lattice(g, n)
	bx, bf := lattice(b, n)

	r1, g1, b1 := min(rx+1, n), min(gx+1, n), min(bx+1, n)

	var out [3]uint32
	corners := [8]struct {
		r, g, b int
		w       uint64
	}{
		{rx, gx, bx, (one - rf) * (one - gf) * (one - bf)},
		{r1, gx, bx, rf * (one - gf) * (one - bf)},
		{rx, g1, bx, (one - rf) * gf * (one - bf)},
		{rx, gx, b1, (one - rf) * (one - gf) * bf},
		{r1, g1, bx, rf * gf * (one - bf)},
		{r1, gx, b1, rf * (one - gf) * bf},
		{rx, g1, b1, (one - rf) * gf * bf},
		{r1, g1, b1, rf * gf * bf},
	}
	for _, c := range corners {
		cr, cg, cb := t.at(c.r, c.g, c.b)
		out[0] += uint32((uint64(cr) * c.w) >> 48)
		out[1] += uint32((uint64(cg) * c.w) >> 48)
		out[2] += uint32((uint64(cb) * c.w) >> 48)
	}
	return uint8(out[0] >> 8), uint8(out[1] >> 8), uint8(out[2] >> 8)
}

const one = 1 << 16 // fixed-point unit for interpolation weights

// lattice splits an 8-bit component into a lattice index and a 16.16
// fractional position within the cell.
func lattice(v uint8, n int) (int, uint64) {
	scaled := uint64(v) * uint64(n) * one / 255
	idx := int(scaled >> 16)
	if idx >= n {
		return n, 0
	}
	return idx, scaled & (one - 1)
}
