/*
 * box.go, part of golammps.
 *
 * Copyright 2024 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package lammps

import (
	"strconv"
	"strings"

	v3 "github.com/rmera/golammps/v3"
)

// Box is the LAMMPS simulation box for one snapshot. The periodicity
// codes (pp, ff, fs...) are kept as given, without validation. The tilt
// factors only mean something if Triclinic is true.
type Box struct {
	XPrd, YPrd, ZPrd string
	XLo, XHi         float64
	YLo, YHi         float64
	ZLo, ZHi         float64
	XY, XZ, YZ       float64
	Triclinic        bool
}

func (B *Box) Lx() float64 { return B.XHi - B.XLo }
func (B *Box) Ly() float64 { return B.YHi - B.YLo }
func (B *Box) Lz() float64 { return B.ZHi - B.ZLo }

// Lengths returns the 3 edge lengths of the box.
func (B *Box) Lengths() [3]float64 {
	return [3]float64{B.Lx(), B.Ly(), B.Lz()}
}

// Equal compares all the fields of both boxes.
func (B *Box) Equal(O *Box) bool {
	if B == nil || O == nil {
		return B == O
	}
	return *B == *O
}

// Header returns the ITEM: BOX BOUNDS line, without line break.
func (B *Box) Header() string {
	h := "ITEM: BOX BOUNDS " + B.XPrd + " " + B.YPrd + " " + B.ZPrd
	if B.Triclinic {
		h += " xy xz yz"
	}
	return h
}

// String returns the 3 bound lines of the box. For triclinic boxes each
// line carries its tilt factor (xy, xz, yz, respectively).
func (B *Box) String() string {
	lines := [3][3]float64{
		{B.XLo, B.XHi, B.XY},
		{B.YLo, B.YHi, B.XZ},
		{B.ZLo, B.ZHi, B.YZ},
	}
	s := make([]string, 3)
	for i, l := range lines {
		s[i] = formatFloat(l[0]) + " " + formatFloat(l[1])
		if B.Triclinic {
			s[i] += " " + formatFloat(l[2])
		}
	}
	return strings.Join(s, "\n")
}

// Cell returns the box vectors a, b and c as the rows of a 3x3 matrix,
// following the LAMMPS convention a=(lx,0,0), b=(xy,ly,0), c=(xz,yz,lz).
func (B *Box) Cell() *v3.Matrix {
	c := v3.Zeros(3)
	c.Set(0, 0, B.Lx())
	c.Set(1, 0, B.XY)
	c.Set(1, 1, B.Ly())
	c.Set(2, 0, B.XZ)
	c.Set(2, 1, B.YZ)
	c.Set(2, 2, B.Lz())
	return c
}

var tiltLabels = map[string]bool{"xy": true, "xz": true, "yz": true}

const boundsSep = "BOUNDS "

// ParseBox builds a box from the ITEM: BOX BOUNDS line and the 3 lines that
// follow it. A line with 3 numbers carries the tilt factor for that axis, and
// makes the box triclinic, as does the presence of the xy xz yz labels in the header.
func ParseBox(header string, lines []string) (*Box, error) {
	if !strings.HasPrefix(strings.TrimSpace(header), "ITEM: BOX") {
		return nil, newParseError(MalformedInput, StageBoxHeader, header, nil, "expected ITEM: BOX BOUNDS")
	}
	words := strings.SplitN(header, boundsSep, 2)
	if len(words) < 2 {
		return nil, newParseError(MalformedInput, StageBoxHeader, header, nil, "no periodicity after BOUNDS")
	}
	B := new(Box)
	prd := make([]string, 0, 3)
	for _, v := range strings.Fields(words[1]) {
		if tiltLabels[v] {
			B.Triclinic = true
			continue
		}
		prd = append(prd, v)
	}
	if len(prd) < 3 {
		return nil, newParseError(MalformedInput, StageBoxHeader, header, nil, "%d periodicity codes, need 3", len(prd))
	}
	B.XPrd, B.YPrd, B.ZPrd = prd[0], prd[1], prd[2]
	if len(lines) != 3 {
		return nil, newParseError(MalformedInput, StageBoxBounds, "", nil, "%d bound lines, need 3", len(lines))
	}
	lo := [3]*float64{&B.XLo, &B.YLo, &B.ZLo}
	hi := [3]*float64{&B.XHi, &B.YHi, &B.ZHi}
	tilt := [3]*float64{&B.XY, &B.XZ, &B.YZ}
	for i, l := range lines {
		f := strings.Fields(l)
		if len(f) < 2 || len(f) > 3 {
			return nil, newParseError(MalformedInput, StageBoxBounds, l, nil, "%d values in bound line, need 2 or 3", len(f))
		}
		var nums [3]float64
		for j, v := range f {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, newParseError(MalformedInput, StageBoxBounds, l, err, "can't read value %d", j)
			}
			nums[j] = n
		}
		*lo[i], *hi[i] = nums[0], nums[1]
		if len(f) == 3 {
			*tilt[i] = nums[2]
			B.Triclinic = true
		}
	}
	return B, nil
}
