/*
 * fields.go, part of golammps.
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
	"math/bits"
	"sort"
	"strings"
)

// Field identifies one of the per-atom quantities a dump can contain.
type Field uint8

const (
	FID Field = iota
	FMol
	FType
	FMass
	FX
	FY
	FZ
	FXu
	FYu
	FZu
	FXs
	FYs
	FZs
	FXsu
	FYsu
	FZsu
	FIx
	FIy
	FIz
	FQ
	FRadius
	FDiameter
	FMuX
	FMuY
	FMuZ
	FVx
	FVy
	FVz
	FFx
	FFy
	FFz
	FOmegaX
	FOmegaY
	FOmegaZ
	FAngmomX
	FAngmomY
	FAngmomZ
	FTqX
	FTqY
	FTqZ
	NFields int = iota
)

// column names, as they appear in the ITEM: ATOMS line.
var fieldNames = [NFields]string{
	"id", "mol", "type", "mass",
	"x", "y", "z",
	"xu", "yu", "zu",
	"xs", "ys", "zs",
	"xsu", "ysu", "zsu",
	"ix", "iy", "iz",
	"q", "radius", "diameter",
	"mux", "muy", "muz",
	"vx", "vy", "vz",
	"fx", "fy", "fz",
	"omegax", "omegay", "omegaz",
	"angmomx", "angmomy", "angmomz",
	"tqx", "tqy", "tqz",
}

var fieldByName map[string]Field

func init() {
	fieldByName = make(map[string]Field, NFields)
	for i, v := range fieldNames {
		fieldByName[v] = Field(i)
	}
}

// String returns the column name of the field.
func (F Field) String() string {
	if int(F) >= NFields {
		return "unknown"
	}
	return fieldNames[F]
}

// Integer returns true for the fields LAMMPS writes as integers. They are
// still parsed as floating point numbers and then truncated.
func (F Field) Integer() bool {
	switch F {
	case FID, FMol, FType, FIx, FIy, FIz:
		return true
	}
	return false
}

// FieldByName returns the field for a column name, and false if the
// column is not known.
func FieldByName(name string) (Field, bool) {
	f, ok := fieldByName[name]
	return f, ok
}

// FieldSet is a bitmask of the fields that have been set in an atom.
type FieldSet uint64

func (S FieldSet) Has(f Field) bool { return S&(1<<f) != 0 }

func (S FieldSet) With(f Field) FieldSet { return S | (1 << f) }

func (S FieldSet) Len() int { return bits.OnesCount64(uint64(S)) }

// Columns returns the fields in the set, sorted by column name.
func (S FieldSet) Columns() Columns {
	ret := make(Columns, 0, S.Len())
	for i := 0; i < NFields; i++ {
		if S.Has(Field(i)) {
			ret = append(ret, Field(i))
		}
	}
	sort.Slice(ret, func(i, j int) bool { return fieldNames[ret[i]] < fieldNames[ret[j]] })
	return ret
}

// Columns is the ordered column schema of the atoms in one snapshot.
type Columns []Field

// Names returns the column names, in order.
func (C Columns) Names() []string {
	ret := make([]string, len(C))
	for i, v := range C {
		ret[i] = v.String()
	}
	return ret
}

// Header returns the ITEM: ATOMS line (without line break) for the columns.
func (C Columns) Header() string {
	if len(C) == 0 {
		return AtomsItem
	}
	return AtomsItem + " " + strings.Join(C.Names(), " ")
}

// AtomsItem starts the line with the column schema.
const AtomsItem = "ITEM: ATOMS"

// ParseColumns reads the column schema from an ITEM: ATOMS line. Unknown or
// repeated columns are a schema violation.
func ParseColumns(header string) (Columns, error) {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, AtomsItem) {
		return nil, newParseError(MalformedInput, StageAtomsHeader, header, nil, "expected %q", AtomsItem)
	}
	names := strings.Fields(header[len(AtomsItem):])
	ret := make(Columns, 0, len(names))
	var seen FieldSet
	for _, v := range names {
		f, ok := fieldByName[v]
		if !ok {
			return nil, newParseError(SchemaViolation, StageAtomsHeader, header, nil, "unknown column %s", v)
		}
		if seen.Has(f) {
			return nil, newParseError(SchemaViolation, StageAtomsHeader, header, nil, "repeated column %s", v)
		}
		seen = seen.With(f)
		ret = append(ret, f)
	}
	return ret, nil
}
