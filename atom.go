/*
 * atom.go, part of golammps.
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
	"math"
	"strconv"
	"strings"
)

// Vector is a 3D vector quantity of an atom (velocity, force, etc.)
type Vector struct {
	X, Y, Z float64
}

// Magnitude returns the euclidean norm of the vector.
func (V Vector) Magnitude() float64 {
	return math.Sqrt(V.X*V.X + V.Y*V.Y + V.Z*V.Z)
}

// VectorKind selects one of the per-atom vector quantities.
type VectorKind int

const (
	Mu VectorKind = iota
	Velocity
	Force
	Omega
	AngMom
	Torque
)

var vectorFields = [...][3]Field{
	Mu:       {FMuX, FMuY, FMuZ},
	Velocity: {FVx, FVy, FVz},
	Force:    {FFx, FFy, FFz},
	Omega:    {FOmegaX, FOmegaY, FOmegaZ},
	AngMom:   {FAngmomX, FAngmomY, FAngmomZ},
	Torque:   {FTqX, FTqY, FTqZ},
}

// CoordKind selects one of the 4 families of coordinates a dump can carry.
type CoordKind int

const (
	Raw CoordKind = iota
	Unwrapped
	Scaled
	ScaledUnwrapped
)

var coordFields = [...][3]Field{
	Raw:             {FX, FY, FZ},
	Unwrapped:       {FXu, FYu, FZu},
	Scaled:          {FXs, FYs, FZs},
	ScaledUnwrapped: {FXsu, FYsu, FZsu},
}

// Atom contains the data for one atom in one snapshot. Only the fields present in
// the dump are set, and the set is tracked explicitly, so a field equal
// to zero is not the same as an absent one.
type Atom struct {
	vals      [NFields]float64
	set       FieldSet
	unwrapped bool
}

// NewAtom returns an atom with no fields set.
func NewAtom() *Atom {
	return new(Atom)
}

// Set sets the value of the field f. Integer fields are truncated.
func (A *Atom) Set(f Field, v float64) {
	if f.Integer() {
		v = math.Trunc(v)
	}
	A.vals[f] = v
	A.set = A.set.With(f)
}

// Get returns the value of the field f and whether it is set.
func (A *Atom) Get(f Field) (float64, bool) {
	return A.vals[f], A.set.Has(f)
}

func (A *Atom) Has(f Field) bool { return A.set.Has(f) }

// Fields returns the set of fields populated in the atom.
func (A *Atom) Fields() FieldSet { return A.set }

// Columns returns the populated fields, sorted by column name.
func (A *Atom) Columns() Columns { return A.set.Columns() }

func (A *Atom) ID() int   { return int(A.vals[FID]) }
func (A *Atom) Mol() int  { return int(A.vals[FMol]) }
func (A *Atom) Type() int { return int(A.vals[FType]) }

// Mass returns the mass of the atom, or 1.0 if the dump didn't have it.
func (A *Atom) Mass() float64 {
	if !A.set.Has(FMass) {
		return 1.0
	}
	return A.vals[FMass]
}

// Image returns the image flags, and true if all three are set.
func (A *Atom) Image() (ix, iy, iz int, ok bool) {
	ok = A.set.Has(FIx) && A.set.Has(FIy) && A.set.Has(FIz)
	return int(A.vals[FIx]), int(A.vals[FIy]), int(A.vals[FIz]), ok
}

// Coords returns the coordinates of the given family, and true if all three
// components are set.
func (A *Atom) Coords(kind CoordKind) (Vector, bool) {
	return A.vector(coordFields[kind])
}

// Vector returns the requested vector quantity, and true if all three
// components are set.
func (A *Atom) Vector(kind VectorKind) (Vector, bool) {
	return A.vector(vectorFields[kind])
}

// SetVector sets all three components of the requested vector quantity.
func (A *Atom) SetVector(kind VectorKind, v Vector) {
	f := vectorFields[kind]
	A.Set(f[0], v.X)
	A.Set(f[1], v.Y)
	A.Set(f[2], v.Z)
}

func (A *Atom) vector(f [3]Field) (Vector, bool) {
	ok := A.set.Has(f[0]) && A.set.Has(f[1]) && A.set.Has(f[2])
	return Vector{A.vals[f[0]], A.vals[f[1]], A.vals[f[2]]}, ok
}

// Unwrapped returns true if Unwrap has been called on the atom. It does
// not mean that all three unwrapped coordinates could be computed.
func (A *Atom) Unwrapped() bool { return A.unwrapped }

// Unwrap sets the unwrapped coordinates for each axis where both the
// image flag and the raw coordinate are present: xu = x + ix*lx.
// The atom is marked as unwrapped in any case.
func (A *Atom) Unwrap(lx, ly, lz float64) {
	A.unwrapped = true
	l := [3]float64{lx, ly, lz}
	img := [3]Field{FIx, FIy, FIz}
	for i := 0; i < 3; i++ {
		r := coordFields[Raw][i]
		if !A.set.Has(img[i]) || !A.set.Has(r) {
			continue
		}
		A.Set(coordFields[Unwrapped][i], A.vals[r]+A.vals[img[i]]*l[i])
	}
}

// Equal returns true if both atoms have the same fields set, with the same values.
// Two NaNs in the same field count as equal. The unwrapped mark is not considered.
func (A *Atom) Equal(B *Atom) bool {
	if A == nil || B == nil {
		return A == B
	}
	if A.set != B.set {
		return false
	}
	for i := 0; i < NFields; i++ {
		if !A.set.Has(Field(i)) {
			continue
		}
		a, b := A.vals[i], B.vals[i]
		if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
			return false
		}
	}
	return true
}

// Row renders the values of the given columns, space-separated. Columns not
// set in the atom are skipped.
func (A *Atom) Row(cols Columns) string {
	s := make([]string, 0, len(cols))
	for _, f := range cols {
		if !A.set.Has(f) {
			continue
		}
		s = append(s, formatFloat(A.vals[f]))
	}
	return strings.Join(s, " ")
}

// String returns the values of the set fields, sorted by column name.
func (A *Atom) String() string {
	return A.Row(A.Columns())
}

// ParseAtomRow reads one data line of a dump, using the column schema given.
// All values are read as float64, including the integer ones.
func ParseAtomRow(cols Columns, row string) (*Atom, error) {
	vals := strings.Fields(row)
	if len(vals) != len(cols) {
		return nil, newParseError(MalformedInput, StageAtoms, row, nil, "%d values for %d columns", len(vals), len(cols))
	}
	A := NewAtom()
	for i, v := range vals {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, newParseError(MalformedInput, StageAtoms, row, err, "can't read column %s", cols[i])
		}
		A.Set(cols[i], f)
	}
	return A, nil
}

// shortest representation that reads back to the same float64.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
