/*
 * snapshot.go, part of golammps.
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
	"fmt"
	"io"
	"strconv"
	"strings"

	v3 "github.com/rmera/golammps/v3"
)

const (
	TimestepItem = "ITEM: TIMESTEP"
	NAtomsItem   = "ITEM: NUMBER OF ATOMS"
)

// Snapshot is the state of the system at one timestep. The snapshot owns its atoms.
// The box should be treated as read-only once the snapshot is built.
type Snapshot struct {
	Timestep  int64
	NAtoms    int
	Box       *Box
	Atoms     []*Atom
	Unwrapped bool
}

// Validate checks that the number of atoms matches the declared one.
func (S *Snapshot) Validate() error {
	if len(S.Atoms) != S.NAtoms {
		return newParseError(SchemaViolation, StageValidation, "", nil, "timestep %d declares %d atoms, but has %d", S.Timestep, S.NAtoms, len(S.Atoms))
	}
	return nil
}

// Unwrap unwraps the coordinates of all atoms using the box lengths,
// and marks the snapshot as unwrapped.
func (S *Snapshot) Unwrap() {
	l := S.Box.Lengths()
	for _, a := range S.Atoms {
		a.Unwrap(l[0], l[1], l[2])
	}
	S.Unwrapped = true
}

// Equal returns true if both snapshots have the same timestep, number of atoms and box.
// The atoms are not compared, see AtomsEqual for that.
func (S *Snapshot) Equal(O *Snapshot) bool {
	return S.Timestep == O.Timestep && S.NAtoms == O.NAtoms && S.Box.Equal(O.Box)
}

// AtomsEqual returns true if both snapshots have equal atoms, in the same order.
func (S *Snapshot) AtomsEqual(O *Snapshot) bool {
	if len(S.Atoms) != len(O.Atoms) {
		return false
	}
	for i, a := range S.Atoms {
		if !a.Equal(O.Atoms[i]) {
			return false
		}
	}
	return true
}

// Columns returns the column schema used to write the snapshot, i.e.
// the sorted set fields of its first atom.
func (S *Snapshot) Columns() Columns {
	if len(S.Atoms) == 0 {
		return nil
	}
	return S.Atoms[0].Columns()
}

// Merge returns a new snapshot with the atoms of S followed by those of O.
// Both snapshots must have the same timestep and box. The result is unwrapped
// only if both snapshots were. The atoms are shared, not copied.
func (S *Snapshot) Merge(O *Snapshot) (*Snapshot, error) {
	if S.Timestep != O.Timestep {
		return nil, fmt.Errorf("can't merge snapshots from timesteps %d and %d", S.Timestep, O.Timestep)
	}
	if !S.Box.Equal(O.Box) {
		return nil, fmt.Errorf("can't merge snapshots with different boxes at timestep %d", S.Timestep)
	}
	atoms := make([]*Atom, 0, len(S.Atoms)+len(O.Atoms))
	atoms = append(atoms, S.Atoms...)
	atoms = append(atoms, O.Atoms...)
	return &Snapshot{
		Timestep:  S.Timestep,
		NAtoms:    S.NAtoms + O.NAtoms,
		Box:       S.Box,
		Atoms:     atoms,
		Unwrapped: S.Unwrapped && O.Unwrapped,
	}, nil
}

// Coords returns the coordinates of the given family for all atoms, one
// atom per row. It fails if any atom lacks any of the 3 components.
func (S *Snapshot) Coords(kind CoordKind) (*v3.Matrix, error) {
	return S.matrix(func(a *Atom) (Vector, bool) { return a.Coords(kind) })
}

// Vectors returns a per-atom vector quantity (velocities, forces...) as a matrix.
func (S *Snapshot) Vectors(kind VectorKind) (*v3.Matrix, error) {
	return S.matrix(func(a *Atom) (Vector, bool) { return a.Vector(kind) })
}

func (S *Snapshot) matrix(get func(*Atom) (Vector, bool)) (*v3.Matrix, error) {
	ret := v3.Zeros(len(S.Atoms))
	for i, a := range S.Atoms {
		v, ok := get(a)
		if !ok {
			return nil, fmt.Errorf("atom %d (id %d) at timestep %d lacks the requested quantity", i, a.ID(), S.Timestep)
		}
		ret.Set(i, 0, v.X)
		ret.Set(i, 1, v.Y)
		ret.Set(i, 2, v.Z)
	}
	return ret, nil
}

// Masses returns the masses of all atoms. Atoms without mass count as 1.0.
func (S *Snapshot) Masses() []float64 {
	ret := make([]float64, len(S.Atoms))
	for i, a := range S.Atoms {
		ret[i] = a.Mass()
	}
	return ret
}

func (S *Snapshot) text() string {
	var b strings.Builder
	b.WriteString(TimestepItem + "\n")
	b.WriteString(strconv.FormatInt(S.Timestep, 10) + "\n")
	b.WriteString(NAtomsItem + "\n")
	b.WriteString(strconv.Itoa(S.NAtoms) + "\n")
	b.WriteString(S.Box.Header() + "\n")
	b.WriteString(S.Box.String() + "\n")
	cols := S.Columns()
	b.WriteString(cols.Header() + "\n")
	for _, a := range S.Atoms {
		b.WriteString(a.Row(cols))
		b.WriteByte('\n')
	}
	return b.String()
}

// String renders the snapshot in the LAMMPS dump text format. Only the
// columns set in the first atom are written, sorted by name.
func (S *Snapshot) String() string {
	return S.text()
}

// WriteTo writes the snapshot to w in the dump text format. It implements io.WriterTo.
func (S *Snapshot) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, S.text())
	return int64(n), err
}
