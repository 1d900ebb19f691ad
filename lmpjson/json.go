/*
 * json.go, part of golammps.
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

// Package lmpjson serializes snapshots as JSON, one object per line, so they can be
// passed to programs that don't read dump files. Sink is a dump.Observer that
// writes every snapshot the Reader completes.
package lmpjson

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	lammps "github.com/rmera/golammps"
	"github.com/rmera/golammps/traj/dump"
)

// ConfigFastest would round floats to 6 digits.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Box is a ready-to-serialize container for a simulation box.
// Tilt is present only for triclinic boxes, in the order xy, xz, yz.
type Box struct {
	Periodicity [3]string  `json:"periodicity"`
	Lo          [3]float64 `json:"lo"`
	Hi          [3]float64 `json:"hi"`
	Tilt        []float64  `json:"tilt,omitempty"`
}

// Snapshot is a ready-to-serialize container for a snapshot. Each atom is
// a row of values, in the order given by Columns.
type Snapshot struct {
	Simulation string      `json:"simulation"`
	Timestep   int64       `json:"timestep"`
	NAtoms     int         `json:"natoms"`
	Box        Box         `json:"box"`
	Columns    []string    `json:"columns"`
	Atoms      [][]float64 `json:"atoms"`
	Unwrapped  bool        `json:"unwrapped,omitempty"`
}

// FromSnapshot builds the container for s. sim identifies the simulation the
// snapshot comes from.
func FromSnapshot(s *lammps.Snapshot, sim string) *Snapshot {
	B := s.Box
	J := &Snapshot{
		Simulation: sim,
		Timestep:   s.Timestep,
		NAtoms:     s.NAtoms,
		Box: Box{
			Periodicity: [3]string{B.XPrd, B.YPrd, B.ZPrd},
			Lo:          [3]float64{B.XLo, B.YLo, B.ZLo},
			Hi:          [3]float64{B.XHi, B.YHi, B.ZHi},
		},
		Unwrapped: s.Unwrapped,
	}
	if B.Triclinic {
		J.Box.Tilt = []float64{B.XY, B.XZ, B.YZ}
	}
	cols := s.Columns()
	J.Columns = cols.Names()
	J.Atoms = make([][]float64, len(s.Atoms))
	for i, a := range s.Atoms {
		row := make([]float64, 0, len(cols))
		for _, f := range cols {
			v, _ := a.Get(f)
			row = append(row, v)
		}
		J.Atoms[i] = row
	}
	return J
}

// ToSnapshot rebuilds the snapshot. The errors are the same a dump
// reader would give for equivalent data.
func (J *Snapshot) ToSnapshot() (*lammps.Snapshot, error) {
	if len(J.Box.Tilt) != 0 && len(J.Box.Tilt) != 3 {
		return nil, lammps.NewParseError(lammps.MalformedInput, lammps.StageBoxBounds, "", "%d tilt factors, need 3", len(J.Box.Tilt))
	}
	B := &lammps.Box{
		XPrd: J.Box.Periodicity[0], YPrd: J.Box.Periodicity[1], ZPrd: J.Box.Periodicity[2],
		XLo: J.Box.Lo[0], XHi: J.Box.Hi[0],
		YLo: J.Box.Lo[1], YHi: J.Box.Hi[1],
		ZLo: J.Box.Lo[2], ZHi: J.Box.Hi[2],
	}
	if len(J.Box.Tilt) == 3 {
		B.Triclinic = true
		B.XY, B.XZ, B.YZ = J.Box.Tilt[0], J.Box.Tilt[1], J.Box.Tilt[2]
	}
	cols := make(lammps.Columns, len(J.Columns))
	for i, name := range J.Columns {
		f, ok := lammps.FieldByName(name)
		if !ok {
			return nil, lammps.NewParseError(lammps.SchemaViolation, lammps.StageAtomsHeader, name, "unknown column %s", name)
		}
		cols[i] = f
	}
	s := &lammps.Snapshot{Timestep: J.Timestep, NAtoms: J.NAtoms, Box: B, Unwrapped: J.Unwrapped}
	s.Atoms = make([]*lammps.Atom, len(J.Atoms))
	for i, row := range J.Atoms {
		if len(row) != len(cols) {
			return nil, lammps.NewParseError(lammps.MalformedInput, lammps.StageAtoms, "", "atom %d has %d values for %d columns", i, len(row), len(cols))
		}
		a := lammps.NewAtom()
		for j, v := range row {
			a.Set(cols[j], v)
		}
		if J.Unwrapped {
			a.Unwrap(B.Lx(), B.Ly(), B.Lz())
		}
		s.Atoms[i] = a
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Sink writes each snapshot it gets as a line of JSON.
type Sink struct {
	dump.NopObserver
	enc *jsoniter.Encoder
	sim string
	n   int
}

// NewSink returns a Sink writing to out. If no simulation identifier is
// given, a new, time-ordered, UUID is used.
func NewSink(out io.Writer, simulation ...string) *Sink {
	S := new(Sink)
	S.enc = json.NewEncoder(out)
	if len(simulation) > 0 && simulation[0] != "" {
		S.sim = simulation[0]
	} else {
		S.sim = uuid.Must(uuid.NewV7()).String()
	}
	return S
}

// Simulation returns the identifier written with every snapshot.
func (S *Sink) Simulation() string { return S.sim }

// Len returns the number of snapshots written.
func (S *Sink) Len() int { return S.n }

// Send writes s.
func (S *Sink) Send(s *lammps.Snapshot) error {
	if s == nil {
		return errors.New("lmpjson: nil snapshot")
	}
	if err := S.enc.Encode(FromSnapshot(s, S.sim)); err != nil {
		return fmt.Errorf("lmpjson: encoding timestep %d: %w", s.Timestep, err)
	}
	S.n++
	return nil
}

// End implements dump.Observer.
func (S *Sink) End(s *lammps.Snapshot) error {
	return S.Send(s)
}

// Reader reads back what a Sink wrote. Blank lines are ignored.
type Reader struct {
	r *bufio.Reader
}

func NewReader(in io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(in)}
}

// Next returns the next snapshot and the simulation it belongs to.
// It returns io.EOF when there is nothing more to read.
func (R *Reader) Next() (*lammps.Snapshot, string, error) {
	var line []byte
	for len(bytes.TrimSpace(line)) == 0 {
		var err error
		line, err = R.r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, "", fmt.Errorf("lmpjson: reading: %w", err)
		}
		if err == io.EOF && len(bytes.TrimSpace(line)) == 0 {
			return nil, "", io.EOF
		}
	}
	J := new(Snapshot)
	if err := json.Unmarshal(line, J); err != nil {
		return nil, "", fmt.Errorf("lmpjson: decoding: %w", err)
	}
	s, err := J.ToSnapshot()
	if err != nil {
		return nil, "", fmt.Errorf("lmpjson: timestep %d: %w", J.Timestep, err)
	}
	return s, J.Simulation, nil
}
