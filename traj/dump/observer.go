/*
 * observer.go, part of golammps.
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

package dump

import (
	lammps "github.com/rmera/golammps"
)

// Observer is called by the Reader at each checkpoint of the parsing of a snapshot.
// Each method gets what was just parsed. Returning SkipSnapshot (or an error wrapping it)
// abandons the current snapshot: no other observer, and no later checkpoint, is called
// for it. Any other error stops the reading of the whole trajectory.
//
// Observers must not modify what they get, and should not keep the atoms slice
// given to Atoms beyond the call if they are not going to treat it as read-only.
type Observer interface {
	//Begin is called right before a new snapshot is parsed.
	Begin() error
	//Timestep is called right after the timestep is parsed.
	Timestep(ts int64) error
	//NAtoms is called after the number of atoms is parsed.
	NAtoms(n int) error
	//Box is called after the simulation box is parsed.
	Box(box *lammps.Box) error
	//Atoms is called when all atoms have been parsed (and unwrapped, if requested).
	Atoms(atoms []*lammps.Atom) error
	//End is called with the complete snapshot.
	End(s *lammps.Snapshot) error
}

// NopObserver implements all the Observer methods doing nothing. Embed it
// to implement only the checkpoints of interest.
type NopObserver struct{}

func (NopObserver) Begin() error               { return nil }
func (NopObserver) Timestep(int64) error       { return nil }
func (NopObserver) NAtoms(int) error           { return nil }
func (NopObserver) Box(*lammps.Box) error      { return nil }
func (NopObserver) Atoms([]*lammps.Atom) error { return nil }
func (NopObserver) End(*lammps.Snapshot) error { return nil }

// Funcs is an Observer built from optional functions. Nil functions are not called.
type Funcs struct {
	OnBegin    func() error
	OnTimestep func(ts int64) error
	OnNAtoms   func(n int) error
	OnBox      func(box *lammps.Box) error
	OnAtoms    func(atoms []*lammps.Atom) error
	OnEnd      func(s *lammps.Snapshot) error
}

func (F Funcs) Begin() error {
	if F.OnBegin == nil {
		return nil
	}
	return F.OnBegin()
}

func (F Funcs) Timestep(ts int64) error {
	if F.OnTimestep == nil {
		return nil
	}
	return F.OnTimestep(ts)
}

func (F Funcs) NAtoms(n int) error {
	if F.OnNAtoms == nil {
		return nil
	}
	return F.OnNAtoms(n)
}

func (F Funcs) Box(box *lammps.Box) error {
	if F.OnBox == nil {
		return nil
	}
	return F.OnBox(box)
}

func (F Funcs) Atoms(atoms []*lammps.Atom) error {
	if F.OnAtoms == nil {
		return nil
	}
	return F.OnAtoms(atoms)
}

func (F Funcs) End(s *lammps.Snapshot) error {
	if F.OnEnd == nil {
		return nil
	}
	return F.OnEnd(s)
}

// SkipTimesteps returns an observer that skips every snapshot for which
// skip(timestep) is true, before any atom is read.
func SkipTimesteps(skip func(ts int64) bool) Observer {
	return Funcs{OnTimestep: func(ts int64) error {
		if skip(ts) {
			return SkipSnapshot
		}
		return nil
	}}
}

// PipelineObserver runs p on each complete snapshot. If the pipeline returns
// a nil snapshot, the snapshot is skipped, so Next will not return it.
func PipelineObserver(p *lammps.Pipeline) Observer {
	return Funcs{OnEnd: func(s *lammps.Snapshot) error {
		r, err := p.Run(s)
		if err != nil {
			return err
		}
		if r == nil {
			return SkipSnapshot
		}
		return nil
	}}
}

// the checkpoints, for error messages and logs.
type checkpoint string

const (
	cpBegin    checkpoint = "begin"
	cpTimestep checkpoint = "timestep"
	cpNAtoms   checkpoint = "natoms"
	cpBox      checkpoint = "box"
	cpAtoms    checkpoint = "atoms"
	cpEnd      checkpoint = "end"
)

// fanOut calls call on each observer, in registration order, until one returns an error.
func fanOut(obs []Observer, call func(Observer) error) error {
	for _, o := range obs {
		if err := call(o); err != nil {
			return err
		}
	}
	return nil
}
