/*
 * errors.go, part of golammps.
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
	"errors"
	"fmt"

	lammps "github.com/rmera/golammps"
)

// SkipSnapshot is returned by an Observer to abandon the snapshot being parsed.
// The reader then discards the rest of the snapshot and continues with the next one.
// It is never returned to the caller of Next. Observers may wrap it to give a reason.
var SkipSnapshot = errors.New("skip this snapshot")

// Error is the general structure for dump trajectory errors. It fullfills lammps.Error and lammps.TrajError
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	line     int    //line number where the problem was found, 0 if not known.
	deco     []string
	critical bool
	cause    error
}

func (err *Error) Error() string {
	msg := fmt.Sprintf("LAMMPS dump %s error: %s", err.filename, err.message)
	if err.line > 0 {
		msg = fmt.Sprintf("LAMMPS dump %s error at line %d: %s", err.filename, err.line, err.message)
	}
	if err.cause != nil {
		msg += ": " + err.cause.Error()
	}
	return msg
}

// Decorate Adds new information to the error
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Filename returns the file to which the failing trajectory was associated
func (err *Error) FileName() string { return err.filename }

// Format returns the format of the file (always "lammpstrj") associated to the error
func (err *Error) Format() string { return "lammpstrj" }

// Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

// Line returns the line of the file where the problem was found.
func (err *Error) Line() int { return err.line }

// Unwrap gives access to the underlying problem, usually a *lammps.ParseError
func (err *Error) Unwrap() error { return err.cause }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	UnableToOpen   = "Unable to open file"
	ReadError      = "Error reading frame"
	WriteError     = "Error writing frame"
	ObserverFailed = "Observer failed"
	NilSnapshot    = "Given nil snapshot"
)

// lastFrameError implements lammps.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

// lastFrameError does nothing
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "lammpstrj" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}

// IsLastFrame returns true if err signals the normal end of a trajectory.
func IsLastFrame(err error) bool {
	var lf lammps.LastFrameError
	return errors.As(err, &lf)
}
