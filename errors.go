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

package lammps

import (
	"errors"
	"fmt"
)

// ErrKind classifies parse failures.
type ErrKind int

const (
	//MalformedInput means a line does not have the expected token or numeric shape.
	MalformedInput ErrKind = iota + 1
	//SchemaViolation means the data does not fit the declared schema: wrong atom
	//count, or an unknown column.
	SchemaViolation
)

func (K ErrKind) String() string {
	switch K {
	case MalformedInput:
		return "malformed input"
	case SchemaViolation:
		return "schema violation"
	default:
		return "unknown error kind"
	}
}

// Sentinels for errors.Is. Every *ParseError matches the one for its kind.
var (
	ErrMalformedInput  = errors.New("malformed input")
	ErrSchemaViolation = errors.New("schema violation")
)

// Stage names the part of a snapshot block being decoded when something failed.
type Stage string

const (
	StageMarker       Stage = "timestep marker"
	StageTimestep     Stage = "timestep"
	StageNAtomsHeader Stage = "number of atoms header"
	StageNAtoms       Stage = "number of atoms"
	StageBoxHeader    Stage = "box bounds header"
	StageBoxBounds    Stage = "box bounds"
	StageAtomsHeader  Stage = "atoms header"
	StageAtoms        Stage = "atoms"
	StageValidation   Stage = "validation"
)

// ParseError is returned by all the decoders in golammps. It fulfills Error.
type ParseError struct {
	Kind    ErrKind
	Stage   Stage
	Text    string //the offending text, if any.
	message string
	cause   error
	deco    []string
}

func newParseError(kind ErrKind, stage Stage, text string, cause error, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Stage: stage, Text: text, cause: cause, message: fmt.Sprintf(format, args...)}
}

// NewParseError builds a ParseError. It is meant for the trajectory readers in sub-packages.
func NewParseError(kind ErrKind, stage Stage, text string, format string, args ...any) *ParseError {
	return newParseError(kind, stage, text, nil, format, args...)
}

func (E *ParseError) Error() string {
	msg := fmt.Sprintf("%s in %s: %s", E.Kind, E.Stage, E.message)
	if E.Text != "" {
		msg = fmt.Sprintf("%s (%q)", msg, E.Text)
	}
	if E.cause != nil {
		msg = msg + ": " + E.cause.Error()
	}
	return msg
}

// Decorate adds the caller information to the error, and returns the
// resulting decoration slice.
func (E *ParseError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// Is lets errors.Is match the kind sentinels.
func (E *ParseError) Is(target error) bool {
	switch target {
	case ErrMalformedInput:
		return E.Kind == MalformedInput
	case ErrSchemaViolation:
		return E.Kind == SchemaViolation
	}
	return false
}

func (E *ParseError) Unwrap() error { return E.cause }
