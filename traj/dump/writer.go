/*
 * writer.go, part of golammps.
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
	"bufio"
	"io"
	"os"

	lammps "github.com/rmera/golammps"
)

// Writer writes snapshots in the LAMMPS dump text format, optionally compressed.
// It is also an Observer that writes every snapshot the Reader completes, so
// registering a Writer on a Reader filters a trajectory into another file.
// Observers are called in registration order, so observers that skip snapshots
// at the end checkpoint must be registered before the Writer, or it will write
// snapshots that the Reader never returns.
type Writer struct {
	NopObserver
	filename  string
	f         *os.File //nil when writing to a stream
	h         io.WriteCloser
	b         *bufio.Writer
	writeable bool
	frames    int
}

// NewWriter creates the file name and returns a Writer for it. The compression
// format is deduced from the file extension unless given.
func NewWriter(name string, format ...string) (*Writer, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, &Error{message: UnableToOpen, filename: name, deco: []string{"NewWriter"}, critical: true, cause: err}
	}
	fo := ""
	if len(format) > 0 {
		fo = format[0]
	}
	W, err := newWriter(f, name, compressionFor(name, fo))
	if err != nil {
		f.Close()
		os.Remove(name)
		return nil, err
	}
	W.f = f
	return W, nil
}

// NewStreamWriter returns a Writer that writes to w. The output is compressed only if
// a format is given. w is not closed by the Writer.
func NewStreamWriter(w io.Writer, format ...string) (*Writer, error) {
	fo := Plain
	if len(format) > 0 && format[0] != "" {
		fo = format[0]
	}
	return newWriter(w, "<stream>", fo)
}

func newWriter(w io.Writer, name, format string) (*Writer, error) {
	h, err := prepSink(w, format)
	if err != nil {
		return nil, &Error{message: "Can't start compression", filename: name, deco: []string{"newWriter"}, critical: true, cause: err}
	}
	W := new(Writer)
	W.filename = name
	W.h = h
	W.b = bufio.NewWriter(h)
	W.writeable = true
	return W, nil
}

// WNext writes s to the trajectory.
func (W *Writer) WNext(s *lammps.Snapshot) error {
	if !W.writeable {
		return &Error{message: TrajUnIniWrite, filename: W.filename, deco: []string{"WNext"}, critical: true}
	}
	if s == nil {
		return &Error{message: NilSnapshot, filename: W.filename, deco: []string{"WNext"}, critical: true}
	}
	if _, err := s.WriteTo(W.b); err != nil {
		return &Error{message: WriteError, filename: W.filename, deco: []string{"WNext"}, critical: true, cause: err}
	}
	W.frames++
	return nil
}

// End writes the snapshot completed by a Reader.
func (W *Writer) End(s *lammps.Snapshot) error {
	return W.WNext(s)
}

// Len returns the number of snapshots written so far.
func (W *Writer) Len() int {
	return W.frames
}

// Close flushes everything and closes the file. The Writer can't be used after this.
// Only the first call has any effect.
func (W *Writer) Close() error {
	if !W.writeable {
		return nil
	}
	W.writeable = false
	err := W.b.Flush()
	if e := W.h.Close(); err == nil {
		err = e
	}
	if W.f != nil {
		if e := W.f.Close(); err == nil {
			err = e
		}
	}
	if err != nil {
		return &Error{message: WriteError, filename: W.filename, deco: []string{"Close"}, critical: true, cause: err}
	}
	return nil
}
