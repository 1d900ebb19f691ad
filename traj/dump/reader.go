/*
 * reader.go, part of golammps.
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
	"io"
	"os"
	"strconv"
	"strings"

	lammps "github.com/rmera/golammps"
)

type state int

const (
	awaiting state = iota
	inSnapshot
	skipping
	exhausted
	failed
)

func (s state) String() string {
	return [...]string{"awaiting snapshot", "in snapshot", "skipping", "exhausted", "failed"}[s]
}

// Reader reads the snapshots of a LAMMPS text dump, one at a time, in order. It can't be
// rewound. The file is closed when the last snapshot has been read, when an error
// stops the reading, or when Close is called, whichever happens first.
type Reader struct {
	filename  string
	fhandle   *os.File //nil if reading from a stream
	src       io.ReadCloser
	lines     *lineReader
	observers []Observer
	unwrap    bool
	log       lammps.Logger
	state     state
	err       error //the error that stopped the reading, if any.
	natoms    int   //declared atoms of the current block, -1 while unknown.
	consumed  int   //lines of the current block read so far.
	frames    int
	skipped   int
}

var _ lammps.Traj = (*Reader)(nil)

// New opens the dump file filename for reading. Gzip and zstd compressed files
// are decompressed on the fly (see Options.Compression). opts can be nil, in which
// case the defaults are used. The only error returned is the failure to open or
// to start decompressing the file.
func New(filename string, opts *Options) (*Reader, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, &Error{message: UnableToOpen, filename: filename, deco: []string{"New"}, critical: true, cause: err}
	}
	R, err := newReader(f, filename, compressionFor(filename, opts.Compression()), opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	R.fhandle = f
	return R, nil
}

// NewReader returns a Reader that reads the dump from r. r is not closed by the Reader.
func NewReader(r io.Reader, opts *Options) (*Reader, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	return newReader(r, "<stream>", opts.Compression(), opts)
}

func newReader(r io.Reader, name, format string, opts *Options) (*Reader, error) {
	src, err := prepSource(r, format)
	if err != nil {
		return nil, &Error{message: "Can't start decompression", filename: name, deco: []string{"newReader"}, critical: true, cause: err}
	}
	R := new(Reader)
	R.filename = name
	R.src = src
	R.lines = newLineReader(src)
	R.unwrap = opts.Unwrap()
	R.log = opts.Logger()
	R.natoms = -1
	return R, nil
}

// Register adds observers to the reader. They are called in the order in which
// they were registered, at every checkpoint of every snapshot read after the call.
func (R *Reader) Register(obs ...Observer) {
	R.observers = append(R.observers, obs...)
}

// Readable returns true if the reader can still produce snapshots. It doesn't
// guarantee that there is something left to read.
func (R *Reader) Readable() bool {
	return R.state != exhausted && R.state != failed
}

// Frames returns the number of snapshots returned so far.
func (R *Reader) Frames() int { return R.frames }

// Skipped returns the number of snapshots skipped by observers so far.
func (R *Reader) Skipped() int { return R.skipped }

// Next reads and returns the next snapshot. Snapshots skipped by an observer are
// never returned. When the trajectory is over, Next returns a nil snapshot and an
// error implementing lammps.LastFrameError, which is not an actual failure. Any other
// error is final: every later call returns it again.
func (R *Reader) Next() (*lammps.Snapshot, error) {
	for {
		switch R.state {
		case exhausted:
			return nil, newlastFrameError(R.filename, "Next")
		case failed:
			return nil, R.err
		}
		s, err := R.assemble()
		if err == nil {
			R.state = awaiting
			if s == nil {
				R.log.Debug("end of trajectory", "file", R.filename, "snapshots", R.frames, "skipped", R.skipped)
				R.state = exhausted
				R.release()
				continue
			}
			R.frames++
			return s, nil
		}
		if errors.Is(err, SkipSnapshot) {
			R.state = skipping
			R.skipped++
			if err = R.resync(); err == nil {
				R.state = awaiting
				continue
			}
		}
		R.log.Error("reading stopped", "file", R.filename, "state", R.state.String(), "error", err)
		R.state = failed
		R.err = err
		R.release()
	}
}

// Parse reads the whole trajectory, calling the registered observers, and
// returns the number of snapshots that were not skipped.
func (R *Reader) Parse() (int, error) {
	n := 0
	for {
		_, err := R.Next()
		if err != nil {
			if IsLastFrame(err) {
				return n, nil
			}
			return n, err
		}
		n++
	}
}

// Close releases the file. Calls to Next after Close return an error, unless the
// trajectory had already been completely read. Close can be called more than once.
func (R *Reader) Close() error {
	if R.state != exhausted && R.state != failed {
		R.state = failed
		R.err = &Error{message: TrajUnIniRead, filename: R.filename, deco: []string{"Close"}, critical: true}
	}
	return R.release()
}

func (R *Reader) release() error {
	var err error
	if R.src != nil {
		err = R.src.Close()
		R.src = nil
	}
	if R.fhandle != nil {
		if e := R.fhandle.Close(); err == nil {
			err = e
		}
		R.fhandle = nil
	}
	return err
}

func isMarker(line string) bool {
	return strings.TrimSpace(line) == lammps.TimestepItem
}

// blockLines returns the total number of lines of a snapshot with natoms atoms:
// 2 for the timestep, 2 for the number of atoms, 4 for the box, and the
// atoms header plus one line per atom. The atoms header is not counted for
// empty snapshots, as it may be missing.
func blockLines(natoms int) int {
	if natoms == 0 {
		return 8
	}
	return 9 + natoms
}

// assemble reads one snapshot block, calling the observers at each checkpoint.
// It returns nil, nil if the stream ends before a new snapshot starts.
func (R *Reader) assemble() (*lammps.Snapshot, error) {
	R.natoms = -1
	R.consumed = 0
	var line string
	var err error
	for {
		//blank lines between snapshots are ignored.
		line, err = R.lines.next()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, R.ioErr(err)
		}
		if strings.TrimSpace(line) != "" {
			break
		}
	}
	if !isMarker(line) {
		return nil, R.parseErr(lammps.NewParseError(lammps.MalformedInput, lammps.StageMarker, line, "expected %q", lammps.TimestepItem))
	}
	R.consumed = 1
	R.state = inSnapshot
	if err := R.dispatch(cpBegin, func(o Observer) error { return o.Begin() }); err != nil {
		return nil, err
	}

	if line, err = R.expect(lammps.StageTimestep); err != nil {
		return nil, err
	}
	f := strings.Fields(line)
	if len(f) == 0 {
		return nil, R.parseErr(lammps.NewParseError(lammps.MalformedInput, lammps.StageTimestep, line, "no timestep"))
	}
	ts, perr := strconv.ParseInt(f[0], 10, 64)
	if perr != nil {
		return nil, R.parseErr(lammps.NewParseError(lammps.MalformedInput, lammps.StageTimestep, line, "%s", perr.Error()))
	}
	if err := R.dispatch(cpTimestep, func(o Observer) error { return o.Timestep(ts) }); err != nil {
		return nil, err
	}

	if line, err = R.expect(lammps.StageNAtomsHeader); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(strings.TrimSpace(line), lammps.NAtomsItem) {
		return nil, R.parseErr(lammps.NewParseError(lammps.MalformedInput, lammps.StageNAtomsHeader, line, "expected %q", lammps.NAtomsItem))
	}
	if line, err = R.expect(lammps.StageNAtoms); err != nil {
		return nil, err
	}
	natoms, perr := strconv.Atoi(strings.TrimSpace(line))
	if perr != nil || natoms < 0 {
		return nil, R.parseErr(lammps.NewParseError(lammps.MalformedInput, lammps.StageNAtoms, line, "not a valid number of atoms"))
	}
	R.natoms = natoms
	if err := R.dispatch(cpNAtoms, func(o Observer) error { return o.NAtoms(natoms) }); err != nil {
		return nil, err
	}

	header, err := R.expect(lammps.StageBoxHeader)
	if err != nil {
		return nil, err
	}
	bounds := make([]string, 3)
	for i := range bounds {
		if bounds[i], err = R.expect(lammps.StageBoxBounds); err != nil {
			return nil, err
		}
	}
	box, berr := lammps.ParseBox(header, bounds)
	if berr != nil {
		return nil, R.parseErr(berr)
	}
	if err := R.dispatch(cpBox, func(o Observer) error { return o.Box(box) }); err != nil {
		return nil, err
	}

	cols, err := R.columns(natoms)
	if err != nil {
		return nil, err
	}
	atoms, err := R.atoms(ts, natoms, cols, box)
	if err != nil {
		return nil, err
	}
	if err := R.dispatch(cpAtoms, func(o Observer) error { return o.Atoms(atoms) }); err != nil {
		return nil, err
	}

	s := &lammps.Snapshot{Timestep: ts, NAtoms: natoms, Box: box, Atoms: atoms, Unwrapped: R.unwrap}
	if verr := s.Validate(); verr != nil {
		return nil, R.parseErr(verr)
	}
	if err := R.dispatch(cpEnd, func(o Observer) error { return o.End(s) }); err != nil {
		return nil, err
	}
	return s, nil
}

// columns reads the ITEM: ATOMS line. It is optional if there are no atoms.
func (R *Reader) columns(natoms int) (lammps.Columns, error) {
	var line string
	var err error
	if natoms > 0 {
		if line, err = R.expect(lammps.StageAtomsHeader); err != nil {
			return nil, err
		}
	} else {
		line, err = R.lines.next()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, R.ioErr(err)
		}
		if !strings.HasPrefix(strings.TrimSpace(line), lammps.AtomsItem) {
			R.lines.unread(line)
			return nil, nil
		}
		R.consumed++
	}
	cols, perr := lammps.ParseColumns(line)
	if perr != nil {
		return nil, R.parseErr(perr)
	}
	return cols, nil
}

// atoms reads the natoms data rows. Running into the end of the file or into
// an ITEM line before natoms rows are read, or finding more rows than natoms,
// is a schema violation.
func (R *Reader) atoms(ts int64, natoms int, cols lammps.Columns, box *lammps.Box) ([]*lammps.Atom, error) {
	l := box.Lengths()
	atoms := make([]*lammps.Atom, 0, natoms)
	for i := 0; i < natoms; i++ {
		line, err := R.lines.next()
		if err != nil && err != io.EOF {
			return nil, R.ioErr(err)
		}
		if err == io.EOF || strings.HasPrefix(strings.TrimSpace(line), "ITEM:") {
			return nil, R.parseErr(lammps.NewParseError(lammps.SchemaViolation, lammps.StageAtoms, line, "timestep %d declares %d atoms, but only %d were found", ts, natoms, i))
		}
		R.consumed++
		a, perr := lammps.ParseAtomRow(cols, line)
		if perr != nil {
			return nil, R.parseErr(perr)
		}
		if R.unwrap {
			a.Unwrap(l[0], l[1], l[2])
		}
		atoms = append(atoms, a)
	}
	line, err := R.lines.next()
	if err == io.EOF {
		return atoms, nil
	}
	if err != nil {
		return nil, R.ioErr(err)
	}
	R.lines.unread(line)
	if t := strings.TrimSpace(line); t != "" && !strings.HasPrefix(t, "ITEM:") {
		return nil, R.parseErr(lammps.NewParseError(lammps.SchemaViolation, lammps.StageAtoms, line, "timestep %d declares %d atoms, but has more rows", ts, natoms))
	}
	return atoms, nil
}

// expect reads a line that must be there.
func (R *Reader) expect(stage lammps.Stage) (string, error) {
	line, err := R.lines.next()
	if err == io.EOF {
		return "", R.parseErr(lammps.NewParseError(lammps.MalformedInput, stage, "", "unexpected end of file"))
	}
	if err != nil {
		return "", R.ioErr(err)
	}
	R.consumed++
	return line, nil
}

// resync discards the rest of an abandoned snapshot, leaving the reader right
// before the next TIMESTEP line. If the number of atoms is known, the remaining lines
// of the block are dropped by count, so no data line can be taken for the start
// of a snapshot. A TIMESTEP line found while counting ends the block early, as
// no data line can be exactly that. Then, lines are dropped until a TIMESTEP line
// is found, and that line is pushed back.
func (R *Reader) resync() error {
	if R.natoms >= 0 {
		for left := blockLines(R.natoms) - R.consumed; left > 0; left-- {
			line, err := R.lines.next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return R.ioErr(err)
			}
			//a block shorter than declared ends at the next marker.
			if isMarker(line) {
				R.lines.unread(line)
				R.log.Warn("skipped snapshot has fewer lines than declared", "file", R.filename, "line", R.lines.line()+1)
				return nil
			}
		}
	}
	discarded := 0
	for {
		line, err := R.lines.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return R.ioErr(err)
		}
		if isMarker(line) {
			R.lines.unread(line)
			break
		}
		discarded++
	}
	if discarded > 0 {
		R.log.Debug("lines discarded to find the next snapshot", "file", R.filename, "lines", discarded)
	}
	return nil
}

// dispatch calls the observers for a checkpoint. SkipSnapshot is returned
// as it is, any other observer error is wrapped.
func (R *Reader) dispatch(cp checkpoint, call func(Observer) error) error {
	err := fanOut(R.observers, call)
	if err == nil {
		return nil
	}
	if errors.Is(err, SkipSnapshot) {
		R.log.Info("skipping snapshot", "file", R.filename, "checkpoint", string(cp), "line", R.lines.line(), "reason", err.Error())
		return err
	}
	return &Error{message: fmt.Sprintf("%s at checkpoint %s", ObserverFailed, cp), filename: R.filename, line: R.lines.line(), deco: []string{"Next"}, critical: true, cause: err}
}

func (R *Reader) parseErr(err error) error {
	if pe, ok := err.(lammps.Error); ok {
		pe.Decorate("Next")
	}
	return &Error{message: ReadError, filename: R.filename, line: R.lines.line(), deco: []string{"Next"}, critical: true, cause: err}
}

func (R *Reader) ioErr(err error) error {
	return &Error{message: ReadError, filename: R.filename, line: R.lines.line(), deco: []string{"Next"}, critical: true, cause: err}
}
