/*
 * reader_test.go, part of golammps.
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
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	lammps "github.com/rmera/golammps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testColumns = "ITEM: ATOMS id type x y z ix iy iz"

// frame returns a snapshot block in a -1 1 cubic box.
func frame(ts int64, rows ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ITEM: TIMESTEP\n%d\nITEM: NUMBER OF ATOMS\n%d\n", ts, len(rows))
	b.WriteString("ITEM: BOX BOUNDS pp pp pp\n-1 1\n-1 1\n-1 1\n")
	b.WriteString(testColumns + "\n")
	for _, r := range rows {
		b.WriteString(r + "\n")
	}
	return b.String()
}

func fiveFrames() string {
	var b strings.Builder
	for i := int64(1); i <= 5; i++ {
		b.WriteString(frame(i*1000, fmt.Sprintf("1 1 0.%d 0 0 0 0 0", i), "2 2 0 0 0.5 1 -1 0"))
	}
	return b.String()
}

func readerFor(Te *testing.T, dump string, opts ...*Options) *Reader {
	Te.Helper()
	var o *Options
	if len(opts) > 0 {
		o = opts[0]
	}
	R, err := NewReader(strings.NewReader(dump), o)
	require.NoError(Te, err)
	return R
}

func TestReadSnapshots(Te *testing.T) {
	R := readerFor(Te, fiveFrames())
	var all []*lammps.Snapshot
	for {
		s, err := R.Next()
		if err != nil {
			require.True(Te, IsLastFrame(err), "unexpected error: %v", err)
			break
		}
		all = append(all, s)
	}
	require.Len(Te, all, 5)
	assert.Equal(Te, 5, R.Frames())
	assert.False(Te, R.Readable())
	for i, s := range all {
		assert.Equal(Te, int64(i+1)*1000, s.Timestep)
		assert.Equal(Te, 2, s.NAtoms)
		require.Len(Te, s.Atoms, 2)
		assert.Equal(Te, 2.0, s.Box.Lx())
		assert.False(Te, s.Unwrapped)
	}
	x, _ := all[2].Atoms[0].Get(lammps.FX)
	assert.Equal(Te, 0.3, x)
	iy, _ := all[4].Atoms[1].Get(lammps.FIy)
	assert.Equal(Te, -1.0, iy)

	//the end is sticky.
	s, err := R.Next()
	assert.Nil(Te, s)
	assert.True(Te, IsLastFrame(err))
	var lf lammps.LastFrameError
	require.True(Te, errors.As(err, &lf))
	assert.Equal(Te, "lammpstrj", lf.Format())
	assert.False(Te, lf.Critical())
}

func TestEmptyInput(Te *testing.T) {
	for _, in := range []string{"", "\n\n  \n"} {
		R := readerFor(Te, in)
		s, err := R.Next()
		assert.Nil(Te, s)
		assert.True(Te, IsLastFrame(err))
	}
}

func TestBlankLinesAndCRLF(Te *testing.T) {
	in := "\n" + frame(1, "1 1 0 0 0 0 0 0") + "\n\n" + frame(2, "1 1 0 0 0 0 0 0")
	in = strings.ReplaceAll(in, "\n", "\r\n")
	//no line break at the very end
	in = strings.TrimSuffix(in, "\r\n")
	n, err := readerFor(Te, in).Parse()
	require.NoError(Te, err)
	assert.Equal(Te, 2, n)
}

func TestUnwrapOnRead(Te *testing.T) {
	opts := DefaultOptions()
	opts.Unwrap(true)
	R := readerFor(Te, frame(10, "1 1 0.5 0 0 1 0 0", "2 1 0.5 0 0 0 0 0"), opts)
	s, err := R.Next()
	require.NoError(Te, err)
	assert.True(Te, s.Unwrapped)
	xu, ok := s.Atoms[0].Get(lammps.FXu)
	require.True(Te, ok)
	assert.Equal(Te, 2.5, xu)
	xu, _ = s.Atoms[1].Get(lammps.FXu)
	assert.Equal(Te, 0.5, xu)
}

func TestTriclinicRead(Te *testing.T) {
	in := "ITEM: TIMESTEP\n0\nITEM: NUMBER OF ATOMS\n1\nITEM: BOX BOUNDS xy xz yz pp pp pp\n" +
		"0 10 1.5\n0 10 0\n0 10 -2\nITEM: ATOMS id x y z\n1 1 2 3\n"
	s, err := readerFor(Te, in).Next()
	require.NoError(Te, err)
	assert.True(Te, s.Box.Triclinic)
	assert.Equal(Te, 1.5, s.Box.XY)
	assert.Equal(Te, -2.0, s.Box.YZ)
}

func TestEmptySnapshots(Te *testing.T) {
	noHeader := "ITEM: TIMESTEP\n7\nITEM: NUMBER OF ATOMS\n0\nITEM: BOX BOUNDS pp pp pp\n0 1\n0 1\n0 1\n"
	withHeader := strings.Replace(noHeader, "\n7\n", "\n8\n", 1) + "ITEM: ATOMS id x\n"
	R := readerFor(Te, noHeader+withHeader+frame(9, "1 1 0 0 0 0 0 0"))
	var ts []int64
	for {
		s, err := R.Next()
		if err != nil {
			require.True(Te, IsLastFrame(err), "unexpected error: %v", err)
			break
		}
		ts = append(ts, s.Timestep)
	}
	assert.Equal(Te, []int64{7, 8, 9}, ts)

	//skipping an empty snapshot must not eat the next one.
	R = readerFor(Te, noHeader+frame(9, "1 1 0 0 0 0 0 0"))
	R.Register(Funcs{OnEnd: func(s *lammps.Snapshot) error {
		if s.NAtoms == 0 {
			return SkipSnapshot
		}
		return nil
	}})
	s, err := R.Next()
	require.NoError(Te, err)
	assert.Equal(Te, int64(9), s.Timestep)
	assert.Equal(Te, 1, R.Skipped())
}

func TestAtomCountMismatch(Te *testing.T) {
	fewer := strings.Replace(frame(1, "1 1 0 0 0 0 0 0", "2 1 0 0 0 0 0 0"), "ATOMS\n2\n", "ATOMS\n3\n", 1)
	more := strings.Replace(frame(1, "1 1 0 0 0 0 0 0", "2 1 0 0 0 0 0 0"), "ATOMS\n2\n", "ATOMS\n1\n", 1)
	cases := map[string]string{
		"fewer, then a snapshot": fewer + frame(2),
		"fewer, then EOF":        fewer,
		"more":                   more + frame(2),
	}
	for name, in := range cases {
		R := readerFor(Te, in)
		_, err := R.Next()
		require.Error(Te, err, name)
		assert.False(Te, IsLastFrame(err), name)
		assert.True(Te, errors.Is(err, lammps.ErrSchemaViolation), "%s: %v", name, err)
		var pe *lammps.ParseError
		require.True(Te, errors.As(err, &pe), name)
		assert.Equal(Te, lammps.StageAtoms, pe.Stage, name)
		assert.False(Te, R.Readable(), name)
		_, again := R.Next()
		assert.Same(Te, err, again, "%s: errors should be sticky", name)
	}
}

func TestMalformed(Te *testing.T) {
	good := frame(1, "1 1 0 0 0 0 0 0")
	cases := []struct {
		name  string
		in    string
		stage lammps.Stage
	}{
		{"garbage first", "hello\n" + good, lammps.StageMarker},
		{"bad timestep", strings.Replace(good, "\n1\n", "\nx\n", 1), lammps.StageTimestep},
		{"bad natoms", strings.Replace(good, "ATOMS\n1\n", "ATOMS\n-1\n", 1), lammps.StageNAtoms},
		{"no natoms header", strings.Replace(good, "NUMBER OF ATOMS", "NUMBER OF STUFF", 1), lammps.StageNAtomsHeader},
		{"bad box", strings.Replace(good, "pp pp pp", "pp pp", 1), lammps.StageBoxHeader},
		{"bad bound", strings.Replace(good, "-1 1\n-1 1\n-1 1", "-1 1\n-1\n-1 1", 1), lammps.StageBoxBounds},
		{"bad row", strings.Replace(good, "1 1 0 0 0 0 0 0", "1 1 0 0 0 0 0 a", 1), lammps.StageAtoms},
		{"truncated", good[:strings.Index(good, "ITEM: BOX")], lammps.StageBoxHeader},
	}
	for _, c := range cases {
		_, err := readerFor(Te, c.in).Next()
		assert.True(Te, errors.Is(err, lammps.ErrMalformedInput), "%s: %v", c.name, err)
		var pe *lammps.ParseError
		if assert.True(Te, errors.As(err, &pe), c.name) {
			assert.Equal(Te, c.stage, pe.Stage, c.name)
		}
		var de *Error
		if assert.True(Te, errors.As(err, &de), c.name) {
			assert.True(Te, de.Critical())
			assert.Equal(Te, "<stream>", de.FileName())
		}
	}

	_, err := readerFor(Te, strings.Replace(good, "id type", "id c_pe", 1)).Next()
	assert.True(Te, errors.Is(err, lammps.ErrSchemaViolation), "unknown columns: %v", err)
}

func TestSkipAndResync(Te *testing.T) {
	before5000 := func(ts int64) bool { return ts < 5000 }
	R := readerFor(Te, fiveFrames())
	R.Register(SkipTimesteps(before5000))
	s, err := R.Next()
	require.NoError(Te, err)
	assert.Equal(Te, int64(5000), s.Timestep)
	assert.Len(Te, s.Atoms, 2)
	assert.Equal(Te, 4, R.Skipped())
	_, err = R.Next()
	assert.True(Te, IsLastFrame(err))

	//the same, from every checkpoint.
	skips := map[string]Funcs{
		"begin": {OnBegin: func() error { return SkipSnapshot }},
		"natoms": {OnNAtoms: func(int) error {
			return fmt.Errorf("not interested: %w", SkipSnapshot)
		}},
		"box":   {OnBox: func(*lammps.Box) error { return SkipSnapshot }},
		"atoms": {OnAtoms: func([]*lammps.Atom) error { return SkipSnapshot }},
		"end":   {OnEnd: func(*lammps.Snapshot) error { return SkipSnapshot }},
	}
	for name, obs := range skips {
		R := readerFor(Te, fiveFrames())
		R.Register(obs)
		n, err := R.Parse()
		require.NoError(Te, err, name)
		assert.Equal(Te, 0, n, name)
		assert.Equal(Te, 5, R.Skipped(), name)
	}

	//only the second snapshot is skipped, after its atoms are read.
	R = readerFor(Te, fiveFrames())
	var seen []int64
	var current int64
	R.Register(Funcs{
		OnTimestep: func(ts int64) error { current = ts; return nil },
		OnAtoms: func([]*lammps.Atom) error {
			if current == 2000 {
				return SkipSnapshot
			}
			return nil
		},
		OnEnd: func(s *lammps.Snapshot) error { seen = append(seen, s.Timestep); return nil },
	})
	n, err := R.Parse()
	require.NoError(Te, err)
	assert.Equal(Te, 4, n)
	assert.Equal(Te, []int64{1000, 3000, 4000, 5000}, seen)
}

func TestSkipShortBlock(Te *testing.T) {
	//declares 3 atoms, has 2.
	short := strings.Replace(frame(1000, "1 1 0 0 0 0 0 0", "2 1 0 0 0 0 0 0"), "ATOMS\n2\n", "ATOMS\n3\n", 1)
	in := short + frame(2000, "1 1 0 0 0 0 0 0") + frame(3000, "1 1 0 0 0 0 0 0")
	var current int64
	skips := map[string]Funcs{
		"timestep": {OnTimestep: func(ts int64) error {
			if ts == 1000 {
				return SkipSnapshot
			}
			return nil
		}},
		"natoms": {OnNAtoms: func(n int) error {
			if n == 3 {
				return SkipSnapshot
			}
			return nil
		}},
		"box": {
			OnTimestep: func(ts int64) error { current = ts; return nil },
			OnBox: func(*lammps.Box) error {
				if current == 1000 {
					return SkipSnapshot
				}
				return nil
			},
		},
	}
	for name, obs := range skips {
		R := readerFor(Te, in)
		R.Register(obs)
		var got []int64
		for {
			s, err := R.Next()
			if err != nil {
				require.True(Te, IsLastFrame(err), "%s: unexpected error: %v", name, err)
				break
			}
			got = append(got, s.Timestep)
		}
		assert.Equal(Te, []int64{2000, 3000}, got, name)
		assert.Equal(Te, 1, R.Skipped(), name)
	}
}

func TestSkipMalformedRest(Te *testing.T) {
	//what follows the timestep of a skipped snapshot is never parsed.
	broken := "ITEM: TIMESTEP\n1\nITEM: NUMBER OF ATOMS\nlots\nwhatever\n"
	R := readerFor(Te, broken+frame(2, "1 1 0 0 0 0 0 0"))
	R.Register(SkipTimesteps(func(ts int64) bool { return ts == 1 }))
	s, err := R.Next()
	require.NoError(Te, err)
	assert.Equal(Te, int64(2), s.Timestep)
}

// seen keeps what one observer got at each checkpoint.
type seen struct {
	natoms []int
	boxes  []*lammps.Box
	atoms  [][]*lammps.Atom
	ends   []*lammps.Snapshot
}

// record returns an observer that logs every checkpoint to log, and keeps its arguments.
func record(log *[]string, name string, got *seen) Funcs {
	return Funcs{
		OnBegin:    func() error { *log = append(*log, name+" begin"); return nil },
		OnTimestep: func(ts int64) error { *log = append(*log, fmt.Sprintf("%s ts %d", name, ts)); return nil },
		OnNAtoms: func(n int) error {
			*log = append(*log, fmt.Sprintf("%s natoms %d", name, n))
			got.natoms = append(got.natoms, n)
			return nil
		},
		OnBox: func(b *lammps.Box) error {
			*log = append(*log, name+" box")
			got.boxes = append(got.boxes, b)
			return nil
		},
		OnAtoms: func(a []*lammps.Atom) error {
			*log = append(*log, fmt.Sprintf("%s atoms %d", name, len(a)))
			got.atoms = append(got.atoms, a)
			return nil
		},
		OnEnd: func(s *lammps.Snapshot) error {
			*log = append(*log, name+" end")
			got.ends = append(got.ends, s)
			return nil
		},
	}
}

func TestFanOut(Te *testing.T) {
	var log []string
	var gotA, gotB seen
	A := record(&log, "A", &gotA)
	inner := A.OnTimestep
	A.OnTimestep = func(ts int64) error {
		inner(ts)
		if ts == 2000 {
			return SkipSnapshot
		}
		return nil
	}
	in := frame(1000, "1 1 0 0 0 0 0 0") + frame(2000, "1 1 0 0 0 0 0 0") + frame(3000, "1 1 0 0 0 0 0 0", "2 1 0 0 0 0 0 0")
	R := readerFor(Te, in)
	R.Register(A, record(&log, "B", &gotB))
	n, err := R.Parse()
	require.NoError(Te, err)
	assert.Equal(Te, 2, n)

	whole := func(ts int64, natoms int) []string {
		return []string{
			"A begin", "B begin",
			fmt.Sprintf("A ts %d", ts), fmt.Sprintf("B ts %d", ts),
			fmt.Sprintf("A natoms %d", natoms), fmt.Sprintf("B natoms %d", natoms),
			"A box", "B box",
			fmt.Sprintf("A atoms %d", natoms), fmt.Sprintf("B atoms %d", natoms),
			"A end", "B end",
		}
	}
	var expected []string
	expected = append(expected, whole(1000, 1)...)
	expected = append(expected, "A begin", "B begin", "A ts 2000")
	expected = append(expected, whole(3000, 2)...)
	assert.Equal(Te, expected, log)

	//both observers get the very same objects.
	assert.Equal(Te, []int{1, 2}, gotA.natoms)
	assert.Equal(Te, gotA.natoms, gotB.natoms)
	require.Len(Te, gotA.boxes, 2)
	require.Len(Te, gotB.boxes, 2)
	require.Len(Te, gotA.atoms, 2)
	require.Len(Te, gotB.atoms, 2)
	require.Len(Te, gotA.ends, 2)
	require.Len(Te, gotB.ends, 2)
	for i := 0; i < 2; i++ {
		assert.Same(Te, gotA.boxes[i], gotB.boxes[i])
		require.Equal(Te, len(gotA.atoms[i]), len(gotB.atoms[i]))
		assert.Same(Te, &gotA.atoms[i][0], &gotB.atoms[i][0])
		assert.Same(Te, gotA.ends[i], gotB.ends[i])
		assert.Same(Te, gotA.boxes[i], gotA.ends[i].Box)
		assert.Same(Te, &gotA.atoms[i][0], &gotA.ends[i].Atoms[0])
	}
}

func TestObserverFailure(Te *testing.T) {
	boom := errors.New("boom")
	called := false
	R := readerFor(Te, fiveFrames())
	R.Register(Funcs{OnBox: func(*lammps.Box) error { return boom }}, Funcs{OnBox: func(*lammps.Box) error {
		called = true
		return nil
	}})
	_, err := R.Next()
	require.Error(Te, err)
	assert.ErrorIs(Te, err, boom)
	assert.Contains(Te, err.Error(), ObserverFailed)
	assert.Contains(Te, err.Error(), "box")
	assert.False(Te, called)
	assert.False(Te, R.Readable())
}

func TestPipelineObserver(Te *testing.T) {
	P := lammps.NewPipeline(lammps.TaskFunc(func(s *lammps.Snapshot) (*lammps.Snapshot, error) {
		if s.Timestep%2000 != 0 {
			return nil, nil
		}
		return s, nil
	}))
	R := readerFor(Te, fiveFrames())
	R.Register(PipelineObserver(P))
	var got []int64
	for {
		s, err := R.Next()
		if err != nil {
			require.True(Te, IsLastFrame(err))
			break
		}
		got = append(got, s.Timestep)
	}
	assert.Equal(Te, []int64{2000, 4000}, got)
}

func TestLogging(Te *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	R := readerFor(Te, fiveFrames(), opts)
	R.Register(SkipTimesteps(func(ts int64) bool { return ts == 3000 }))
	_, err := R.Parse()
	require.NoError(Te, err)
	assert.Contains(Te, buf.String(), "skipping snapshot")
	assert.Contains(Te, buf.String(), "checkpoint=timestep")
	assert.Contains(Te, buf.String(), "end of trajectory")
}

func TestClose(Te *testing.T) {
	R := readerFor(Te, fiveFrames())
	_, err := R.Next()
	require.NoError(Te, err)
	require.NoError(Te, R.Close())
	require.NoError(Te, R.Close())
	_, err = R.Next()
	assert.Error(Te, err)
	assert.False(Te, IsLastFrame(err))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestIOError(Te *testing.T) {
	R, err := NewReader(failingReader{}, nil)
	require.NoError(Te, err)
	_, err = R.Next()
	assert.ErrorIs(Te, err, io.ErrUnexpectedEOF)
}

func TestOpenMissing(Te *testing.T) {
	_, err := New("testdata/does-not-exist.lammpstrj", nil)
	var de *Error
	require.True(Te, errors.As(err, &de))
	assert.Equal(Te, UnableToOpen, de.message)
}
