/*
 * lines.go, part of golammps.
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
	"strings"
)

// lineReader reads a text stream one line at a time, and allows to push back
// one line, which will be returned by the next call to next. Line endings
// (\n or \r\n) are removed.
type lineReader struct {
	r          *bufio.Reader
	pending    string
	hasPending bool
	n          int //lines read so far, not counting pushed-back ones.
	eof        bool
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

// next returns the next line. It returns io.EOF, and an empty string, only
// when there is nothing more to read. A last line without a line break is
// returned normally.
func (L *lineReader) next() (string, error) {
	if L.hasPending {
		L.hasPending = false
		L.n++
		return L.pending, nil
	}
	if L.eof {
		return "", io.EOF
	}
	s, err := L.r.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", err
		}
		L.eof = true
		if s == "" {
			return "", io.EOF
		}
	}
	L.n++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, nil
}

// unread pushes back s. Only one line can be pushed back at a time.
func (L *lineReader) unread(s string) {
	if L.hasPending {
		panic("dump: lineReader can only push back one line")
	}
	L.pending = s
	L.hasPending = true
	L.n--
}

// line returns the number of the last line returned by next.
func (L *lineReader) line() int { return L.n }
