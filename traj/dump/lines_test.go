/*
 * lines_test.go, part of golammps.
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
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader(Te *testing.T) {
	L := newLineReader(strings.NewReader("a\r\nb\n\nc"))
	for _, exp := range []string{"a", "b", ""} {
		s, err := L.next()
		require.NoError(Te, err)
		assert.Equal(Te, exp, s)
	}
	assert.Equal(Te, 3, L.line())
	s, err := L.next()
	require.NoError(Te, err)
	assert.Equal(Te, "c", s)
	L.unread(s)
	assert.Equal(Te, 3, L.line())
	assert.Panics(Te, func() { L.unread("x") })
	s, err = L.next()
	require.NoError(Te, err)
	assert.Equal(Te, "c", s)
	_, err = L.next()
	assert.Equal(Te, io.EOF, err)
	_, err = L.next()
	assert.Equal(Te, io.EOF, err)
}

func TestCompressionFor(Te *testing.T) {
	assert.Equal(Te, Gzip, compressionFor("a.lammpstrj.GZ", ""))
	assert.Equal(Te, Zstd, compressionFor("a.zstd", ""))
	assert.Equal(Te, Zstd, compressionFor("a.lammpstrj.zst", ""))
	assert.Equal(Te, Plain, compressionFor("dump.atom", ""))
	assert.Equal(Te, Zstd, compressionFor("dump.atom", Zstd))
}
