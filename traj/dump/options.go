/*
 * options.go, part of golammps.
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
	"log/slog"

	lammps "github.com/rmera/golammps"
)

// Options contains the options for reading a dump trajectory.
type Options struct {
	unwrap      bool
	logger      lammps.Logger
	compression string
}

// DefaultOptions returns the default reading options: no unwrapping,
// compression deduced from the file name, and no logging.
func DefaultOptions() *Options {
	r := new(Options)
	r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return r
}

// Returns whether coordinates are unwrapped as they are read,
// and sets it to a new value, if given.
func (O *Options) Unwrap(u ...bool) bool {
	if len(u) > 0 {
		O.unwrap = u[0]
	}
	return O.unwrap
}

// Returns the logger used by the reader, and sets it to a new
// value, if given. A nil logger is ignored.
func (O *Options) Logger(l ...lammps.Logger) lammps.Logger {
	if len(l) > 0 && l[0] != nil {
		O.logger = l[0]
	}
	return O.logger
}

// Returns the compression format (Plain, Gzip, Zstd), or an empty string if
// it is to be deduced from the file name, and sets it to a new value, if given.
// Streams given to NewReader are only decompressed if this is set.
func (O *Options) Compression(c ...string) string {
	if len(c) > 0 {
		O.compression = c[0]
	}
	return O.compression
}
