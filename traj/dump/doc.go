/*
 * doc.go, part of golammps.
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

// Package dump reads and writes LAMMPS text dump trajectories (lammpstrj files),
// plain or compressed with gzip or z-standard.
//
// The Reader parses one snapshot at a time. Observers registered with the Reader
// see each snapshot as it is being parsed, and can abandon it at any checkpoint by
// returning SkipSnapshot, in which case the rest of the snapshot is discarded
// without being parsed.
//
// # Format
//
// A dump file is a sequence of snapshots. Each snapshot is:
//
//	ITEM: TIMESTEP
//	<timestep>
//	ITEM: NUMBER OF ATOMS
//	<number of atoms>
//	ITEM: BOX BOUNDS <periodicity x> <periodicity y> <periodicity z> [xy xz yz]
//	<xlo> <xhi> [xy]
//	<ylo> <yhi> [xz]
//	<zlo> <zhi> [yz]
//	ITEM: ATOMS <column> <column> ...
//	<one line per atom, one value per column>
//
// The tilt factors are present only for triclinic boxes. Blank lines between
// snapshots are ignored. Snapshots without atoms may lack the ITEM: ATOMS line.
// Any column not in the lammps.Field list makes the snapshot invalid.
package dump
