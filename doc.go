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

/*
Package lammps is the main package of golammps. It provides the data model for
LAMMPS text dump trajectories: the simulation box, the sparse per-atom record and the
per-timestep snapshot, together with the decoders for the box and atom blocks of a dump
file and the writer that renders a snapshot back to the same text layout.

		**golammps Capabilities**


	    Reads LAMMPS "custom"/"atom" text dumps, plain, gzip- or zstd-compressed
		(see the traj/dump package), one snapshot at a time.

	    Only the columns present in the dump are set in each atom. A zero is never
		confused with a missing value.

	    Unwraps coordinates using the image flags and the box lengths.

	    Lets the user hook observers at each stage of the parsing of a snapshot. An
		observer can ask for a snapshot to be skipped as soon as its timestep is known,
		so the atoms of unwanted frames are never decoded.

	    Writes snapshots back as dump text, so trajectories can be filtered or converted.

	    Exports coordinates, velocities and forces as gonum-backed v3.Matrix objects.

	    Streams snapshots as JSON (lmpjson package) to other programs.
*/
package lammps
