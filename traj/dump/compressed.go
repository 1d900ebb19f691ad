/*
 * compressed.go, part of golammps.
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
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression formats understood by the readers and writers in this package.
const (
	Plain = "none"
	Gzip  = "gz"
	Zstd  = "zst"
)

// compressionFor returns the compression format to use for fname. If format is not empty
// it is used as given, otherwise it is deduced from the file extension: .gz means gzip,
// .zst or .zstd mean z-standard, anything else is a plain text dump.
func compressionFor(fname, format string) string {
	if format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".gz":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	default:
		return Plain
	}
}

// Also, why couldn't *zstd.Decoder implement io.ReadCloser? :-(
type stdql struct {
	closeql func()
	*zstd.Decoder
}

// Close Closes the object. It can not be used after this call
func (s stdql) Close() error {
	s.closeql()
	return nil
}

// prepSource wraps r with a decompressor for the given format. The returned
// ReadCloser closes the decompressor only, not r.
func prepSource(r io.Reader, format string) (io.ReadCloser, error) {
	switch format {
	case Gzip:
		return gzip.NewReader(r)
	case Zstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return stdql{d.Close, d}, nil
	case Plain, "":
		return io.NopCloser(r), nil
	default:
		return nil, fmt.Errorf("unknown compression format %q", format)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// prepSink wraps w with a compressor for the given format. Closing the returned
// WriteCloser flushes the compressor, but does not close w.
func prepSink(w io.Writer, format string) (io.WriteCloser, error) {
	switch format {
	case Gzip:
		return gzip.NewWriterLevel(w, gzip.DefaultCompression)
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case Plain, "":
		return nopWriteCloser{w}, nil
	default:
		return nil, fmt.Errorf("unknown compression format %q", format)
	}
}
