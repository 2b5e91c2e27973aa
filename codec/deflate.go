// Copyright (c) 2025 The archivekit Authors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of archivekit.
//
// archivekit is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// archivekit is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with archivekit.  If not, see <https://www.gnu.org/licenses/>.

package codec

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
)

// deflateCodec fills the "deflate" slot section 9's variant enumeration
// names but section 4 never assigns a dedicated core component to: it
// is not one of the seven hard subsystems, so this wrapper reaches for
// klauspost/compress/flate (the DEFLATE implementation already in this
// project's dependency pack) rather than hand-rolling a Huffman coder
// out of scope for the core.
type deflateCodec struct{}

func (deflateCodec) Encode(source io.Reader, sink io.Writer, _ []byte, limits Limits) (Stats, error) {
	data, err := readAll(source, limits, "deflate encode")
	if err != nil {
		return Stats{}, err
	}
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return Stats{}, newErr(InvalidArgument, "deflate encode", err)
	}
	if _, err := w.Write(data); err != nil {
		return Stats{}, newErr(Corrupt, "deflate encode", err)
	}
	if err := w.Close(); err != nil {
		return Stats{}, newErr(Corrupt, "deflate encode", err)
	}
	n, err := writeAll(sink, buf.Bytes(), limits, "deflate encode")
	if err != nil {
		return Stats{}, err
	}
	return Stats{InputBytes: int64(len(data)), OutputBytes: n}, nil
}

func (deflateCodec) Decode(source io.Reader, sink io.Writer, _ []byte, limits Limits) (Stats, error) {
	data, err := readAll(source, limits, "deflate decode")
	if err != nil {
		return Stats{}, err
	}
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	var limited io.Reader = r
	if limits.MaxOutputBytes > 0 {
		limited = io.LimitReader(r, limits.MaxOutputBytes+1)
	}
	out, err := io.ReadAll(limited)
	if err != nil {
		return Stats{}, newErr(Corrupt, "deflate decode", err)
	}
	n, err := writeAll(sink, out, limits, "deflate decode")
	if err != nil {
		return Stats{}, err
	}
	return Stats{InputBytes: int64(len(data)), OutputBytes: n}, nil
}
