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
	"encoding/binary"
	"fmt"
	"io"

	"github.com/archivekit/archivekit/ppmd7"
)

// ppmd7Props is the 5-byte properties blob this wrapper defines for the
// registry entry: order (1 byte) then memLimit in KiB (4-byte LE),
// mirroring the 7z PPMd7 coder's own [order, mem] property encoding.
type ppmd7Props struct {
	order    int
	memLimit int
}

func decodePPMd7Props(props []byte) (ppmd7Props, error) {
	if len(props) != 5 {
		return ppmd7Props{}, fmt.Errorf("ppmd7: props must be 5 bytes, got %d", len(props))
	}
	order := int(props[0])
	memKiB := binary.LittleEndian.Uint32(props[1:5])
	return ppmd7Props{order: order, memLimit: int(memKiB) << 10}, nil
}

// ppmd7Codec wraps the PPMd7 context-tree model (section 4.6). Since
// section 9's decided Open Question makes termination depend on the
// containing block's declared uncompressed length, and this single-shot
// codec interface carries no such out-of-band length, the encoded
// stream here is self-framed: an 8-byte LE uncompressed length prefix
// ahead of the range-coded payload.
type ppmd7Codec struct{}

func (ppmd7Codec) Encode(source io.Reader, sink io.Writer, props []byte, limits Limits) (Stats, error) {
	p, err := decodePPMd7Props(props)
	if err != nil {
		return Stats{}, newErr(InvalidArgument, "ppmd7 encode props", err)
	}
	data, err := readAll(source, limits, "ppmd7 encode")
	if err != nil {
		return Stats{}, err
	}
	compressed := ppmd7.Encode(data, p.order, p.memLimit)
	out := make([]byte, 8+len(compressed))
	binary.LittleEndian.PutUint64(out[:8], uint64(len(data)))
	copy(out[8:], compressed)
	n, err := writeAll(sink, out, limits, "ppmd7 encode")
	if err != nil {
		return Stats{}, err
	}
	return Stats{InputBytes: int64(len(data)), OutputBytes: n}, nil
}

func (ppmd7Codec) Decode(source io.Reader, sink io.Writer, props []byte, limits Limits) (Stats, error) {
	p, err := decodePPMd7Props(props)
	if err != nil {
		return Stats{}, newErr(InvalidArgument, "ppmd7 decode props", err)
	}
	data, err := readAll(source, limits, "ppmd7 decode")
	if err != nil {
		return Stats{}, err
	}
	if len(data) < 8 {
		return Stats{}, newErr(UnexpectedEOF, "ppmd7 decode: missing length prefix", nil)
	}
	outLen := int64(binary.LittleEndian.Uint64(data[:8]))
	if err := limits.checkOutput(outLen, "ppmd7 decode"); err != nil {
		return Stats{}, err
	}
	out, err := ppmd7.Decode(data[8:], outLen, p.order, p.memLimit)
	if err != nil {
		return Stats{}, newErr(Corrupt, "ppmd7 decode", err)
	}
	n, err := writeAll(sink, out, limits, "ppmd7 decode")
	if err != nil {
		return Stats{}, err
	}
	return Stats{InputBytes: int64(len(data)), OutputBytes: n}, nil
}
