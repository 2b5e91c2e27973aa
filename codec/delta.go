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
	"fmt"
	"io"

	"github.com/archivekit/archivekit/filter"
)

// deltaCodec wraps the Delta filter (section 4.7). Its one-byte
// property is the XZ-encoded distance-minus-one, matching
// xz.DeltaFilterSpec's wire form.
type deltaCodec struct{}

func decodeDeltaProps(props []byte) (filter.Delta, error) {
	if len(props) != 1 {
		return filter.Delta{}, fmt.Errorf("codec: delta props must be 1 byte, got %d", len(props))
	}
	return filter.NewDelta(int(props[0]) + 1), nil
}

func (deltaCodec) Encode(source io.Reader, sink io.Writer, props []byte, limits Limits) (Stats, error) {
	d, err := decodeDeltaProps(props)
	if err != nil {
		return Stats{}, newErr(InvalidArgument, "delta encode props", err)
	}
	data, err := readAll(source, limits, "delta encode")
	if err != nil {
		return Stats{}, err
	}
	out := d.Encode(data, 0)
	n, err := writeAll(sink, out, limits, "delta encode")
	if err != nil {
		return Stats{}, err
	}
	return Stats{InputBytes: int64(len(data)), OutputBytes: n}, nil
}

func (deltaCodec) Decode(source io.Reader, sink io.Writer, props []byte, limits Limits) (Stats, error) {
	d, err := decodeDeltaProps(props)
	if err != nil {
		return Stats{}, newErr(InvalidArgument, "delta decode props", err)
	}
	data, err := readAll(source, limits, "delta decode")
	if err != nil {
		return Stats{}, err
	}
	out := d.Decode(data, 0)
	n, err := writeAll(sink, out, limits, "delta decode")
	if err != nil {
		return Stats{}, err
	}
	return Stats{InputBytes: int64(len(data)), OutputBytes: n}, nil
}
