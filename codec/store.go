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

import "io"

// storeCodec is the pass-through codec: its payload is the uncompressed
// data verbatim, matching the "no-op" terminal the xz filter chain also
// names.
type storeCodec struct{}

func (storeCodec) Encode(source io.Reader, sink io.Writer, _ []byte, limits Limits) (Stats, error) {
	data, err := readAll(source, limits, "store encode")
	if err != nil {
		return Stats{}, err
	}
	n, err := writeAll(sink, data, limits, "store encode")
	if err != nil {
		return Stats{}, err
	}
	return Stats{InputBytes: int64(len(data)), OutputBytes: n}, nil
}

func (storeCodec) Decode(source io.Reader, sink io.Writer, _ []byte, limits Limits) (Stats, error) {
	data, err := readAll(source, limits, "store decode")
	if err != nil {
		return Stats{}, err
	}
	n, err := writeAll(sink, data, limits, "store decode")
	if err != nil {
		return Stats{}, err
	}
	return Stats{InputBytes: int64(len(data)), OutputBytes: n}, nil
}
