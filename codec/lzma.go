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
	"io"

	"github.com/archivekit/archivekit/lzma"
)

// defaultLevel is the match-finder effort used when a caller does not
// carry one out-of-band; 6 matches the conventional "normal" preset.
const defaultLevel = 6

// lzmaCodec wraps the raw LZMA1 codec (section 4.4). Since this
// single-shot interface has no out-of-band uncompressed-size channel,
// it always carries the range-coder end marker (section 4.4's second
// termination mode) so Decode knows where the stream ends.
type lzmaCodec struct{}

func (lzmaCodec) Encode(source io.Reader, sink io.Writer, props []byte, limits Limits) (Stats, error) {
	p, err := lzma.DecodeHeader(props)
	if err != nil {
		return Stats{}, newErr(InvalidArgument, "lzma encode props", err)
	}
	data, err := readAll(source, limits, "lzma encode")
	if err != nil {
		return Stats{}, err
	}
	enc := lzma.NewEncoder(p, defaultLevel)
	enc.EncodeEndMarker(true)
	out := enc.Encode(data)
	n, err := writeAll(sink, out, limits, "lzma encode")
	if err != nil {
		return Stats{}, err
	}
	return Stats{InputBytes: int64(len(data)), OutputBytes: n}, nil
}

func (lzmaCodec) Decode(source io.Reader, sink io.Writer, props []byte, limits Limits) (Stats, error) {
	p, err := lzma.DecodeHeader(props)
	if err != nil {
		return Stats{}, newErr(InvalidArgument, "lzma decode props", err)
	}
	data, err := readAll(source, limits, "lzma decode")
	if err != nil {
		return Stats{}, err
	}
	dec := lzma.NewDecoder(p)
	out, err := dec.Decode(data, -1)
	if err != nil {
		return Stats{}, newErr(Corrupt, "lzma decode", err)
	}
	n, err := writeAll(sink, out, limits, "lzma decode")
	if err != nil {
		return Stats{}, err
	}
	return Stats{InputBytes: int64(len(data)), OutputBytes: n}, nil
}
