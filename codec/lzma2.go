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

	"github.com/archivekit/archivekit/internal/binutil"
	"github.com/archivekit/archivekit/lzma"
	"github.com/archivekit/archivekit/lzma2"
	"github.com/archivekit/archivekit/lzwindow"
)

// lzma2Codec wraps the LZMA2 chunked container (section 4.5). Its
// properties are the single dictionary-size byte the XZ format assigns
// IDLZMA2 (xz.FilterSpec), widened to 4 bytes here since this wrapper is
// also reachable outside an XZ block (e.g. from a future 7z adapter
// that only has a raw dict_size integer, not the XZ property-byte
// encoding).
func lzma2DictSize(props []byte) (int, error) {
	if len(props) != 4 {
		return 0, fmt.Errorf("%w: lzma2 props must be 4 bytes, got %d", lzma.ErrInvalidProps, len(props))
	}
	dictSize := int(binutil.Uint32LE(props))
	if dictSize < lzwindow.MinDictSize || dictSize > lzwindow.MaxDictSize {
		return 0, fmt.Errorf("%w: dict_size=%d out of range", lzma.ErrInvalidProps, dictSize)
	}
	return dictSize, nil
}

type lzma2Codec struct{}

func (lzma2Codec) Encode(source io.Reader, sink io.Writer, props []byte, limits Limits) (Stats, error) {
	dictSize, err := lzma2DictSize(props)
	if err != nil {
		return Stats{}, newErr(InvalidArgument, "lzma2 encode props", err)
	}
	data, err := readAll(source, limits, "lzma2 encode")
	if err != nil {
		return Stats{}, err
	}
	out, err := lzma2.Encode(data, lzma2.EncodeOptions{Props: lzma.Default(dictSize), Level: defaultLevel})
	if err != nil {
		return Stats{}, newErr(InvalidArgument, "lzma2 encode", err)
	}
	n, err := writeAll(sink, out, limits, "lzma2 encode")
	if err != nil {
		return Stats{}, err
	}
	return Stats{InputBytes: int64(len(data)), OutputBytes: n}, nil
}

func (lzma2Codec) Decode(source io.Reader, sink io.Writer, props []byte, limits Limits) (Stats, error) {
	dictSize, err := lzma2DictSize(props)
	if err != nil {
		return Stats{}, newErr(InvalidArgument, "lzma2 decode props", err)
	}
	data, err := readAll(source, limits, "lzma2 decode")
	if err != nil {
		return Stats{}, err
	}
	out, err := lzma2.Decode(data, dictSize)
	if err != nil {
		return Stats{}, newErr(Corrupt, "lzma2 decode", err)
	}
	n, err := writeAll(sink, out, limits, "lzma2 decode")
	if err != nil {
		return Stats{}, err
	}
	return Stats{InputBytes: int64(len(data)), OutputBytes: n}, nil
}
