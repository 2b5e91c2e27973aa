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

package xz

import (
	"github.com/archivekit/archivekit/filter"
	"github.com/archivekit/archivekit/lzma"
)

// StoreFilterSpec is the terminal "no-op" codec: the block payload is
// the uncompressed data verbatim.
func StoreFilterSpec() FilterSpec {
	return FilterSpec{ID: IDStore}
}

// LZMA2FilterSpec is the terminal LZMA2 codec, carrying only a
// dictionary size property as the wire format requires.
func LZMA2FilterSpec(dictSize int) FilterSpec {
	return FilterSpec{ID: IDLZMA2, Props: []byte{encodeDictSizeProp(dictSize)}}
}

// LZMAFilterSpec is the terminal raw-LZMA1 codec (not part of the real
// XZ format, carried the same way 7z carries its LZMA coder: the
// 5-byte property+dict-size header).
func LZMAFilterSpec(props lzma.Props) FilterSpec {
	return FilterSpec{ID: IDLZMA, Props: props.EncodeHeader()}
}

// DeltaFilterSpec is a preprocessing Delta filter entry (distance in
// [1,256]).
func DeltaFilterSpec(distance int) FilterSpec {
	if distance < 1 {
		distance = 1
	}
	if distance > 256 {
		distance = 256
	}
	return FilterSpec{ID: filter.IDDelta, Props: []byte{byte(distance - 1)}}
}

// BCJFilterSpec is a preprocessing BCJ-family filter entry; id must be
// one of the filter.IDBCJ* constants.
func BCJFilterSpec(id filter.ID) FilterSpec {
	return FilterSpec{ID: id}
}
