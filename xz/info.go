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
	"github.com/archivekit/archivekit/checksum"
	"github.com/archivekit/archivekit/internal/binutil"
)

// BlockInfo summarizes one block's header without running any codec.
type BlockInfo struct {
	Filters          []FilterSpec
	CompressedSize   uint64
	UncompressedSize uint64
}

// Summary is the result of Inspect: the stream's check type and a
// per-block breakdown, cheap enough to compute without decompressing
// any block payload.
type Summary struct {
	Check  checksum.Type
	Blocks []BlockInfo
}

// Inspect walks a stream's header and block headers and reports their
// metadata, the way a "list contents" command needs without paying for
// a full Decode.
func Inspect(data []byte) (Summary, error) {
	check, n, err := readStreamHeader(data)
	if err != nil {
		return Summary{}, err
	}
	pos := n

	var blocks []BlockInfo
	for {
		if pos >= len(data) {
			return Summary{}, ErrBlockCorrupt
		}
		if data[pos] == 0x00 {
			break
		}

		hdr, hn, err := decodeBlockHeader(data[pos:])
		if err != nil {
			return Summary{}, err
		}
		pos += hn

		compSize := int(hdr.CompressedSize)
		if compSize < 0 || pos+compSize > len(data) {
			return Summary{}, ErrBlockCorrupt
		}
		pos += compSize

		padded := binutil.RoundUp4(hn + compSize)
		pos += padded - (hn + compSize)
		pos += check.Size()

		blocks = append(blocks, BlockInfo{
			Filters:          hdr.Chain,
			CompressedSize:   hdr.CompressedSize,
			UncompressedSize: hdr.UncompressedSize,
		})
	}

	return Summary{Check: check, Blocks: blocks}, nil
}
