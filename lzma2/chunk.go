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

// Package lzma2 implements the chunked LZMA2 container: the control-byte
// dispatch, size fields and reset semantics of section 4.5, layered over
// the lzma package's codec.
package lzma2

import (
	"errors"
	"fmt"
)

// ErrCorrupt is returned for a malformed control byte, a size field that
// would exceed its cap, or a chunk referencing unset properties.
var ErrCorrupt = errors.New("lzma2: corrupt chunk")

// Per section 3, "LZMA2 chunk": uncompressed_size in [1, 2^21] overall,
// but an individual uncompressed (store) chunk caps at 2^16 since it
// only carries a 2-byte size field; a compressed (LZMA) chunk's payload
// caps at 2^16 for the same reason.
const (
	MaxUncompressedChunk = 1 << 21
	MaxStoreChunk        = 1 << 16
	MaxCompressedChunk   = 1 << 16
)

// kind distinguishes the chunk variants section 3 enumerates, one value
// per combination of chunk type and resets performed.
type kind int

const (
	kindEndOfStream kind = iota
	kindUncompressedNoReset
	kindUncompressedDictReset
	kindLZMANoReset
	kindLZMAStateReset
	kindLZMAStatePropsReset
	kindLZMADictStatePropsReset
)

func (k kind) isLZMA() bool {
	return k == kindLZMANoReset || k == kindLZMAStateReset ||
		k == kindLZMAStatePropsReset || k == kindLZMADictStatePropsReset
}

func (k kind) resetsDict() bool  { return k == kindLZMADictStatePropsReset }
func (k kind) resetsState() bool {
	return k == kindLZMAStateReset || k == kindLZMAStatePropsReset || k == kindLZMADictStatePropsReset
}
func (k kind) resetsProps() bool {
	return k == kindLZMAStatePropsReset || k == kindLZMADictStatePropsReset
}

// chunkHeader is the parsed form of a chunk's fixed-size fields, before
// its variable-length payload.
type chunkHeader struct {
	k                kind
	uncompressedSize int // valid for all but end-of-stream
	compressedSize   int // valid for LZMA chunks only
	propsByte        byte
	hasProps         bool
}

// parseControlByte classifies the first byte of a chunk.
func parseControlByte(cb byte) (kind, error) {
	switch {
	case cb == 0x00:
		return kindEndOfStream, nil
	case cb == 0x01:
		return kindUncompressedDictReset, nil
	case cb == 0x02:
		return kindUncompressedNoReset, nil
	case cb&0x80 != 0:
		switch (cb >> 5) & 0x03 {
		case 0:
			return kindLZMANoReset, nil
		case 1:
			return kindLZMAStateReset, nil
		case 2:
			return kindLZMAStatePropsReset, nil
		default:
			return kindLZMADictStatePropsReset, nil
		}
	default:
		return 0, fmt.Errorf("%w: invalid control byte 0x%02x", ErrCorrupt, cb)
	}
}

// readChunkHeader parses one chunk's header starting at buf[0] (the
// control byte) and returns the header plus the number of header bytes
// consumed (the payload follows immediately after).
func readChunkHeader(buf []byte) (chunkHeader, int, error) {
	if len(buf) < 1 {
		return chunkHeader{}, 0, fmt.Errorf("%w: truncated control byte", ErrCorrupt)
	}
	k, err := parseControlByte(buf[0])
	if err != nil {
		return chunkHeader{}, 0, err
	}
	if k == kindEndOfStream {
		return chunkHeader{k: k}, 1, nil
	}

	if !k.isLZMA() {
		if len(buf) < 3 {
			return chunkHeader{}, 0, fmt.Errorf("%w: truncated uncompressed chunk size", ErrCorrupt)
		}
		size := (int(buf[1])<<8 | int(buf[2])) + 1
		return chunkHeader{k: k, uncompressedSize: size}, 3, nil
	}

	if len(buf) < 5 {
		return chunkHeader{}, 0, fmt.Errorf("%w: truncated LZMA chunk header", ErrCorrupt)
	}
	sizeHigh := int(buf[0] & 0x1F)
	uSize := (sizeHigh<<16 | int(buf[1])<<8 | int(buf[2])) + 1
	cSize := (int(buf[3])<<8 | int(buf[4])) + 1
	h := chunkHeader{k: k, uncompressedSize: uSize, compressedSize: cSize}
	n := 5
	if k.resetsProps() {
		if len(buf) < 6 {
			return chunkHeader{}, 0, fmt.Errorf("%w: truncated property byte", ErrCorrupt)
		}
		h.propsByte = buf[5]
		h.hasProps = true
		n = 6
	}
	return h, n, nil
}

// writeChunkControlHeader appends the header bytes for an encoder-side
// chunk and returns the updated buffer.
func writeChunkControlHeader(buf []byte, h chunkHeader) []byte {
	switch h.k {
	case kindEndOfStream:
		return append(buf, 0x00)
	case kindUncompressedDictReset, kindUncompressedNoReset:
		cb := byte(0x02)
		if h.k == kindUncompressedDictReset {
			cb = 0x01
		}
		size := h.uncompressedSize - 1
		return append(buf, cb, byte(size>>8), byte(size))
	default:
		resetBits := byte(0)
		switch h.k {
		case kindLZMAStateReset:
			resetBits = 1
		case kindLZMAStatePropsReset:
			resetBits = 2
		case kindLZMADictStatePropsReset:
			resetBits = 3
		}
		uSize := h.uncompressedSize - 1
		cSize := h.compressedSize - 1
		cb := 0x80 | (resetBits << 5) | byte((uSize>>16)&0x1F)
		buf = append(buf, cb, byte(uSize>>8), byte(uSize), byte(cSize>>8), byte(cSize))
		if h.hasProps {
			buf = append(buf, h.propsByte)
		}
		return buf
	}
}
