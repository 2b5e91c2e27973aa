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
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/archivekit/archivekit/internal/binutil"
	"github.com/archivekit/archivekit/lzma"
	"github.com/archivekit/archivekit/lzma2"
)

// blockHeader is the parsed form of a block's header record.
type blockHeader struct {
	Chain            []FilterSpec
	CompressedSize   uint64
	UncompressedSize uint64
}

// decodeDictSizeProp and encodeDictSizeProp implement the single-byte
// dictionary size encoding the LZMA2 filter property uses: byte 40
// means 0xFFFFFFFF, otherwise dict_size = (2|(b&1)) << (b/2+11).
func decodeDictSizeProp(b byte) (int, error) {
	if b > 40 {
		return 0, fmt.Errorf("%w: lzma2 dict size property %d", ErrBlockCorrupt, b)
	}
	if b == 40 {
		return 0xFFFFFFFF, nil
	}
	return int(2|(uint32(b)&1)) << (uint(b)/2 + 11), nil
}

func encodeDictSizeProp(dictSize int) byte {
	for b := 0; b < 40; b++ {
		size, _ := decodeDictSizeProp(byte(b))
		if size >= dictSize {
			return byte(b)
		}
	}
	return 40
}

func encodeBlockHeader(chain []FilterSpec, compressedSize, uncompressedSize uint64) []byte {
	var body []byte
	flags := byte(len(chain)-1) & 0x03
	flags |= 0x40
	flags |= 0x80
	body = append(body, flags)
	body = appendVLI(body, compressedSize)
	body = appendVLI(body, uncompressedSize)
	body = encodeFilterChain(body, chain)

	realSize := 1 + len(body) + 4
	padded := binutil.RoundUp4(realSize)
	for len(body) < padded-5 {
		body = append(body, 0)
	}
	sizeByte := byte(padded/4 - 1)

	header := make([]byte, 0, padded+4)
	header = append(header, sizeByte)
	header = append(header, body...)
	var crcBuf [4]byte
	binary.LittleEndian.PutUint32(crcBuf[:], crc32.ChecksumIEEE(header))
	return append(header, crcBuf[:]...)
}

func decodeBlockHeader(buf []byte) (blockHeader, int, error) {
	if len(buf) < 4 {
		return blockHeader{}, 0, ErrBlockCorrupt
	}
	sizeByte := buf[0]
	headerSize := (int(sizeByte) + 1) * 4
	if headerSize > len(buf) {
		return blockHeader{}, 0, ErrBlockCorrupt
	}
	raw := buf[:headerSize]
	crcGot := binary.LittleEndian.Uint32(raw[headerSize-4:])
	if crc32.ChecksumIEEE(raw[:headerSize-4]) != crcGot {
		return blockHeader{}, 0, ErrBlockCorrupt
	}
	body := raw[1 : headerSize-4]
	if len(body) < 1 {
		return blockHeader{}, 0, ErrBlockCorrupt
	}
	flags := body[0]
	numFilters := int(flags&0x03) + 1
	hasCompressed := flags&0x40 != 0
	hasUncompressed := flags&0x80 != 0
	pos := 1

	var compSize, uncompSize uint64
	if hasCompressed {
		v, n, err := readVLI(body[pos:])
		if err != nil {
			return blockHeader{}, 0, err
		}
		compSize, pos = v, pos+n
	}
	if hasUncompressed {
		v, n, err := readVLI(body[pos:])
		if err != nil {
			return blockHeader{}, 0, err
		}
		uncompSize, pos = v, pos+n
	}
	chain, n, err := decodeFilterChain(body[pos:], numFilters)
	if err != nil {
		return blockHeader{}, 0, err
	}
	pos += n
	if !binutil.ZeroPad(body[pos:]) {
		return blockHeader{}, 0, ErrBlockCorrupt
	}
	if err := validateChain(chain); err != nil {
		return blockHeader{}, 0, err
	}
	if !hasCompressed || !hasUncompressed {
		return blockHeader{}, 0, ErrBlockCorrupt
	}
	return blockHeader{Chain: chain, CompressedSize: compSize, UncompressedSize: uncompSize}, headerSize, nil
}

// runTerminalDecode applies the chain's terminal (last) codec.
func runTerminalDecode(rec FilterSpec, payload []byte, uncompressedSize uint64) ([]byte, error) {
	switch rec.ID {
	case IDStore:
		return payload, nil
	case IDLZMA2:
		if len(rec.Props) < 1 {
			return nil, ErrBlockCorrupt
		}
		dictSize, err := decodeDictSizeProp(rec.Props[0])
		if err != nil {
			return nil, err
		}
		return lzma2.Decode(payload, dictSize)
	case IDLZMA:
		props, err := lzma.DecodeHeader(rec.Props)
		if err != nil {
			return nil, err
		}
		dec := lzma.NewDecoder(props)
		return dec.Decode(payload, int64(uncompressedSize))
	default:
		return nil, ErrUnsupportedFilter
	}
}

func runTerminalEncode(rec FilterSpec, data []byte, level int) ([]byte, error) {
	switch rec.ID {
	case IDStore:
		return data, nil
	case IDLZMA2:
		if len(rec.Props) < 1 {
			return nil, ErrBlockCorrupt
		}
		dictSize, err := decodeDictSizeProp(rec.Props[0])
		if err != nil {
			return nil, err
		}
		return lzma2.Encode(data, lzma2.EncodeOptions{Props: lzma.Default(dictSize), Level: level})
	case IDLZMA:
		props, err := lzma.DecodeHeader(rec.Props)
		if err != nil {
			return nil, err
		}
		enc := lzma.NewEncoder(props, level)
		return enc.Encode(data), nil
	default:
		return nil, ErrUnsupportedFilter
	}
}
