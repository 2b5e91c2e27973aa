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

// EncodeOptions configures Encode. Chain is the block's filter chain —
// zero or more preprocessing filters (Delta, a BCJ variant) followed by
// exactly one terminal codec record (IDLZMA2, IDLZMA, or IDStore).
// BlockSize splits data into independent blocks of at most that many
// uncompressed bytes each; zero means one block for the whole input.
type EncodeOptions struct {
	Chain     []FilterSpec
	Check     checksum.Type
	Level     int
	BlockSize int
}

// Encode produces a complete XZ stream: header, one block per
// BlockSize-sized slice of data, the index, and the footer.
func Encode(data []byte, opts EncodeOptions) ([]byte, error) {
	if err := validateChain(opts.Chain); err != nil {
		return nil, err
	}
	if !opts.Check.Valid() {
		return nil, ErrUnsupportedCheck
	}
	blockSize := opts.BlockSize
	if blockSize <= 0 {
		blockSize = len(data)
	}
	if blockSize <= 0 {
		blockSize = 1
	}
	terminal := opts.Chain[len(opts.Chain)-1]

	out := writeStreamHeader(nil, opts.Check)
	var records []indexRecord
	ip := uint32(0)

	for pos := 0; pos < len(data); {
		end := pos + blockSize
		if end > len(data) {
			end = len(data)
		}
		block := data[pos:end]

		filtered, err := runPreFilters(opts.Chain, block, ip, true)
		if err != nil {
			return nil, err
		}
		payload, err := runTerminalEncode(terminal, filtered, opts.Level)
		if err != nil {
			return nil, err
		}

		header := encodeBlockHeader(opts.Chain, uint64(len(payload)), uint64(len(block)))
		blockBytes := append(append([]byte(nil), header...), payload...)
		unpaddedSize := len(blockBytes)
		padded := binutil.RoundUp4(unpaddedSize)
		for len(blockBytes) < padded {
			blockBytes = append(blockBytes, 0)
		}

		var checkBytes []byte
		if h := checksum.New(opts.Check); h != nil {
			h.Write(block)
			checkBytes = h.Sum(nil)
		}
		blockBytes = append(blockBytes, checkBytes...)
		unpaddedSize += len(checkBytes)

		out = append(out, blockBytes...)
		records = append(records, indexRecord{
			UnpaddedSize:     uint64(unpaddedSize),
			UncompressedSize: uint64(len(block)),
		})

		ip += uint32(len(block))
		pos = end
	}

	idx := encodeIndex(records)
	out = append(out, idx...)
	out = writeStreamFooter(out, opts.Check, len(idx))
	return out, nil
}

// Decode validates and fully decompresses an XZ stream, checking every
// invariant section 4.8 lists: header/footer magics and CRCs, block
// header CRCs, per-block integrity checks, and that the index matches
// the blocks actually decoded.
func Decode(data []byte) ([]byte, error) {
	check, n, err := readStreamHeader(data)
	if err != nil {
		return nil, err
	}
	pos := n

	var out []byte
	var records []indexRecord
	ip := uint32(0)

	for {
		if pos >= len(data) {
			return nil, ErrBlockCorrupt
		}
		if data[pos] == 0x00 {
			break
		}

		hdr, hn, err := decodeBlockHeader(data[pos:])
		if err != nil {
			return nil, err
		}
		pos += hn

		compSize := int(hdr.CompressedSize)
		if compSize < 0 || pos+compSize > len(data) {
			return nil, ErrBlockCorrupt
		}
		payload := data[pos : pos+compSize]
		pos += compSize

		padded := binutil.RoundUp4(hn + compSize)
		padLen := padded - (hn + compSize)
		if pos+padLen > len(data) || !binutil.ZeroPad(data[pos:pos+padLen]) {
			return nil, ErrBlockCorrupt
		}
		pos += padLen

		checkSize := check.Size()
		if pos+checkSize > len(data) {
			return nil, ErrBlockCorrupt
		}
		checkBytes := data[pos : pos+checkSize]
		pos += checkSize

		terminal := hdr.Chain[len(hdr.Chain)-1]
		decoded, err := runTerminalDecode(terminal, payload, hdr.UncompressedSize)
		if err != nil {
			return nil, err
		}
		decoded, err = runPreFilters(hdr.Chain, decoded, ip, false)
		if err != nil {
			return nil, err
		}
		if uint64(len(decoded)) != hdr.UncompressedSize {
			return nil, ErrBlockCorrupt
		}

		if h := checksum.New(check); h != nil {
			h.Write(decoded)
			if !binutil.BytesEqual(h.Sum(nil), checkBytes) {
				return nil, ErrCheckMismatch
			}
		}

		out = append(out, decoded...)
		records = append(records, indexRecord{
			UnpaddedSize:     uint64(hn + compSize + checkSize),
			UncompressedSize: hdr.UncompressedSize,
		})
		ip += uint32(len(decoded))
	}

	idxRecords, idxLen, err := decodeIndex(data[pos:])
	if err != nil {
		return nil, err
	}
	pos += idxLen
	if len(idxRecords) != len(records) {
		return nil, ErrIndexMismatch
	}
	for i := range records {
		if records[i] != idxRecords[i] {
			return nil, ErrIndexMismatch
		}
	}

	footerCheck, footerIndexSize, err := readStreamFooter(data[pos:])
	if err != nil {
		return nil, err
	}
	if footerCheck != check {
		return nil, ErrUnsupportedCheck
	}
	if footerIndexSize != idxLen {
		return nil, ErrIndexMismatch
	}

	return out, nil
}
