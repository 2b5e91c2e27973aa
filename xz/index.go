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
	"hash/crc32"

	"github.com/archivekit/archivekit/internal/binutil"
)

// indexRecord is one block's accounting entry in the stream index:
// its header+payload+check size (block padding excluded), and its
// uncompressed size.
type indexRecord struct {
	UnpaddedSize     uint64
	UncompressedSize uint64
}

// encodeIndex builds the index record: the zero byte marking "not a
// block header", the record count VLI, each record's two VLIs, zero
// padding to a 4-byte boundary, then a CRC32 of everything before it.
func encodeIndex(records []indexRecord) []byte {
	body := []byte{0x00}
	body = appendVLI(body, uint64(len(records)))
	for _, r := range records {
		body = appendVLI(body, r.UnpaddedSize)
		body = appendVLI(body, r.UncompressedSize)
	}
	padded := binutil.RoundUp4(len(body))
	for len(body) < padded {
		body = append(body, 0)
	}
	var crcBuf [4]byte
	binary.LittleEndian.PutUint32(crcBuf[:], crc32.ChecksumIEEE(body))
	return append(body, crcBuf[:]...)
}

// decodeIndex parses an index record from the start of buf, returning
// the records and the total bytes consumed (including the trailing
// CRC32 and any padding).
func decodeIndex(buf []byte) ([]indexRecord, int, error) {
	if len(buf) < 1 || buf[0] != 0x00 {
		return nil, 0, ErrIndexMismatch
	}
	count, n, err := readVLI(buf[1:])
	if err != nil {
		return nil, 0, err
	}
	pos := 1 + n
	records := make([]indexRecord, 0, count)
	for i := uint64(0); i < count; i++ {
		unpadded, n, err := readVLI(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += n
		uncompressed, n, err := readVLI(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += n
		records = append(records, indexRecord{UnpaddedSize: unpadded, UncompressedSize: uncompressed})
	}
	padded := binutil.RoundUp4(pos)
	if padded+4 > len(buf) {
		return nil, 0, ErrIndexMismatch
	}
	if !binutil.ZeroPad(buf[pos:padded]) {
		return nil, 0, ErrIndexMismatch
	}
	crcGot := binary.LittleEndian.Uint32(buf[padded : padded+4])
	if crc32.ChecksumIEEE(buf[:padded]) != crcGot {
		return nil, 0, ErrIndexMismatch
	}
	return records, padded + 4, nil
}
