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

	"github.com/archivekit/archivekit/checksum"
)

var headerMagic = [6]byte{0xFD, '7', 'z', 'X', 'Z', 0x00}
var footerMagic = [2]byte{'Y', 'Z'}

const (
	streamHeaderSize = 12 // magic(6) + flags(2) + crc32(4)
	streamFooterSize = 12 // crc32(4) + backward_size(4) + flags(2) + magic(2)
)

// writeStreamHeader appends the 12-byte XZ stream header for check.
func writeStreamHeader(buf []byte, check checksum.Type) []byte {
	buf = append(buf, headerMagic[:]...)
	flags := [2]byte{0, byte(check)}
	buf = append(buf, flags[:]...)
	crc := crc32.ChecksumIEEE(flags[:])
	var crcBuf [4]byte
	binary.LittleEndian.PutUint32(crcBuf[:], crc)
	return append(buf, crcBuf[:]...)
}

// readStreamHeader validates and parses the stream header at the start
// of buf, returning the check type and bytes consumed.
func readStreamHeader(buf []byte) (checksum.Type, int, error) {
	if len(buf) < streamHeaderSize {
		return 0, 0, ErrInvalidMagic
	}
	var magic [6]byte
	copy(magic[:], buf[:6])
	if magic != headerMagic {
		return 0, 0, ErrInvalidMagic
	}
	flags := buf[6:8]
	if flags[0] != 0 || flags[1]&0xF0 != 0 {
		return 0, 0, ErrUnsupportedVersion
	}
	check := checksum.Type(flags[1] & 0x0F)
	if !check.Valid() {
		return 0, 0, ErrUnsupportedCheck
	}
	wantCRC := crc32.ChecksumIEEE(flags)
	gotCRC := binary.LittleEndian.Uint32(buf[8:12])
	if wantCRC != gotCRC {
		return 0, 0, ErrBlockCorrupt
	}
	return check, streamHeaderSize, nil
}

// writeStreamFooter appends the 12-byte stream footer. indexSize is the
// exact byte length of the index record (before its own padding, which
// is already included since the index is 4-byte aligned by
// construction); backward_size is stored as (indexSize/4)-1.
func writeStreamFooter(buf []byte, check checksum.Type, indexSize int) []byte {
	backward := uint32(indexSize/4 - 1)
	var body [8]byte
	binary.LittleEndian.PutUint32(body[0:4], backward)
	body[4] = 0
	body[5] = byte(check)
	crc := crc32.ChecksumIEEE(body[:6])
	var crcBuf [4]byte
	binary.LittleEndian.PutUint32(crcBuf[:], crc)
	buf = append(buf, crcBuf[:]...)
	buf = append(buf, body[:6]...)
	return append(buf, footerMagic[:]...)
}

// readStreamFooter validates and parses the trailing 12-byte footer,
// returning the check type and the index size it commits to.
func readStreamFooter(buf []byte) (checksum.Type, int, error) {
	if len(buf) < streamFooterSize {
		return 0, 0, ErrBlockCorrupt
	}
	gotCRC := binary.LittleEndian.Uint32(buf[0:4])
	body := buf[4:10]
	wantCRC := crc32.ChecksumIEEE(body)
	if gotCRC != wantCRC {
		return 0, 0, ErrBlockCorrupt
	}
	if body[4] != 0 {
		return 0, 0, ErrUnsupportedVersion
	}
	check := checksum.Type(body[5])
	if !check.Valid() {
		return 0, 0, ErrUnsupportedCheck
	}
	var magic [2]byte
	copy(magic[:], buf[10:12])
	if magic != footerMagic {
		return 0, 0, ErrInvalidMagic
	}
	backward := binary.LittleEndian.Uint32(body[0:4])
	indexSize := (int(backward) + 1) * 4
	return check, indexSize, nil
}
