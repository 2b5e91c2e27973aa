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
	"encoding/binary"
	"fmt"
	"io"

	"github.com/archivekit/archivekit/filter"
	"github.com/archivekit/archivekit/internal/binutil"
)

// bcj2Codec wraps BCJ2 (section 4.7), whose decoder merges four
// independent sub-streams. A real 7z/xz container carries those four
// sub-streams as separate coder outputs wired together by the folder
// graph; this single source/sink codec instead self-frames them as
// [ip uint32 LE][outLen uint64 LE] followed by four
// (length uint64 LE, bytes) records in main/call/jump/rc order, so the
// codec contract's one byte-source/byte-sink pair still round-trips.
type bcj2Codec struct{}

func appendLenPrefixed(buf []byte, part []byte) []byte {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(part)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, part...)
}

func readLenPrefixed(buf []byte) (part []byte, rest []byte, err error) {
	if len(buf) < 8 {
		return nil, nil, fmt.Errorf("codec: bcj2 stream truncated reading length")
	}
	n := binary.LittleEndian.Uint64(buf[:8])
	buf = buf[8:]
	if uint64(len(buf)) < n {
		return nil, nil, fmt.Errorf("codec: bcj2 stream truncated reading %d bytes", n)
	}
	return buf[:n], buf[n:], nil
}

func (bcj2Codec) Encode(source io.Reader, sink io.Writer, props []byte, limits Limits) (Stats, error) {
	if len(props) != 4 {
		return Stats{}, newErr(InvalidArgument, "bcj2 encode props", fmt.Errorf("expected 4-byte ip, got %d", len(props)))
	}
	ip := binutil.Uint32LE(props)
	data, err := readAll(source, limits, "bcj2 encode")
	if err != nil {
		return Stats{}, err
	}
	main, call, jump, rc := filter.BCJ2Encode(data, ip)

	out := make([]byte, 0, 12+len(main)+len(call)+len(jump)+len(rc))
	var hdr [12]byte
	binary.LittleEndian.PutUint32(hdr[0:4], ip)
	binary.LittleEndian.PutUint64(hdr[4:12], uint64(len(data)))
	out = append(out, hdr[:]...)
	out = appendLenPrefixed(out, main)
	out = appendLenPrefixed(out, call)
	out = appendLenPrefixed(out, jump)
	out = appendLenPrefixed(out, rc)

	n, err := writeAll(sink, out, limits, "bcj2 encode")
	if err != nil {
		return Stats{}, err
	}
	return Stats{InputBytes: int64(len(data)), OutputBytes: n}, nil
}

func (bcj2Codec) Decode(source io.Reader, sink io.Writer, _ []byte, limits Limits) (Stats, error) {
	data, err := readAll(source, limits, "bcj2 decode")
	if err != nil {
		return Stats{}, err
	}
	if len(data) < 12 {
		return Stats{}, newErr(UnexpectedEOF, "bcj2 decode: missing header", nil)
	}
	ip := binary.LittleEndian.Uint32(data[0:4])
	outLen := int64(binary.LittleEndian.Uint64(data[4:12]))
	if err := limits.checkOutput(outLen, "bcj2 decode"); err != nil {
		return Stats{}, err
	}
	rest := data[12:]
	main, rest, err := readLenPrefixed(rest)
	if err != nil {
		return Stats{}, newErr(Corrupt, "bcj2 decode: main", err)
	}
	call, rest, err := readLenPrefixed(rest)
	if err != nil {
		return Stats{}, newErr(Corrupt, "bcj2 decode: call", err)
	}
	jump, rest, err := readLenPrefixed(rest)
	if err != nil {
		return Stats{}, newErr(Corrupt, "bcj2 decode: jump", err)
	}
	rc, _, err := readLenPrefixed(rest)
	if err != nil {
		return Stats{}, newErr(Corrupt, "bcj2 decode: rc", err)
	}

	out, err := filter.BCJ2Decode(main, call, jump, rc, ip, outLen)
	if err != nil {
		return Stats{}, newErr(Corrupt, "bcj2 decode", err)
	}
	n, err := writeAll(sink, out, limits, "bcj2 decode")
	if err != nil {
		return Stats{}, err
	}
	return Stats{InputBytes: int64(len(data)), OutputBytes: n}, nil
}
