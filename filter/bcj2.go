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

package filter

import (
	"errors"
	"fmt"

	"github.com/archivekit/archivekit/rangecoder"
)

// ErrBCJ2Truncated is returned when a BCJ2 sub-stream runs out of bytes
// before the merge control model says it should.
var ErrBCJ2Truncated = errors.New("filter: bcj2 stream truncated")

// numBCJ2Probs is the 258-probability merge model section 4.7 names:
// one context per possible byte preceding an E8 (CALL) opcode, plus one
// each for E9 (JMP) and the two-byte 0F 8x (Jcc) form.
const numBCJ2Probs = 256 + 2

const (
	bcj2CtxJmp = 256
	bcj2CtxJcc = 257
)

// BCJ2Decode reconstructs the original stream from the four BCJ2
// sub-streams (section 4.7): main carries the bulk of the data and
// untouched opcode bytes, call/jump carry the absolute addresses the
// encoder pulled out of convertible CALL/JMP targets, and rc carries
// the range-coded decisions of which occurrences were converted.
// outLen is the declared uncompressed size of the full merged stream.
func BCJ2Decode(main, call, jump, rc []byte, ip uint32, outLen int64) ([]byte, error) {
	var dec rangecoder.Decoder
	if err := dec.Init(rc); err != nil {
		return nil, err
	}
	probs := rangecoder.NewProbs(numBCJ2Probs)

	out := make([]byte, 0, outLen)
	callPos, jumpPos := 0, 0
	var prevByte byte
	mi := 0

	for int64(len(out)) < outLen {
		if mi >= len(main) {
			return out, fmt.Errorf("%w: main stream exhausted", ErrBCJ2Truncated)
		}
		b := main[mi]
		mi++
		out = append(out, b)
		cur := prevByte
		prevByte = b

		ctx := -1
		switch {
		case b == 0xE8:
			ctx = int(cur)
		case b == 0xE9:
			ctx = bcj2CtxJmp
		case cur == 0x0F && b&0xF0 == 0x80:
			ctx = bcj2CtxJcc
		}
		if ctx < 0 || int64(len(out))+4 > outLen {
			continue
		}

		if dec.DecodeBit(&probs[ctx]) == 0 {
			continue
		}

		var src []byte
		if b == 0xE8 {
			if callPos+4 > len(call) {
				return out, fmt.Errorf("%w: call stream exhausted", ErrBCJ2Truncated)
			}
			src = call[callPos : callPos+4]
			callPos += 4
		} else {
			if jumpPos+4 > len(jump) {
				return out, fmt.Errorf("%w: jump stream exhausted", ErrBCJ2Truncated)
			}
			src = jump[jumpPos : jumpPos+4]
			jumpPos += 4
		}
		dest := uint32(src[0])<<24 | uint32(src[1])<<16 | uint32(src[2])<<8 | uint32(src[3])
		rel := dest - (ip + uint32(len(out)) + 4)
		out = append(out, byte(rel), byte(rel>>8), byte(rel>>16), byte(rel>>24))
		prevByte = byte(rel >> 24)
	}
	return out, nil
}

// BCJ2Encode splits data into the four BCJ2 sub-streams, the inverse of
// BCJ2Decode. A CALL/JMP/Jcc occurrence is converted (its relative
// displacement replaced by an absolute address moved to the call/jump
// stream) whenever the resulting absolute address's high byte is 0x00
// or 0xFF, the same heuristic section 4.7's plain BCJ filters use.
func BCJ2Encode(data []byte, ip uint32) (main, call, jump, rc []byte) {
	var enc rangecoder.Encoder
	enc.Init()
	probs := rangecoder.NewProbs(numBCJ2Probs)

	var prevByte byte
	i := 0
	for i < len(data) {
		b := data[i]
		i++
		main = append(main, b)
		cur := prevByte
		prevByte = b

		ctx := -1
		switch {
		case b == 0xE8:
			ctx = int(cur)
		case b == 0xE9:
			ctx = bcj2CtxJmp
		case cur == 0x0F && b&0xF0 == 0x80:
			ctx = bcj2CtxJcc
		}
		if ctx < 0 || i+4 > len(data) {
			continue
		}

		rel := uint32(data[i]) | uint32(data[i+1])<<8 | uint32(data[i+2])<<16 | uint32(data[i+3])<<24
		dest := rel + (ip + uint32(i) + 4)
		if !test86MSByte(byte(dest >> 24)) {
			enc.EncodeBit(&probs[ctx], 0)
			continue
		}
		enc.EncodeBit(&probs[ctx], 1)

		addr := []byte{byte(dest >> 24), byte(dest >> 16), byte(dest >> 8), byte(dest)}
		if b == 0xE8 {
			call = append(call, addr...)
		} else {
			jump = append(jump, addr...)
		}
		prevByte = byte(rel >> 24)
		i += 4
	}
	enc.Finalize()
	rc = enc.Bytes()
	return main, call, jump, rc
}
