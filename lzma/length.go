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

package lzma

import "github.com/archivekit/archivekit/rangecoder"

// encodeLen writes lenMinus2 (match length minus matchMinLen) through
// the three-tier low/mid/high coder, per section 4.4's length coding.
func encodeLen(e *rangecoder.Encoder, l *lenProbs, posState uint32, lenMinus2 uint32) {
	if lenMinus2 < lenLowSyms {
		e.EncodeBit(&l.choice, 0)
		bitTreeEncode(e, l.low[posState][:], lenLowBits, lenMinus2)
		return
	}
	e.EncodeBit(&l.choice, 1)
	lenMinus2 -= lenLowSyms
	if lenMinus2 < lenMidSyms {
		e.EncodeBit(&l.choice2, 0)
		bitTreeEncode(e, l.mid[posState][:], lenMidBits, lenMinus2)
		return
	}
	e.EncodeBit(&l.choice2, 1)
	lenMinus2 -= lenMidSyms
	bitTreeEncode(e, l.high[:], lenHighBits, lenMinus2)
}

func decodeLen(d *rangecoder.Decoder, l *lenProbs, posState uint32) uint32 {
	if d.DecodeBit(&l.choice) == 0 {
		return bitTreeDecode(d, l.low[posState][:], lenLowBits)
	}
	if d.DecodeBit(&l.choice2) == 0 {
		return lenLowSyms + bitTreeDecode(d, l.mid[posState][:], lenMidBits)
	}
	return lenLowSyms + lenMidSyms + bitTreeDecode(d, l.high[:], lenHighBits)
}
