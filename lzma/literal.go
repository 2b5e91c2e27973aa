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

// encodeLiteral writes a byte through the plain 8-bit tree, used when
// the previous packet was not a match (state.isLiteral() with no prior
// match byte to correlate against).
func encodeLiteral(e *rangecoder.Encoder, probs []rangecoder.Prob, sym byte) {
	bitTreeEncode(e, probs, 8, uint32(sym))
}

func decodeLiteral(d *rangecoder.Decoder, probs []rangecoder.Prob) byte {
	return byte(bitTreeDecode(d, probs, 8))
}

// encodeMatchedLiteral writes a byte following a match packet, mixing
// in matchByte (the byte at the rep0 distance) to bias the probability
// tree until the coded bits first diverge from it, after which it falls
// back to the plain tree for the remaining bits.
func encodeMatchedLiteral(e *rangecoder.Encoder, probs []rangecoder.Prob, matchByte, sym byte) {
	context := uint32(1)
	mismatch := false
	for i := 7; i >= 0; i-- {
		bit := uint32(sym>>uint(i)) & 1
		if !mismatch {
			matchBit := uint32(matchByte>>uint(i)) & 1
			idx := 0x100 + (matchBit << 8) + context
			e.EncodeBit(&probs[idx], bit)
			if matchBit != bit {
				mismatch = true
			}
		} else {
			e.EncodeBit(&probs[context], bit)
		}
		context = (context << 1) | bit
	}
}

func decodeMatchedLiteral(d *rangecoder.Decoder, probs []rangecoder.Prob, matchByte byte) byte {
	context := uint32(1)
	mismatch := false
	for i := 7; i >= 0; i-- {
		var bit uint32
		if !mismatch {
			matchBit := uint32(matchByte>>uint(i)) & 1
			idx := 0x100 + (matchBit << 8) + context
			bit = d.DecodeBit(&probs[idx])
			if matchBit != bit {
				mismatch = true
			}
		} else {
			bit = d.DecodeBit(&probs[context])
		}
		context = (context << 1) | bit
	}
	return byte(context)
}
