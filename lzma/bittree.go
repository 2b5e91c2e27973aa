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

// bitTreeEncode encodes symbol (< 1<<numBits) MSB-first through a
// binary probability tree, used for length-high and literal bytes.
func bitTreeEncode(e *rangecoder.Encoder, probs []rangecoder.Prob, numBits int, symbol uint32) {
	m := uint32(1)
	for i := numBits - 1; i >= 0; i-- {
		bit := (symbol >> uint(i)) & 1
		e.EncodeBit(&probs[m], bit)
		m = (m << 1) | bit
	}
}

func bitTreeDecode(d *rangecoder.Decoder, probs []rangecoder.Prob, numBits int) uint32 {
	m := uint32(1)
	for i := 0; i < numBits; i++ {
		bit := d.DecodeBit(&probs[m])
		m = (m << 1) | bit
	}
	return m - (1 << uint(numBits))
}

// bitTreeReverseEncode encodes symbol LSB-first, used for the 4 distance
// alignment bits and the sub-numFullDistances specPos bits.
func bitTreeReverseEncode(e *rangecoder.Encoder, probs []rangecoder.Prob, numBits int, symbol uint32) {
	m := uint32(1)
	for i := 0; i < numBits; i++ {
		bit := symbol & 1
		symbol >>= 1
		e.EncodeBit(&probs[m], bit)
		m = (m << 1) | bit
	}
}

func bitTreeReverseDecode(d *rangecoder.Decoder, probs []rangecoder.Prob, numBits int) uint32 {
	m := uint32(1)
	var symbol uint32
	for i := 0; i < numBits; i++ {
		bit := d.DecodeBit(&probs[m])
		m = (m << 1) | bit
		symbol |= bit << uint(i)
	}
	return symbol
}
