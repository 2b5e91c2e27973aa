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

// EndMarkerDistance is the sentinel zero-based distance (~0u32) LZMA
// encodes in place of a real match to signal end-of-stream, per section
// 4.4's termination rule.
const EndMarkerDistance = 0xFFFFFFFF

func encodeDistance(e *rangecoder.Encoder, m *models, lenMinus2, dist uint32) {
	lenState := getLenToPosState(lenMinus2)
	slot := posSlot(dist)
	bitTreeEncode(e, m.posSlot[lenState][:], numPosSlotBits, slot)

	if slot < 4 {
		return
	}
	numDirect := directBitsForSlot(slot)
	base := baseForSlot(slot)
	rest := dist - base
	if slot < endPosModelIndex {
		probsOffset := base - slot - 1
		bitTreeReverseEncode(e, m.specPos[probsOffset:], numDirect, rest)
		return
	}
	e.EncodeDirectBits(rest>>numAlignBits, numDirect-numAlignBits)
	bitTreeReverseEncode(e, m.align[:], numAlignBits, rest&(alignTableSize-1))
}

func decodeDistance(d *rangecoder.Decoder, m *models, lenMinus2 uint32) uint32 {
	lenState := getLenToPosState(lenMinus2)
	slot := bitTreeDecode(d, m.posSlot[lenState][:], numPosSlotBits)

	if slot < 4 {
		return slot
	}
	numDirect := directBitsForSlot(slot)
	base := baseForSlot(slot)
	if slot < endPosModelIndex {
		probsOffset := base - slot - 1
		return base + bitTreeReverseDecode(d, m.specPos[probsOffset:], numDirect)
	}
	high := d.DecodeDirectBits(numDirect - numAlignBits)
	low := bitTreeReverseDecode(d, m.align[:], numAlignBits)
	return base + (high << numAlignBits) + low
}
