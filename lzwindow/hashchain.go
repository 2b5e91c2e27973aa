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

package lzwindow

const hashChainTableBits = 16

// hashChain implements the level 1-4 match finder: a hash table of
// 4-byte prefixes, each bucket a singly-linked chain of prior positions
// sharing that hash, walked back at most maxDepth links or until a
// match of niceLen or longer is found.
type hashChain struct {
	data     []byte
	dictSize int
	niceLen  int
	maxDepth int
	pos      int

	head []int32 // hash -> most recent position, -1 if none
	prev []int32 // position -> previous position with same hash, -1 if none
}

func newHashChain(data []byte, dictSize, niceLen, maxDepth int) *hashChain {
	h := &hashChain{
		data:     data,
		dictSize: dictSize,
		niceLen:  niceLen,
		maxDepth: maxDepth,
		head:     make([]int32, 1<<hashChainTableBits),
		prev:     make([]int32, len(data)),
	}
	for i := range h.head {
		h.head[i] = -1
	}
	return h
}

func (h *hashChain) Pos() int { return h.pos }

func (h *hashChain) FindMatch() (Match, bool) {
	pos := h.pos
	if pos+4 > len(h.data) {
		return Match{}, false
	}
	hv := hash4(h.data, pos) & (1<<hashChainTableBits - 1)

	var best Match
	depth := h.maxDepth
	cand := h.head[hv]
	for cand >= 0 && depth > 0 {
		dist := pos - int(cand)
		if dist > h.dictSize {
			break
		}
		l := matchLenAt(h.data, int(cand), pos)
		if l >= MinMatchLen && (l > best.Length || (l == best.Length && dist < best.Distance)) {
			best = Match{Distance: dist, Length: l}
			if l >= h.niceLen {
				break
			}
		}
		cand = h.prev[cand]
		depth--
	}
	if best.Length < MinMatchLen {
		return Match{}, false
	}
	return best, true
}

func (h *hashChain) Advance(n int) {
	end := h.pos + n
	for p := h.pos; p < end && p+4 <= len(h.data); p++ {
		hv := hash4(h.data, p) & (1<<hashChainTableBits - 1)
		h.prev[p] = h.head[hv]
		h.head[hv] = int32(p)
	}
	h.pos = end
}
