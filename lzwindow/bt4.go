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

const bt4TableBits = 17

// bt4 implements the level 5-9 match finder: a hash table of 4-byte
// prefixes whose buckets are binary search trees ordered by suffix, so
// a single walk both finds the best match and re-threads the tree with
// the new position, the classic combined insert-and-search used by
// reference BT4 implementations.
type bt4 struct {
	data     []byte
	dictSize int
	niceLen  int
	maxDepth int
	pos      int

	head  []int32
	left  []int32
	right []int32

	insertedUpTo int
	cached       Match
	cachedOK     bool
	cachedAtPos  int
}

func newBT4(data []byte, dictSize, niceLen, maxDepth int) *bt4 {
	t := &bt4{
		data:     data,
		dictSize: dictSize,
		niceLen:  niceLen,
		maxDepth: maxDepth,
		head:     make([]int32, 1<<bt4TableBits),
		left:     make([]int32, len(data)),
		right:    make([]int32, len(data)),
	}
	for i := range t.head {
		t.head[i] = -1
	}
	return t
}

func (t *bt4) Pos() int { return t.pos }

// insert inserts position p into its hash bucket's tree, returning the
// best match found during the same walk.
func (t *bt4) insert(p int) (Match, bool) {
	lenLimit := MaxMatchLen
	if rem := len(t.data) - p; rem < lenLimit {
		lenLimit = rem
	}
	if lenLimit < 4 {
		t.left[p] = -1
		t.right[p] = -1
		return Match{}, false
	}

	hv := hash4(t.data, p) & (1<<bt4TableBits - 1)
	curMatch := t.head[hv]
	t.head[hv] = int32(p)

	var (
		bestLen          int
		bestDist         int
		found            bool
		len0, len1       int
		ptr0Idx          = p
		ptr0Left         = false // right[p] is patched first
		ptr1Idx          = p
		ptr1Left         = true // left[p] is patched first
	)

	depth := t.maxDepth
	for curMatch >= 0 && depth > 0 && p-int(curMatch) < t.dictSize {
		depth--
		cm := int(curMatch)
		l := len0
		if len1 < l {
			l = len1
		}
		for l < lenLimit && t.data[cm+l] == t.data[p+l] {
			l++
		}
		if l > bestLen {
			bestLen = l
			bestDist = p - cm
			found = true
			if l >= t.niceLen || l >= lenLimit {
				patch(t.left, t.right, ptr1Idx, ptr1Left, t.left[cm])
				patch(t.left, t.right, ptr0Idx, ptr0Left, t.right[cm])
				curMatch = -1
				break
			}
		}
		if t.data[cm+l] < t.data[p+l] {
			patch(t.left, t.right, ptr1Idx, ptr1Left, curMatch)
			ptr1Idx, ptr1Left = cm, false
			curMatch = t.right[cm]
			len1 = l
		} else {
			patch(t.left, t.right, ptr0Idx, ptr0Left, curMatch)
			ptr0Idx, ptr0Left = cm, true
			curMatch = t.left[cm]
			len0 = l
		}
	}
	if curMatch != -1 || depth == 0 {
		patch(t.left, t.right, ptr1Idx, ptr1Left, -1)
		patch(t.left, t.right, ptr0Idx, ptr0Left, -1)
	}

	if !found || bestLen < MinMatchLen {
		return Match{}, false
	}
	return Match{Distance: bestDist, Length: bestLen}, true
}

func patch(left, right []int32, idx int, isLeft bool, v int32) {
	if isLeft {
		left[idx] = v
	} else {
		right[idx] = v
	}
}

func (t *bt4) ensureInserted() {
	for t.insertedUpTo <= t.pos {
		m, ok := t.insert(t.insertedUpTo)
		if t.insertedUpTo == t.pos {
			t.cached, t.cachedOK, t.cachedAtPos = m, ok, t.pos
		}
		t.insertedUpTo++
	}
}

func (t *bt4) FindMatch() (Match, bool) {
	if t.pos+4 > len(t.data) {
		return Match{}, false
	}
	t.ensureInserted()
	if t.cachedAtPos == t.pos {
		return t.cached, t.cachedOK
	}
	return Match{}, false
}

func (t *bt4) Advance(n int) {
	end := t.pos + n
	for t.insertedUpTo < end && t.insertedUpTo < len(t.data) {
		t.insert(t.insertedUpTo)
		t.insertedUpTo++
	}
	t.pos = end
}
