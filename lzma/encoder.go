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

import (
	"github.com/archivekit/archivekit/lzwindow"
	"github.com/archivekit/archivekit/rangecoder"
)

// Encoder holds one block's worth of LZMA encode state, the mirror of
// Decoder: probability models, packet state, rep distances, plus the
// match finder over the literal input buffer (the encoder's "window" is
// simply the plaintext itself, since encode never needs a bounded ring
// buffer the way decode's reconstructed output does).
type Encoder struct {
	props    Props
	level    int
	m        *models
	st       state
	rp       reps
	rc       rangecoder.Encoder
	endMark  bool
}

// NewEncoder allocates an encoder for the given properties and match
// finder effort level (1-9, per lzwindow.NewFinder).
func NewEncoder(props Props, level int) *Encoder {
	return &Encoder{props: props, level: level, m: newModels(props)}
}

// ResetState mirrors Decoder.ResetState, used between LZMA2 chunks that
// keep the dictionary but reset the probability models.
func (e *Encoder) ResetState() {
	e.m.resetState()
	e.st = stLitLit
	e.rp = reps{}
}

// ResetProps mirrors Decoder.ResetProps.
func (e *Encoder) ResetProps(p Props) {
	e.props = p
	e.m = newModels(p)
	e.st = stLitLit
	e.rp = reps{}
}

// EncodeEndMarker controls whether Encode appends the ~0u32 end-of-
// stream match after the literal data, required only when the
// uncompressed size is not carried out-of-band (section 4.4).
func (e *Encoder) EncodeEndMarker(b bool) { e.endMark = b }

// Encode compresses all of data with a simple greedy parse: at each
// position, take the match finder's best match if it is at least
// MinMatchLen, else emit a literal. The finder itself implements the
// lazy stateful-object contract (section 4.3); the parse built on top
// of it here is intentionally greedy, not optimal-parse, matching the
// baseline behavior reference encoders fall back to at low levels.
func (e *Encoder) Encode(data []byte) []byte {
	e.rc.Init()
	finder := lzwindow.NewFinder(data, e.props.DictSize, e.level)

	pos := 0
	for pos < len(data) {
		posState := uint32(pos) & e.props.posMask()
		m, ok := finder.FindMatch()

		if repLen, repIdx, repOK := e.bestRepMatch(data, pos); repOK && (!ok || repLen >= m.Length) {
			e.encodeRepMatch(posState, repIdx, repLen)
			finder.Advance(repLen)
			pos += repLen
			continue
		}

		if ok && m.Length >= matchMinLen {
			e.encodeNewMatch(posState, m)
			finder.Advance(m.Length)
			pos += m.Length
			continue
		}

		e.encodeLit(data, pos)
		finder.Advance(1)
		pos++
	}

	if e.endMark {
		e.encodeEndMarker(uint32(pos) & e.props.posMask())
	}
	e.rc.Finalize()
	return e.rc.Bytes()
}

// bestRepMatch checks whether continuing one of the four cached
// distances out-runs a fresh match, the cheap win rep-matches exist for.
func (e *Encoder) bestRepMatch(data []byte, pos int) (length int, idx int, ok bool) {
	best := 0
	bestIdx := -1
	for i, d := range e.rp {
		distBack := int(d) + 1
		start := pos - distBack
		if start < 0 {
			continue
		}
		l := 0
		for pos+l < len(data) && l < lzwindow.MaxMatchLen && data[start+l] == data[pos+l] {
			l++
		}
		minLen := matchMinLen
		if i == 0 {
			minLen = 1
		}
		if l < minLen {
			continue
		}
		if l > best {
			best = l
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return 0, 0, false
	}
	return best, bestIdx, true
}

func (e *Encoder) encodeLit(data []byte, pos int) {
	posState := uint32(pos) & e.props.posMask()
	e.rc.EncodeBit(&e.m.isMatch[e.st][posState], 0)

	var prevByte byte
	if pos > 0 {
		prevByte = data[pos-1]
	}
	ls := litState(e.props, uint32(pos), prevByte)
	probs := e.m.literal[ls][:]
	sym := data[pos]

	if e.st.isLiteral() {
		encodeLiteral(&e.rc, probs, sym)
	} else {
		distBack := int(e.rp[0]) + 1
		matchByte := byte(0)
		if pos-distBack >= 0 {
			matchByte = data[pos-distBack]
		}
		encodeMatchedLiteral(&e.rc, probs, matchByte, sym)
	}
	e.st = e.st.afterLiteral()
}

func (e *Encoder) encodeNewMatch(posState uint32, m lzwindow.Match) {
	e.rc.EncodeBit(&e.m.isMatch[e.st][posState], 1)
	e.rc.EncodeBit(&e.m.isRep[e.st], 0)

	lenMinus2 := uint32(m.Length - matchMinLen)
	encodeLen(&e.rc, e.m.matchLen, posState, lenMinus2)
	encodeDistance(&e.rc, e.m, lenMinus2, uint32(m.Distance-1))
	e.rp.pushNew(uint32(m.Distance - 1))
	e.st = e.st.afterMatch()
}

func (e *Encoder) encodeRepMatch(posState uint32, idx, length int) {
	e.rc.EncodeBit(&e.m.isMatch[e.st][posState], 1)
	e.rc.EncodeBit(&e.m.isRep[e.st], 1)

	if idx == 0 {
		e.rc.EncodeBit(&e.m.isRepG0[e.st], 0)
		if length == 1 {
			e.rc.EncodeBit(&e.m.isRep0Long[e.st][posState], 0)
			e.st = e.st.afterShortRep()
			return
		}
		e.rc.EncodeBit(&e.m.isRep0Long[e.st][posState], 1)
	} else {
		e.rc.EncodeBit(&e.m.isRepG0[e.st], 1)
		if idx == 1 {
			e.rc.EncodeBit(&e.m.isRepG1[e.st], 0)
		} else {
			e.rc.EncodeBit(&e.m.isRepG1[e.st], 1)
			e.rc.EncodeBit(&e.m.isRepG2[e.st], boolToBit(idx == 3))
		}
	}
	e.rp.useRep(idx)
	lenMinus2 := uint32(length - matchMinLen)
	encodeLen(&e.rc, e.m.repLen, posState, lenMinus2)
	e.st = e.st.afterRep()
}

func (e *Encoder) encodeEndMarker(posState uint32) {
	e.rc.EncodeBit(&e.m.isMatch[e.st][posState], 1)
	e.rc.EncodeBit(&e.m.isRep[e.st], 0)
	encodeLen(&e.rc, e.m.matchLen, posState, 0)
	encodeDistance(&e.rc, e.m, 0, EndMarkerDistance)
}

func boolToBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
