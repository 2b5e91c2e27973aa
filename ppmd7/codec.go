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

package ppmd7

import "github.com/archivekit/archivekit/rangecoder"

// Encode compresses data with a fresh Model built to (order, memLimit);
// order<=0 or memLimit<=0 select the package defaults.
func Encode(data []byte, order, memLimit int) []byte {
	m := NewModel(order, memLimit)
	var rc rangecoder.Encoder
	rc.Init()
	for _, b := range data {
		encodeByte(m, &rc, b)
	}
	rc.Finalize()
	return rc.Bytes()
}

// Decode decompresses exactly outLen bytes, the containing block's
// declared uncompressed length (section 9's termination rule).
func Decode(compressed []byte, outLen int64, order, memLimit int) ([]byte, error) {
	m := NewModel(order, memLimit)
	var rc rangecoder.Decoder
	if err := rc.Init(compressed); err != nil {
		return nil, err
	}
	out := make([]byte, 0, outLen)
	for int64(len(out)) < outLen {
		out = append(out, decodeByte(m, &rc))
	}
	return out, nil
}

// encodeByte walks from the highest usable order down to the root,
// coding an escape bit at each context until sym is found, then updates
// every context walked through.
func encodeByte(m *Model, rc *rangecoder.Encoder, sym byte) {
	order := m.currentOrder()
	path := make([]int32, 0, order+1)

	for k := order; k >= 0; k-- {
		ctxIdx := m.contextFor(k)
		path = append(path, ctxIdx)
		ctx := &m.arena[ctxIdx]
		i := m.findState(ctx, sym)
		if i < 0 {
			rc.EncodeBit(&ctx.escape, 1)
			continue
		}
		rc.EncodeBit(&ctx.escape, 0)
		var cum uint32
		for j := 0; j < i; j++ {
			cum += ctx.states[j].freq
		}
		rc.EncodeFreq(cum, ctx.states[i].freq, ctx.sumFreq)
		bumpFound(ctx, i)
		for _, pIdx := range path[:len(path)-1] {
			m.addOrBumpState(pIdx, sym)
		}
		m.advance(sym)
		return
	}

	// Fell through the root: code the byte directly at a flat 1/256
	// distribution, per section 4.6.
	rc.EncodeDirectBits(uint32(sym), 8)
	for _, pIdx := range path {
		m.addOrBumpState(pIdx, sym)
	}
	m.advance(sym)
}

func decodeByte(m *Model, rc *rangecoder.Decoder) byte {
	order := m.currentOrder()
	path := make([]int32, 0, order+1)

	for k := order; k >= 0; k-- {
		ctxIdx := m.contextFor(k)
		path = append(path, ctxIdx)
		ctx := &m.arena[ctxIdx]
		if rc.DecodeBit(&ctx.escape) == 1 {
			continue
		}
		cum := rc.DecodeFreq(ctx.sumFreq)
		var run uint32
		i := 0
		for ; i < len(ctx.states); i++ {
			next := run + ctx.states[i].freq
			if cum < next {
				break
			}
			run = next
		}
		if i == len(ctx.states) {
			i = len(ctx.states) - 1
		}
		rc.NormalizeFreq(run, ctx.states[i].freq)
		sym := ctx.states[i].sym
		bumpFound(ctx, i)
		for _, pIdx := range path[:len(path)-1] {
			m.addOrBumpState(pIdx, sym)
		}
		m.advance(sym)
		return sym
	}

	sym := byte(rc.DecodeDirectBits(8))
	for _, pIdx := range path {
		m.addOrBumpState(pIdx, sym)
	}
	m.advance(sym)
	return sym
}

// bumpFound increments a symbol already found in ctx and rescales if
// its frequency table has grown past maxFreq.
func bumpFound(ctx *pmContext, i int) {
	ctx.states[i].freq += freqIncrement
	ctx.sumFreq += freqIncrement
	if ctx.sumFreq > maxFreq {
		rescale(ctx)
	}
}
