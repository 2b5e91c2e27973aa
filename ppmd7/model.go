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

// Package ppmd7 implements a PPMd7-style variable-order context-tree
// model: contexts form a DAG addressed by arena index rather than
// pointer (section 9's "cyclic graphs" design note), each holding a
// per-symbol frequency table and an escape probability consulted by the
// range coder (rangecoder).
//
// Termination follows section 9's open-question resolution: the decoder
// relies on the containing block's declared uncompressed length, never
// an in-band end-of-stream escape.
//
// This implementation does not track PPMd's classic exclusion sets
// (symbols already tried at a higher order are not removed from lower
// orders' frequency tables); it is a faithful but simplified reading of
// section 4.6 that remains a correct, symmetric encode/decode pair.
package ppmd7

import "github.com/archivekit/archivekit/rangecoder"

const (
	// DefaultOrder matches the common PPMd7 configuration used by 7z.
	DefaultOrder = 6
	// DefaultMemLimit is the 16 MiB budget section 4.6 names.
	DefaultMemLimit = 16 << 20

	// maxFreq triggers the rescale section 3 defines once a context's
	// sumFreq exceeds it.
	maxFreq = 1 << 15
	// freqIncrement is added to a symbol's frequency each time it is
	// coded as "found" (section 4.6: "add 4 or 5 depending on variant").
	freqIncrement = 4
	// approxStateBytes estimates a symState's arena footprint for the
	// memory-limit check; approxCtxBytes adds the context header.
	approxStateBytes = 8
	approxCtxBytes   = 24
)

type symState struct {
	sym  byte
	freq uint32
}

type pmContext struct {
	suffix  int32 // -1 for the root's sentinel, per section 3
	sumFreq uint32
	escape  rangecoder.Prob
	states  []symState
}

// Model is one block's PPMd7 context tree. It is single-owner and
// block-scoped, like every core component (section 5).
type Model struct {
	order    int
	memLimit int
	arena    []pmContext
	index    map[string]int32
	history  []byte
	usedMem  int
}

// NewModel allocates a model with the given maximum context order and
// memory budget (bytes). order<=0 selects DefaultOrder; memLimit<=0
// selects DefaultMemLimit.
func NewModel(order, memLimit int) *Model {
	if order <= 0 {
		order = DefaultOrder
	}
	if memLimit <= 0 {
		memLimit = DefaultMemLimit
	}
	m := &Model{order: order, memLimit: memLimit}
	m.restart()
	return m
}

// restart clears the arena and history, the "rebuild from current state"
// recovery section 4.6 describes on arena exhaustion. Recent history is
// intentionally dropped along with the contexts it built, since the
// lost context statistics are what exhaustion means; both encoder and
// decoder trigger this at the identical, input-determined point, so the
// coded stream stays self-consistent.
func (m *Model) restart() {
	m.arena = make([]pmContext, 1, 4096)
	m.arena[0] = pmContext{suffix: -1, escape: rangecoder.ProbInitial}
	m.index = map[string]int32{"": 0}
	m.history = m.history[:0]
	m.usedMem = approxCtxBytes
}

// contextFor returns the arena index of the context representing the
// last k bytes of history, creating it (and any missing ancestors)
// on demand.
func (m *Model) contextFor(k int) int32 {
	if k == 0 {
		return 0
	}
	key := string(m.history[len(m.history)-k:])
	if idx, ok := m.index[key]; ok {
		return idx
	}
	parent := m.contextFor(k - 1)
	idx := int32(len(m.arena))
	m.arena = append(m.arena, pmContext{suffix: parent, escape: rangecoder.ProbInitial})
	m.index[key] = idx
	m.usedMem += approxCtxBytes
	return idx
}

func (m *Model) findState(ctx *pmContext, sym byte) int {
	for i := range ctx.states {
		if ctx.states[i].sym == sym {
			return i
		}
	}
	return -1
}

// addOrBumpState adds sym to ctx with freq=freqIncrement, or bumps its
// existing frequency by freqIncrement, rescaling if the context's total
// then exceeds maxFreq.
func (m *Model) addOrBumpState(ctxIdx int32, sym byte) {
	ctx := &m.arena[ctxIdx]
	if i := m.findState(ctx, sym); i >= 0 {
		ctx.states[i].freq += freqIncrement
	} else {
		ctx.states = append(ctx.states, symState{sym: sym, freq: freqIncrement})
		m.usedMem += approxStateBytes
	}
	ctx.sumFreq += freqIncrement
	if ctx.sumFreq > maxFreq {
		rescale(ctx)
	}
}

// rescale halves every frequency (minimum 1), per section 3's rescale
// rule, and recomputes sumFreq.
func rescale(ctx *pmContext) {
	var sum uint32
	for i := range ctx.states {
		f := (ctx.states[i].freq + 1) / 2
		if f < 1 {
			f = 1
		}
		ctx.states[i].freq = f
		sum += f
	}
	ctx.sumFreq = sum
}

func (m *Model) overBudget() bool {
	return m.usedMem > m.memLimit
}

// order currently usable given how much history has accumulated.
func (m *Model) currentOrder() int {
	if len(m.history) < m.order {
		return len(m.history)
	}
	return m.order
}

// advance records sym as newly seen history, after it has been coded.
func (m *Model) advance(sym byte) {
	m.history = append(m.history, sym)
	if len(m.history) > m.order {
		m.history = m.history[len(m.history)-m.order:]
	}
	if m.overBudget() {
		m.restart()
	}
}
