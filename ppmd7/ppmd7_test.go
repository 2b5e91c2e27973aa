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

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/icza/bitio"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	corpus := map[string][]byte{
		"empty":      {},
		"single":     []byte("x"),
		"repetitive": bytes.Repeat([]byte("mississippi river "), 300),
		"random":     randomBytes(4096, 1, 1),
	}
	for name, data := range corpus {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			compressed := Encode(data, DefaultOrder, DefaultMemLimit)
			got, err := Decode(compressed, int64(len(data)), DefaultOrder, DefaultMemLimit)
			if err != nil {
				t.Fatalf("Decode error = %v", err)
			}
			if !bytes.Equal(got, data) {
				t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(data))
			}
		})
	}
}

func randomBytes(n int, seed1, seed2 uint64) []byte {
	rng := rand.New(rand.NewPCG(seed1, seed2))
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(rng.Uint32())
	}
	return buf
}

func TestZeroOrderAndMemLimitSelectDefaults(t *testing.T) {
	t.Parallel()

	m := NewModel(0, 0)
	if m.order != DefaultOrder {
		t.Errorf("order = %d, want %d", m.order, DefaultOrder)
	}
	if m.memLimit != DefaultMemLimit {
		t.Errorf("memLimit = %d, want %d", m.memLimit, DefaultMemLimit)
	}
}

// TestRestartTriggersUnderTightMemoryBudget forces the arena-exhaustion
// recovery path (section 4.6's restart) and confirms encode/decode still
// agree: both sides restart at the identical, input-determined point.
func TestRestartTriggersUnderTightMemoryBudget(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("abcdefghijklmnopqrstuvwxyz0123456789"), 200)
	const tinyLimit = approxCtxBytes * 8 // forces many restarts

	compressed := Encode(data, 4, tinyLimit)
	got, err := Decode(compressed, int64(len(data)), 4, tinyLimit)
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch under forced restarts")
	}
}

func TestRescaleHalvesFrequenciesAndKeepsFloor(t *testing.T) {
	t.Parallel()

	ctx := &pmContext{states: []symState{
		{sym: 'a', freq: maxFreq},
		{sym: 'b', freq: 1},
	}}
	rescale(ctx)
	if ctx.states[0].freq != maxFreq/2 {
		t.Errorf("states[0].freq = %d, want %d", ctx.states[0].freq, maxFreq/2)
	}
	if ctx.states[1].freq != 1 {
		t.Errorf("states[1].freq = %d, want 1 (floor)", ctx.states[1].freq)
	}
	if ctx.sumFreq != ctx.states[0].freq+ctx.states[1].freq {
		t.Errorf("sumFreq = %d, want %d", ctx.sumFreq, ctx.states[0].freq+ctx.states[1].freq)
	}
}

func TestContextForReusesExistingContext(t *testing.T) {
	t.Parallel()

	m := NewModel(4, DefaultMemLimit)
	m.history = []byte("abc")
	first := m.contextFor(2)
	second := m.contextFor(2)
	if first != second {
		t.Errorf("contextFor(2) returned different indices for the same history suffix: %d vs %d", first, second)
	}
}

func TestCurrentOrderCapsAtHistoryLength(t *testing.T) {
	t.Parallel()

	m := NewModel(6, DefaultMemLimit)
	m.history = []byte("ab")
	if got := m.currentOrder(); got != 2 {
		t.Errorf("currentOrder() = %d, want 2 (shorter than configured order)", got)
	}
	m.history = []byte("abcdefgh")
	if got := m.currentOrder(); got != 6 {
		t.Errorf("currentOrder() = %d, want 6 (capped at configured order)", got)
	}
}

func TestAdvanceTrimsHistoryToOrder(t *testing.T) {
	t.Parallel()

	m := NewModel(3, DefaultMemLimit)
	for _, b := range []byte("abcdef") {
		m.advance(b)
	}
	if len(m.history) != 3 {
		t.Fatalf("len(history) = %d, want 3", len(m.history))
	}
	if string(m.history) != "def" {
		t.Errorf("history = %q, want %q", m.history, "def")
	}
}

// TestRescaleMatchesRecordedBitTrace packs the two 15-bit frequency
// fields a correct rescale must produce into a small bit trace, decodes
// them back with icza/bitio instead of hand-rolled bit shifting, and
// checks rescale() against them.
func TestRescaleMatchesRecordedBitTrace(t *testing.T) {
	t.Parallel()

	var packed bytes.Buffer
	w := bitio.NewWriter(&packed)
	if err := w.WriteBits(uint64(maxFreq/2), 15); err != nil {
		t.Fatalf("WriteBits error = %v", err)
	}
	if err := w.WriteBits(uint64(1), 15); err != nil {
		t.Fatalf("WriteBits error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}

	r := bitio.NewReader(bytes.NewReader(packed.Bytes()))
	wantA, err := r.ReadBits(15)
	if err != nil {
		t.Fatalf("ReadBits error = %v", err)
	}
	wantB, err := r.ReadBits(15)
	if err != nil {
		t.Fatalf("ReadBits error = %v", err)
	}

	ctx := &pmContext{states: []symState{
		{sym: 'a', freq: maxFreq},
		{sym: 'b', freq: 1},
	}}
	rescale(ctx)
	if uint64(ctx.states[0].freq) != wantA {
		t.Errorf("states[0].freq = %d, want %d from recorded trace", ctx.states[0].freq, wantA)
	}
	if uint64(ctx.states[1].freq) != wantB {
		t.Errorf("states[1].freq = %d, want %d from recorded trace", ctx.states[1].freq, wantB)
	}
}
