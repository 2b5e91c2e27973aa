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

package rangecoder

import (
	"math/rand/v2"
	"testing"
)

// TestBitMirror is property 9 (range coder mirror): an encoder/decoder
// pair fed identical (probability, bit) sequences agree at every step.
func TestBitMirror(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(11, 22))
	const n = 5000
	bits := make([]uint32, n)
	for i := range bits {
		bits[i] = uint32(rng.IntN(2))
	}

	encProbs := NewProbs(4)
	var enc Encoder
	enc.Init()
	for i, b := range bits {
		enc.EncodeBit(&encProbs[i%4], b)
	}
	enc.Finalize()

	decProbs := NewProbs(4)
	var dec Decoder
	if err := dec.Init(enc.Bytes()); err != nil {
		t.Fatalf("Init error = %v", err)
	}
	for i, want := range bits {
		got := dec.DecodeBit(&decProbs[i%4])
		if got != want {
			t.Fatalf("bit %d: DecodeBit = %d, want %d", i, got, want)
		}
	}
	if dec.Exhausted() {
		t.Error("decoder exhausted before end of declared sequence")
	}
	for i := range encProbs {
		if encProbs[i] != decProbs[i] {
			t.Errorf("prob[%d] diverged: encoder=%d decoder=%d", i, encProbs[i], decProbs[i])
		}
	}
}

func TestDirectBitsRoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 4))
	var values []uint32
	var widths []int
	var enc Encoder
	enc.Init()
	for i := 0; i < 500; i++ {
		n := 1 + rng.IntN(32)
		v := uint32(rng.Uint64() & ((uint64(1) << uint(n)) - 1))
		widths = append(widths, n)
		values = append(values, v)
		enc.EncodeDirectBits(v, n)
	}
	enc.Finalize()

	var dec Decoder
	if err := dec.Init(enc.Bytes()); err != nil {
		t.Fatalf("Init error = %v", err)
	}
	for i, n := range widths {
		got := dec.DecodeDirectBits(n)
		if got != values[i] {
			t.Fatalf("field %d: DecodeDirectBits(%d) = %d, want %d", i, n, got, values[i])
		}
	}
}

func TestFreqRoundTrip(t *testing.T) {
	t.Parallel()

	const total = 1 << 10
	freqs := []uint32{100, 200, 50, 674}
	var cum []uint32
	running := uint32(0)
	for _, f := range freqs {
		cum = append(cum, running)
		running += f
	}
	if running != total {
		t.Fatalf("test fixture freqs sum to %d, want %d", running, total)
	}

	symbols := []int{0, 3, 1, 2, 3, 3, 0, 2}
	var enc Encoder
	enc.Init()
	for _, s := range symbols {
		enc.EncodeFreq(cum[s], freqs[s], total)
	}
	enc.Finalize()

	var dec Decoder
	if err := dec.Init(enc.Bytes()); err != nil {
		t.Fatalf("Init error = %v", err)
	}
	for i, want := range symbols {
		c := dec.DecodeFreq(total)
		// Find which symbol's cumulative range c falls into.
		got := -1
		for s := range freqs {
			if c >= cum[s] && c < cum[s]+freqs[s] {
				got = s
				break
			}
		}
		if got != want {
			t.Fatalf("symbol %d: decoded cum=%d resolved to symbol %d, want %d", i, c, got, want)
		}
		dec.NormalizeFreq(cum[got], freqs[got])
	}
}

func TestDecoderExhaustedOnTruncatedInput(t *testing.T) {
	t.Parallel()

	var enc Encoder
	enc.Init()
	p := NewProbs(1)
	for i := 0; i < 100; i++ {
		enc.EncodeBit(&p[0], uint32(i%2))
	}
	enc.Finalize()

	truncated := enc.Bytes()[:2]
	var dec Decoder
	if err := dec.Init(truncated); err != nil {
		t.Fatalf("Init error = %v", err)
	}
	dp := NewProbs(1)
	for i := 0; i < 100; i++ {
		dec.DecodeBit(&dp[0])
	}
	if !dec.Exhausted() {
		t.Error("Exhausted() = false after reading past truncated input")
	}
}

func TestResetProbsReinitializes(t *testing.T) {
	t.Parallel()

	p := NewProbs(3)
	p[0], p[1], p[2] = 1, 2, 3
	ResetProbs(p)
	for i, v := range p {
		if v != ProbInitial {
			t.Errorf("p[%d] = %d after reset, want %d", i, v, ProbInitial)
		}
	}
}
