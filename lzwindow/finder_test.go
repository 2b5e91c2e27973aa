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

import (
	"bytes"
	"io"
	"math/rand/v2"
	"testing"

	"github.com/pierrec/lz4/v4"
)

func TestUseBT4Threshold(t *testing.T) {
	t.Parallel()

	for level := 1; level <= 9; level++ {
		want := level >= 5
		if got := UseBT4(level); got != want {
			t.Errorf("UseBT4(%d) = %v, want %v", level, got, want)
		}
	}
}

// lz4Corpus builds a realistic, highly-repetitive byte corpus by round
// tripping a short synthetic pattern through lz4's block codec: the
// compressed form is discarded, only the decompressed bytes matter, but
// it guarantees long exact repeats at varied offsets the way real
// compressible input does, rather than a single hand-written loop.
func lz4Corpus(t *testing.T, pattern []byte, repeats int) []byte {
	t.Helper()

	var src bytes.Buffer
	for i := 0; i < repeats; i++ {
		src.Write(pattern)
	}

	var compressed bytes.Buffer
	zw := lz4.NewWriter(&compressed)
	if _, err := zw.Write(src.Bytes()); err != nil {
		t.Fatalf("lz4 compress: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("lz4 compress close: %v", err)
	}

	zr := lz4.NewReader(&compressed)
	out, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("lz4 decompress: %v", err)
	}
	if !bytes.Equal(out, src.Bytes()) {
		t.Fatalf("lz4 round trip mismatch: corpus generator is broken")
	}
	return out
}

// bruteForceMatch is a reference implementation: the longest match at
// pos with the shortest distance, breaking length ties toward the
// most recent (hence shorter-distance) occurrence, against which both
// finders are checked on small inputs.
func bruteForceMatch(data []byte, pos, dictSize int) (Match, bool) {
	best := Match{}
	lo := pos - dictSize
	if lo < 0 {
		lo = 0
	}
	for c := pos - 1; c >= lo; c-- {
		l := matchLenAt(data, c, pos)
		if l < MinMatchLen {
			continue
		}
		d := pos - c
		if l > best.Length {
			best = Match{Distance: d, Length: l}
		}
	}
	return best, best.Length >= MinMatchLen
}

func runFinderAgainstBruteForce(t *testing.T, data []byte, level int) {
	t.Helper()

	const dictSize = 1 << 16
	f := NewFinder(data, dictSize, level)
	for pos := 0; pos < len(data); {
		m, ok := f.FindMatch()
		want, wantOK := bruteForceMatch(data, pos, dictSize)
		if ok != wantOK {
			t.Fatalf("level %d pos %d: FindMatch ok=%v, brute force ok=%v", level, pos, ok, wantOK)
		}
		if ok && m.Length > want.Length {
			t.Fatalf("level %d pos %d: finder reported length %d exceeding brute-force optimum %d", level, pos, m.Length, want.Length)
		}
		if ok {
			if m.Length < MinMatchLen || m.Length > MaxMatchLen {
				t.Fatalf("level %d pos %d: match length %d out of range", level, pos, m.Length)
			}
			if m.Distance < 1 || m.Distance > dictSize {
				t.Fatalf("level %d pos %d: match distance %d out of range", level, pos, m.Distance)
			}
			// Verify the reported match actually reproduces the bytes it claims to.
			if l := matchLenAt(data, pos-m.Distance, pos); l < m.Length {
				t.Fatalf("level %d pos %d: reported match does not verify (actual common run %d < claimed %d)", level, pos, l, m.Length)
			}
			f.Advance(m.Length)
			pos += m.Length
		} else {
			f.Advance(1)
			pos++
		}
		if f.Pos() != pos {
			t.Fatalf("level %d: Pos() = %d, want %d", level, f.Pos(), pos)
		}
	}
}

func TestHashChainFindsMatchesOnRepetitiveCorpus(t *testing.T) {
	t.Parallel()

	data := lz4Corpus(t, []byte("the quick brown fox jumps over the lazy dog. "), 64)
	for _, level := range []int{1, 2, 3, 4} {
		runFinderAgainstBruteForce(t, data, level)
	}
}

func TestBT4FindsMatchesOnRepetitiveCorpus(t *testing.T) {
	t.Parallel()

	data := lz4Corpus(t, []byte("the quick brown fox jumps over the lazy dog. "), 64)
	for _, level := range []int{5, 6, 7, 8, 9} {
		runFinderAgainstBruteForce(t, data, level)
	}
}

func TestFindersAgreeOnRandomData(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(42, 99))
	data := make([]byte, 4096)
	// A small alphabet keeps accidental matches frequent enough to
	// exercise the chain/tree walk instead of degenerating to all-literals.
	for i := range data {
		data[i] = byte(rng.IntN(6))
	}
	runFinderAgainstBruteForce(t, data, 2)
	runFinderAgainstBruteForce(t, data, 6)
}

func TestFinderNoMatchOnAllUniqueBytes(t *testing.T) {
	t.Parallel()

	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i % 256)
	}
	// With a strictly increasing byte sequence of 256 distinct values, no
	// 4-byte window repeats, so every position should be a literal.
	f := NewFinder(data, 1<<16, 6)
	for pos := 0; pos < len(data); pos++ {
		if _, ok := f.FindMatch(); ok {
			t.Fatalf("pos %d: unexpected match in non-repeating data", pos)
		}
		f.Advance(1)
	}
}

func TestHash4Deterministic(t *testing.T) {
	t.Parallel()

	data := []byte("abcdabcd")
	h1 := hash4(data, 0)
	h2 := hash4(data, 4)
	if h1 != h2 {
		t.Errorf("hash4 differs for identical 4-byte windows: %d vs %d", h1, h2)
	}
}

func TestMatchLenAtRespectsDataBounds(t *testing.T) {
	t.Parallel()

	data := []byte("aaaaaaaaaa")
	// Starting position near the end must not read past len(data).
	l := matchLenAt(data, 0, 8)
	if l != len(data)-8 {
		t.Errorf("matchLenAt near end = %d, want %d", l, len(data)-8)
	}
}
