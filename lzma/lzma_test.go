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
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"
)

func corpusFor(t *testing.T) [][]byte {
	t.Helper()
	return [][]byte{
		nil,
		[]byte("a"),
		[]byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 200),
		randomBytes(t, 4096, 1, 2),
	}
}

func randomBytes(t *testing.T, n int, seed1, seed2 uint64) []byte {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed1, seed2))
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(rng.Uint32())
	}
	return buf
}

// TestRoundTripWithEndMarker is property 1: encode, then decode with an
// unknown length (end-marker termination), must reproduce the input.
func TestRoundTripWithEndMarker(t *testing.T) {
	t.Parallel()

	props := Default(1 << 16)
	for i, data := range corpusFor(t) {
		enc := NewEncoder(props, 6)
		enc.EncodeEndMarker(true)
		compressed := enc.Encode(data)

		dec := NewDecoder(props)
		got, err := dec.Decode(compressed, -1)
		if err != nil {
			t.Fatalf("corpus[%d]: Decode error = %v", i, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("corpus[%d]: round trip mismatch (len got=%d want=%d)", i, len(got), len(data))
		}
	}
}

// TestRoundTripWithDeclaredLength exercises the out-of-band-length path
// (no end marker needed when outLen is known ahead of time).
func TestRoundTripWithDeclaredLength(t *testing.T) {
	t.Parallel()

	props := Default(1 << 16)
	for i, data := range corpusFor(t) {
		enc := NewEncoder(props, 3)
		compressed := enc.Encode(data)

		dec := NewDecoder(props)
		got, err := dec.Decode(compressed, int64(len(data)))
		if err != nil {
			t.Fatalf("corpus[%d]: Decode error = %v", i, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("corpus[%d]: round trip mismatch", i)
		}
	}
}

// TestEncodeIsDeterministic is property 2: encoding the same input twice
// with the same properties and level produces byte-identical output.
func TestEncodeIsDeterministic(t *testing.T) {
	t.Parallel()

	data := randomBytes(t, 8192, 5, 6)
	props := Default(1 << 16)
	a := NewEncoder(props, 6).Encode(data)
	b := NewEncoder(props, 6).Encode(data)
	if !bytes.Equal(a, b) {
		t.Error("Encode is not deterministic for identical input/props/level")
	}
}

func TestPropsByteRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []Props{
		{LC: 3, LP: 0, PB: 2},
		{LC: 0, LP: 0, PB: 0},
		{LC: 0, LP: 2, PB: 2},
		{LC: 8, LP: 0, PB: 4},
	}
	for _, p := range tests {
		b := p.ByteEncode()
		lc, lp, pb, err := DecodeByte(b)
		if err != nil {
			t.Fatalf("DecodeByte(%d) error = %v", b, err)
		}
		if lc != p.LC || lp != p.LP || pb != p.PB {
			t.Errorf("DecodeByte(ByteEncode(%+v)) = (%d,%d,%d), want (%d,%d,%d)", p, lc, lp, pb, p.LC, p.LP, p.PB)
		}
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	p := Default(1 << 20)
	header := p.EncodeHeader()
	if len(header) != 5 {
		t.Fatalf("len(EncodeHeader()) = %d, want 5", len(header))
	}
	got, err := DecodeHeader(header)
	if err != nil {
		t.Fatalf("DecodeHeader error = %v", err)
	}
	if got != p {
		t.Errorf("DecodeHeader(EncodeHeader(p)) = %+v, want %+v", got, p)
	}
}

func TestValidateRejectsOutOfRangeProps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    Props
	}{
		{"lc too large", Props{LC: 9, LP: 0, PB: 2, DictSize: 1 << 16}},
		{"lp too large", Props{LC: 0, LP: 5, PB: 2, DictSize: 1 << 16}},
		{"lc+lp exceeds 4", Props{LC: 3, LP: 3, PB: 2, DictSize: 1 << 16}},
		{"pb too large", Props{LC: 0, LP: 0, PB: 5, DictSize: 1 << 16}},
		{"dict too small", Props{LC: 0, LP: 0, PB: 0, DictSize: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.p.Validate(); !errors.Is(err, ErrInvalidProps) {
				t.Errorf("Validate() = %v, want ErrInvalidProps", err)
			}
		})
	}
}

func TestDecodeHeaderTooShort(t *testing.T) {
	t.Parallel()

	if _, err := DecodeHeader([]byte{0, 1, 2}); !errors.Is(err, ErrInvalidProps) {
		t.Errorf("DecodeHeader(short) err = %v, want ErrInvalidProps", err)
	}
}

func TestDecodeTruncatedInputIsCorrupt(t *testing.T) {
	t.Parallel()

	props := Default(1 << 16)
	enc := NewEncoder(props, 6)
	data := bytes.Repeat([]byte("hello world "), 50)
	compressed := enc.Encode(data)

	dec := NewDecoder(props)
	if _, err := dec.Decode(compressed[:len(compressed)/2], int64(len(data))); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Decode(truncated) err = %v, want ErrCorrupt", err)
	}
}

// TestResetStatePreservesDictionary mirrors the LZMA2 chunk sequencing
// contract: a state reset must keep prior decoded bytes addressable via
// back-references in the chunk that follows.
func TestResetStatePreservesDictionary(t *testing.T) {
	t.Parallel()

	// PB=0 keeps the position-state bucket constant regardless of the
	// absolute stream offset, so the encoder (which counts from 0 within
	// each chunk) and the decoder (which counts from the start of the
	// whole stream) stay in lockstep across the chunk boundary below.
	props := Props{LC: 3, LP: 0, PB: 0, DictSize: 1 << 16}
	enc := NewEncoder(props, 6)
	first := []byte("repeated text repeated text repeated text")
	c1 := enc.Encode(first)

	dec := NewDecoder(props)
	out1, err := dec.Decode(c1, int64(len(first)))
	if err != nil {
		t.Fatalf("first Decode error = %v", err)
	}
	if !bytes.Equal(out1, first) {
		t.Fatalf("first chunk mismatch")
	}

	enc.ResetState()
	dec.ResetState()

	second := []byte(" text repeated text repeated")
	c2 := enc.Encode(second)
	out2, err := dec.Decode(c2, int64(len(second)))
	if err != nil {
		t.Fatalf("second Decode error = %v", err)
	}
	if !bytes.Equal(out2, second) {
		t.Fatalf("second chunk mismatch: got %q, want %q", out2, second)
	}
}
