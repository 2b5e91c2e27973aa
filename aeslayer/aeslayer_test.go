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

package aeslayer

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"
)

func testKey(seed1, seed2 uint64) []byte {
	rng := rand.New(rand.NewPCG(seed1, seed2))
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(rng.Uint32())
	}
	return key
}

// TestEncryptDecryptRoundTrip is property 7: any plaintext encrypted
// under a key/IV pair decrypts back to itself under the same pair.
func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	key := testKey(1, 2)
	iv := testKey(3, 4)[:BlockSize]

	for _, n := range []int{0, 1, 15, 16, 17, 1000} {
		rng := rand.New(rand.NewPCG(uint64(n), 99))
		plaintext := make([]byte, n)
		for i := range plaintext {
			plaintext[i] = byte(rng.Uint32())
		}

		ciphertext, err := Encrypt(key, iv, plaintext)
		if err != nil {
			t.Fatalf("n=%d: Encrypt error = %v", n, err)
		}
		if len(ciphertext)%BlockSize != 0 {
			t.Fatalf("n=%d: ciphertext length %d not block-aligned", n, len(ciphertext))
		}
		got, err := Decrypt(key, iv, ciphertext)
		if err != nil {
			t.Fatalf("n=%d: Decrypt error = %v", n, err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatalf("n=%d: round trip mismatch", n)
		}
	}
}

func TestDecryptWrongKeyFailsWithoutOracle(t *testing.T) {
	t.Parallel()

	key := testKey(10, 11)
	wrongKey := testKey(12, 13)
	iv := testKey(14, 15)[:BlockSize]

	ciphertext, err := Encrypt(key, iv, []byte("the secret archive contents"))
	if err != nil {
		t.Fatalf("Encrypt error = %v", err)
	}
	if _, err := Decrypt(wrongKey, iv, ciphertext); !errors.Is(err, ErrPasswordIncorrect) {
		t.Errorf("Decrypt(wrong key) err = %v, want ErrPasswordIncorrect", err)
	}
}

func TestDecryptRejectsNonBlockAlignedCiphertext(t *testing.T) {
	t.Parallel()

	key := testKey(1, 1)
	iv := testKey(2, 2)[:BlockSize]
	if _, err := Decrypt(key, iv, make([]byte, BlockSize+1)); !errors.Is(err, ErrPasswordIncorrect) {
		t.Errorf("Decrypt(misaligned) err = %v, want ErrPasswordIncorrect", err)
	}
	if _, err := Decrypt(key, iv, nil); !errors.Is(err, ErrPasswordIncorrect) {
		t.Errorf("Decrypt(empty) err = %v, want ErrPasswordIncorrect", err)
	}
}

func TestNewIVProducesBlockSizeBytes(t *testing.T) {
	t.Parallel()

	iv, err := NewIV()
	if err != nil {
		t.Fatalf("NewIV error = %v", err)
	}
	if len(iv) != BlockSize {
		t.Errorf("len(NewIV()) = %d, want %d", len(iv), BlockSize)
	}
}

// TestIterated7zKDFDeterministic is scenario S5: the same password, salt
// and cycles_power must always derive the same 32-byte key, and a
// different password must derive a different one.
func TestIterated7zKDFDeterministic(t *testing.T) {
	t.Parallel()

	salt := []byte{0x01, 0x02, 0x03, 0x04}
	k1, err := Iterated7zKDF("correct horse battery staple", salt, 4)
	if err != nil {
		t.Fatalf("Iterated7zKDF error = %v", err)
	}
	k2, err := Iterated7zKDF("correct horse battery staple", salt, 4)
	if err != nil {
		t.Fatalf("Iterated7zKDF error = %v", err)
	}
	if !bytes.Equal(k1, k2) {
		t.Error("Iterated7zKDF is not deterministic for identical inputs")
	}
	if len(k1) != 32 {
		t.Errorf("len(key) = %d, want 32", len(k1))
	}

	different, err := Iterated7zKDF("a different password entirely", salt, 4)
	if err != nil {
		t.Fatalf("Iterated7zKDF error = %v", err)
	}
	if bytes.Equal(k1, different) {
		t.Error("different passwords produced the same derived key")
	}
}

func TestIterated7zKDFRejectsOutOfRangeCyclesPower(t *testing.T) {
	t.Parallel()

	if _, err := Iterated7zKDF("pw", nil, -1); !errors.Is(err, ErrInvalidKDFParams) {
		t.Errorf("cycles_power=-1: err = %v, want ErrInvalidKDFParams", err)
	}
	if _, err := Iterated7zKDF("pw", nil, MaxCyclesPower+1); !errors.Is(err, ErrInvalidKDFParams) {
		t.Errorf("cycles_power=%d: err = %v, want ErrInvalidKDFParams", MaxCyclesPower+1, err)
	}
}

func TestRAR5KDFDeterministicAndDistinct(t *testing.T) {
	t.Parallel()

	salt := []byte("0123456789abcdef")
	k1, err := RAR5KDF("hunter2", salt, 10)
	if err != nil {
		t.Fatalf("RAR5KDF error = %v", err)
	}
	k2, err := RAR5KDF("hunter2", salt, 10)
	if err != nil {
		t.Fatalf("RAR5KDF error = %v", err)
	}
	if !bytes.Equal(k1, k2) {
		t.Error("RAR5KDF is not deterministic for identical inputs")
	}
	if len(k1) != 32 {
		t.Errorf("len(key) = %d, want 32", len(k1))
	}

	k3, err := RAR5KDF("hunter2", salt, 11)
	if err != nil {
		t.Fatalf("RAR5KDF error = %v", err)
	}
	if bytes.Equal(k1, k3) {
		t.Error("different iteration counts produced the same derived key")
	}
}

func TestRAR5KDFRejectsOutOfRangeIterationsLog(t *testing.T) {
	t.Parallel()

	if _, err := RAR5KDF("pw", nil, 0); !errors.Is(err, ErrInvalidKDFParams) {
		t.Errorf("iterations_log=0: err = %v, want ErrInvalidKDFParams", err)
	}
	if _, err := RAR5KDF("pw", nil, 32); !errors.Is(err, ErrInvalidKDFParams) {
		t.Errorf("iterations_log=32: err = %v, want ErrInvalidKDFParams", err)
	}
}
