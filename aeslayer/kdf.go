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

// Package aeslayer implements the two key-derivation profiles and the
// AES-256-CBC payload cipher section 4.9 names.
package aeslayer

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf16"

	"golang.org/x/crypto/pbkdf2"
)

// MaxCyclesPower is the largest cycles_power the 7z iterated-SHA KDF
// accepts; 2^24 rounds already costs tens of seconds on commodity
// hardware, and the 7z container format itself never emits a value
// above this.
const MaxCyclesPower = 24

// ErrInvalidKDFParams is returned when a KDF parameter is out of range.
var ErrInvalidKDFParams = errors.New("aeslayer: invalid kdf parameters")

// utf16LE encodes s as UTF-16LE with no byte-order mark, the encoding
// the 7z KDF concatenates the password in.
func utf16LE(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(out[i*2:], u)
	}
	return out
}

// Iterated7zKDF derives a 32-byte key the way 7z's AES header does: one
// SHA-256 state fed salt‖utf16le(password)‖counter_le64 once per round,
// for 2^cyclesPower rounds, finalized after the last round.
func Iterated7zKDF(password string, salt []byte, cyclesPower int) ([]byte, error) {
	if cyclesPower < 0 || cyclesPower > MaxCyclesPower {
		return nil, fmt.Errorf("%w: cycles_power=%d", ErrInvalidKDFParams, cyclesPower)
	}
	pw := utf16LE(password)
	h := sha256.New()
	rounds := uint64(1) << uint(cyclesPower)
	var counter [8]byte
	for r := uint64(0); r < rounds; r++ {
		h.Write(salt)
		h.Write(pw)
		binary.LittleEndian.PutUint64(counter[:], r)
		h.Write(counter[:])
	}
	return h.Sum(nil), nil
}

// RAR5KDF derives a 32-byte key via PBKDF2-HMAC-SHA256 (RFC 2898) with
// 2^iterationsLog iterations, the profile RAR5 archives use.
func RAR5KDF(password string, salt []byte, iterationsLog int) ([]byte, error) {
	if iterationsLog < 1 || iterationsLog > 31 {
		return nil, fmt.Errorf("%w: iterations_log=%d", ErrInvalidKDFParams, iterationsLog)
	}
	iterations := 1 << uint(iterationsLog)
	return pbkdf2.Key([]byte(password), salt, iterations, 32, sha256.New), nil
}
