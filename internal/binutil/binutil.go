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

// Package binutil holds small byte-slice helpers shared by xz's framing
// and codec's property parsing. Nothing here is specific to one format.
package binutil

import "encoding/binary"

// PutUint32LE writes v into buf[:4] little-endian.
func PutUint32LE(buf []byte, v uint32) {
	binary.LittleEndian.PutUint32(buf, v)
}

// Uint32LE reads a little-endian uint32 from buf[:4].
func Uint32LE(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf)
}

// BytesEqual compares two byte slices for equality without allocating.
func BytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// RoundUp4 rounds n up to the next multiple of 4, used by the XZ block
// header and index padding rules.
func RoundUp4(n int) int {
	if r := n % 4; r != 0 {
		return n + (4 - r)
	}
	return n
}

// ZeroPad reports whether all bytes in buf are zero, used to validate the
// padding regions the XZ format requires between framing structures.
func ZeroPad(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}
