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

package binutil

import "testing"

func TestUint32LERoundTrip(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 4)
	PutUint32LE(buf, 0xDEADBEEF)
	if got := Uint32LE(buf); got != 0xDEADBEEF {
		t.Errorf("Uint32LE = %#x, want %#x", got, uint32(0xDEADBEEF))
	}
	if buf[0] != 0xEF || buf[3] != 0xDE {
		t.Errorf("PutUint32LE byte order wrong: %x", buf)
	}
}

func TestBytesEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b []byte
		want bool
	}{
		{[]byte{1, 2, 3}, []byte{1, 2, 3}, true},
		{[]byte{1, 2, 3}, []byte{1, 2, 4}, false},
		{[]byte{1, 2}, []byte{1, 2, 3}, false},
		{nil, nil, true},
	}
	for _, tt := range tests {
		if got := BytesEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("BytesEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRoundUp4(t *testing.T) {
	t.Parallel()

	tests := []struct{ n, want int }{
		{0, 0}, {1, 4}, {3, 4}, {4, 4}, {5, 8}, {8, 8},
	}
	for _, tt := range tests {
		if got := RoundUp4(tt.n); got != tt.want {
			t.Errorf("RoundUp4(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestZeroPad(t *testing.T) {
	t.Parallel()

	if !ZeroPad(nil) {
		t.Error("ZeroPad(nil) = false, want true")
	}
	if !ZeroPad([]byte{0, 0, 0}) {
		t.Error("ZeroPad(zeros) = false, want true")
	}
	if ZeroPad([]byte{0, 1, 0}) {
		t.Error("ZeroPad(non-zero) = true, want false")
	}
}
