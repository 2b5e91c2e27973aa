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

// Package lzwindow provides the sliding LZ77 dictionary and match finders
// (hash-chain and BT4) shared by the LZMA encoder and decoder.
package lzwindow

import "errors"

// ErrReadBeforeWrite is returned by GetByte when a decoder asks for
// history that was never written since the last dictionary reset.
var ErrReadBeforeWrite = errors.New("lzwindow: read before write")

// MinDictSize and MaxDictSize bound the dict_size parameter per the
// LZMA property encoding (section 3: dict_size in [4 KiB, 4 GiB)).
const (
	MinDictSize = 1 << 12
	MaxDictSize = 1<<32 - 1
)

// Window is the decoder-side sliding dictionary: an append-only ring
// buffer of size dictSize, with out-of-range negative reads rejected.
type Window struct {
	buf      []byte
	dictSize int
	total    int64 // total bytes ever written since last reset
}

// NewWindow creates a window with the given dictionary size.
func NewWindow(dictSize int) *Window {
	if dictSize < MinDictSize {
		dictSize = MinDictSize
	}
	return &Window{buf: make([]byte, dictSize), dictSize: dictSize}
}

// Reset logically empties the window, as LZMA2's dictionary-reset chunk
// control requires; the backing array is reused.
func (w *Window) Reset() {
	w.total = 0
}

// PutByte appends a single decoded byte to the window.
func (w *Window) PutByte(b byte) {
	w.buf[int(w.total)%w.dictSize] = b
	w.total++
}

// GetByte returns the byte distBack positions behind the current write
// position (distBack=1 is the most recently written byte).
func (w *Window) GetByte(distBack int) (byte, error) {
	if int64(distBack) > w.total || distBack < 1 {
		return 0, ErrReadBeforeWrite
	}
	idx := (w.total - int64(distBack)) % int64(w.dictSize)
	if idx < 0 {
		idx += int64(w.dictSize)
	}
	return w.buf[idx], nil
}

// CopyMatch appends length bytes copied from distBack positions back,
// the core LZ77 expansion step; overlapping copies (distBack < length)
// are legal and expected for run-length patterns.
func (w *Window) CopyMatch(distBack, length int) error {
	for i := 0; i < length; i++ {
		b, err := w.GetByte(distBack)
		if err != nil {
			return err
		}
		w.PutByte(b)
	}
	return nil
}

// Total returns the number of bytes written since the last reset.
func (w *Window) Total() int64 { return w.total }

// DictSize returns the configured dictionary size.
func (w *Window) DictSize() int { return w.dictSize }
