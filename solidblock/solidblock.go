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

// Package solidblock implements the solid-block manager of section
// 4.10: many files concatenated into one buffer and compressed as a
// single stream, with per-file (name, offset, size) metadata recorded
// alongside.
package solidblock

import (
	"errors"

	"github.com/archivekit/archivekit/lzma"
	"github.com/archivekit/archivekit/lzma2"
)

// ErrEntryNotFound is returned when Extract is asked for a file name
// that isn't in the entry list.
var ErrEntryNotFound = errors.New("solidblock: entry not found")

// ErrEntryOutOfRange is returned when an entry's (offset, size) falls
// outside the decoded buffer, which only happens if the entry list was
// tampered with independently of the compressed stream it describes.
var ErrEntryOutOfRange = errors.New("solidblock: entry out of range of decoded block")

// Entry records one file's placement within the solid block's
// concatenated buffer.
type Entry struct {
	Name   string
	Offset int64
	Size   int64
}

// Writer accumulates files into one buffer, matching the write path's
// add_file/finalize pair.
type Writer struct {
	buf     []byte
	entries []Entry
}

// NewWriter returns an empty solid-block writer.
func NewWriter() *Writer {
	return &Writer{}
}

// AddFile appends data to the block and records its placement under
// name. Files retain their add order in the final buffer.
func (w *Writer) AddFile(name string, data []byte) {
	w.entries = append(w.entries, Entry{Name: name, Offset: int64(len(w.buf)), Size: int64(len(data))})
	w.buf = append(w.buf, data...)
}

// Len reports the number of files added so far.
func (w *Writer) Len() int { return len(w.entries) }

// Finalize compresses the accumulated buffer with LZMA2 at the given
// match-finder level and returns the compressed bytes alongside the
// entry list needed to extract from them.
func (w *Writer) Finalize(dictSize, level int) ([]byte, []Entry, error) {
	props := lzma.Default(dictSize)
	compressed, err := lzma2.Encode(w.buf, lzma2.EncodeOptions{Props: props, Level: level})
	if err != nil {
		return nil, nil, err
	}
	return compressed, w.entries, nil
}

// Extract decodes the whole compressed block and returns the bytes of
// the named entry.
func Extract(entries []Entry, compressed []byte, dictSize int, name string) ([]byte, error) {
	e, ok := findEntry(entries, name)
	if !ok {
		return nil, ErrEntryNotFound
	}
	full, err := lzma2.Decode(compressed, dictSize)
	if err != nil {
		return nil, err
	}
	return sliceEntry(full, e)
}

func findEntry(entries []Entry, name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func sliceEntry(full []byte, e Entry) ([]byte, error) {
	if e.Offset < 0 || e.Size < 0 || e.Offset+e.Size > int64(len(full)) {
		return nil, ErrEntryOutOfRange
	}
	return full[e.Offset : e.Offset+e.Size], nil
}
