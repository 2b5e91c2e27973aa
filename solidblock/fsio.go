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

package solidblock

import (
	"encoding/binary"
	"fmt"

	"github.com/spf13/afero"
)

// AddFilesFromFS reads each of paths from fsys, in order, and adds it
// to w under its path as the entry name.
func (w *Writer) AddFilesFromFS(fsys afero.Fs, paths []string) error {
	for _, p := range paths {
		data, err := afero.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("solidblock: read %s: %w", p, err)
		}
		w.AddFile(p, data)
	}
	return nil
}

// WriteArchive's on-disk layout for a solid block saved as a single
// file: a 4-byte entry count, then per entry a 4-byte name length, the
// name bytes, and an 8-byte little-endian size, followed by the
// compressed payload.

// WriteArchive serializes entries and compressed to path on fsys.
func WriteArchive(fsys afero.Fs, path string, entries []Entry, compressed []byte) error {
	var header []byte
	header = binary.LittleEndian.AppendUint32(header, uint32(len(entries)))
	for _, e := range entries {
		header = binary.LittleEndian.AppendUint32(header, uint32(len(e.Name)))
		header = append(header, e.Name...)
		header = binary.LittleEndian.AppendUint64(header, uint64(e.Size))
	}
	out := append(header, compressed...)
	return afero.WriteFile(fsys, path, out, 0o644)
}

// ReadArchive parses a file WriteArchive produced, recovering the entry
// list and compressed payload. Per-entry offsets are recomputed by
// summing sizes in order, since WriteArchive doesn't store them
// separately from sizes.
func ReadArchive(fsys afero.Fs, path string) ([]Entry, []byte, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, nil, fmt.Errorf("solidblock: read archive %s: %w", path, err)
	}
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("solidblock: archive %s truncated", path)
	}
	count := binary.LittleEndian.Uint32(data)
	pos := 4
	var offset int64
	entries := make([]Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		if pos+4 > len(data) {
			return nil, nil, fmt.Errorf("solidblock: archive %s truncated", path)
		}
		nameLen := int(binary.LittleEndian.Uint32(data[pos:]))
		pos += 4
		if pos+nameLen+8 > len(data) {
			return nil, nil, fmt.Errorf("solidblock: archive %s truncated", path)
		}
		name := string(data[pos : pos+nameLen])
		pos += nameLen
		size := int64(binary.LittleEndian.Uint64(data[pos:]))
		pos += 8
		entries = append(entries, Entry{Name: name, Offset: offset, Size: size})
		offset += size
	}
	return entries, data[pos:], nil
}
