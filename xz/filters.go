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

package xz

import "github.com/archivekit/archivekit/filter"

// Terminal codec IDs a block's last filter record may carry. IDLZMA2 is
// the real XZ-assigned value; IDLZMA and IDStore have no assignment in
// the XZ specification (7z and the plain "no-op" case respectively) and
// use the same out-of-range local convention filter.IDBCJ2 does.
const (
	IDLZMA2 filter.ID = 0x21
	IDLZMA  filter.ID = 0x100002
	IDStore filter.ID = 0x100003
)

const maxFiltersInChain = 4

// FilterSpec is one entry of a block's filter chain: an id and its
// properties blob, exactly as the wire format carries them.
type FilterSpec struct {
	ID    filter.ID
	Props []byte
}

func isTerminalID(id filter.ID) bool {
	return id == IDLZMA2 || id == IDLZMA || id == IDStore
}

// validateChain enforces section 4.8's filter-order rule: at most four
// filters, and the last one must be a terminal codec, never a
// preprocessing filter (Delta or a BCJ variant).
func validateChain(chain []FilterSpec) error {
	if len(chain) == 0 || len(chain) > maxFiltersInChain {
		return ErrFilterTooMany
	}
	last := chain[len(chain)-1]
	if !isTerminalID(last.ID) {
		return ErrFilterOrderInvalid
	}
	for _, f := range chain[:len(chain)-1] {
		if isTerminalID(f.ID) {
			return ErrFilterOrderInvalid
		}
	}
	return nil
}

// encodeFilterChain appends the wire form of chain (each record is
// VLI id, VLI props size, then the raw props) with no padding; callers
// pad the whole block header to a 4-byte boundary afterward.
func encodeFilterChain(buf []byte, chain []FilterSpec) []byte {
	for _, f := range chain {
		buf = appendVLI(buf, uint64(f.ID))
		buf = appendVLI(buf, uint64(len(f.Props)))
		buf = append(buf, f.Props...)
	}
	return buf
}

func decodeFilterChain(buf []byte, count int) ([]FilterSpec, int, error) {
	var chain []FilterSpec
	pos := 0
	for i := 0; i < count; i++ {
		id, n, err := readVLI(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += n
		size, n, err := readVLI(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += n
		if size > uint64(len(buf)-pos) {
			return nil, 0, ErrBlockCorrupt
		}
		props := append([]byte(nil), buf[pos:pos+int(size)]...)
		pos += int(size)
		chain = append(chain, FilterSpec{ID: filter.ID(id), Props: props})
	}
	return chain, pos, nil
}

// runPreFilters applies chain's preprocessing filters (everything but the
// last, terminal record) in forward or reverse order around the
// terminal codec's own Encode/Decode, which the caller performs.
func runPreFilters(chain []FilterSpec, data []byte, ip uint32, encoding bool) ([]byte, error) {
	pre := chain[:len(chain)-1]
	if encoding {
		for i := 0; i < len(pre); i++ {
			f, err := filter.New(pre[i].ID, pre[i].Props)
			if err != nil {
				return nil, err
			}
			data = f.Encode(data, ip)
		}
		return data, nil
	}
	for i := len(pre) - 1; i >= 0; i-- {
		f, err := filter.New(pre[i].ID, pre[i].Props)
		if err != nil {
			return nil, err
		}
		data = f.Decode(data, ip)
	}
	return data, nil
}
