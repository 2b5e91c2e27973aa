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

// Package filter implements the preprocessing filters section 4.7
// defines: Delta, the BCJ branch/call/jump family, and BCJ2. Each
// filter exposes Encode/Decode taking the absolute stream position ip,
// needed by the BCJ family to tell relative displacements from
// addresses already in absolute form.
package filter

// Filter is the contract every preprocessor in this package implements.
// Encode and Decode each receive the full buffer and the logical stream
// position of in[0]; filters only look at bytes within in and carry no
// state across calls, so an instruction cut off by the end of in is left
// unconverted.
type Filter interface {
	Encode(in []byte, ip uint32) []byte
	Decode(in []byte, ip uint32) []byte
}

// ID identifies a filter variant, matching the XZ filter-ID space used
// by codec's registry (section 4.8's filter flags).
type ID uint64

// Filter IDs, matching the XZ format's assigned values.
const (
	IDDelta     ID = 0x03
	IDBCJX86    ID = 0x04
	IDBCJPowerPC ID = 0x05
	IDBCJIA64   ID = 0x06
	IDBCJARM    ID = 0x07
	IDBCJARMThumb ID = 0x08
	IDBCJSPARC  ID = 0x09
	IDBCJARM64  ID = 0x0A
	IDBCJ2      ID = 0x100001 // not an XZ-assigned ID (BCJ2 is 7z-only); local convention
)

// New returns the filter for id, constructed from its XZ properties
// blob (only Delta uses properties: a single distance byte).
func New(id ID, props []byte) (Filter, error) {
	switch id {
	case IDDelta:
		dist := 1
		if len(props) >= 1 {
			dist = int(props[0]) + 1
		}
		return NewDelta(dist), nil
	case IDBCJX86:
		return BCJX86{}, nil
	case IDBCJPowerPC:
		return BCJPowerPC{}, nil
	case IDBCJIA64:
		return BCJIA64{}, nil
	case IDBCJARM:
		return BCJARM{}, nil
	case IDBCJARMThumb:
		return BCJARMThumb{}, nil
	case IDBCJSPARC:
		return BCJSPARC{}, nil
	case IDBCJARM64:
		return BCJARM64{}, nil
	default:
		return nil, ErrUnsupportedFilter
	}
}
