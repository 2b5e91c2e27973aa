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

package codec

import (
	"fmt"
	"io"

	"github.com/archivekit/archivekit/filter"
	"github.com/archivekit/archivekit/internal/binutil"
)

// bcjArch selects which of section 4.7's BCJ variants a bcjCodec call
// addresses; the registry has one "bcj" entry covering every
// architecture (the XZ format likewise treats them as one filter
// category with different assigned IDs).
type bcjArch byte

const (
	archX86 bcjArch = iota
	archPowerPC
	archIA64
	archARM
	archARMThumb
	archSPARC
	archARM64
)

func (a bcjArch) filterID() (filter.ID, error) {
	switch a {
	case archX86:
		return filter.IDBCJX86, nil
	case archPowerPC:
		return filter.IDBCJPowerPC, nil
	case archIA64:
		return filter.IDBCJIA64, nil
	case archARM:
		return filter.IDBCJARM, nil
	case archARMThumb:
		return filter.IDBCJARMThumb, nil
	case archSPARC:
		return filter.IDBCJSPARC, nil
	case archARM64:
		return filter.IDBCJARM64, nil
	default:
		return 0, fmt.Errorf("codec: unknown bcj arch %d", a)
	}
}

// bcjCodec wraps the BCJ filter family (section 4.7) behind the codec
// contract. Its 5-byte properties are [arch byte, ip uint32 LE]; unlike
// the entropy coders, BCJ is length-preserving so no framing beyond that
// is needed.
type bcjCodec struct{}

func decodeBCJProps(props []byte) (filter.Filter, uint32, error) {
	if len(props) != 5 {
		return nil, 0, fmt.Errorf("codec: bcj props must be 5 bytes, got %d", len(props))
	}
	id, err := bcjArch(props[0]).filterID()
	if err != nil {
		return nil, 0, err
	}
	f, err := filter.New(id, nil)
	if err != nil {
		return nil, 0, err
	}
	return f, binutil.Uint32LE(props[1:5]), nil
}

func (bcjCodec) Encode(source io.Reader, sink io.Writer, props []byte, limits Limits) (Stats, error) {
	f, ip, err := decodeBCJProps(props)
	if err != nil {
		return Stats{}, newErr(InvalidArgument, "bcj encode props", err)
	}
	data, err := readAll(source, limits, "bcj encode")
	if err != nil {
		return Stats{}, err
	}
	out := f.Encode(data, ip)
	n, err := writeAll(sink, out, limits, "bcj encode")
	if err != nil {
		return Stats{}, err
	}
	return Stats{InputBytes: int64(len(data)), OutputBytes: n}, nil
}

func (bcjCodec) Decode(source io.Reader, sink io.Writer, props []byte, limits Limits) (Stats, error) {
	f, ip, err := decodeBCJProps(props)
	if err != nil {
		return Stats{}, newErr(InvalidArgument, "bcj decode props", err)
	}
	data, err := readAll(source, limits, "bcj decode")
	if err != nil {
		return Stats{}, err
	}
	out := f.Decode(data, ip)
	n, err := writeAll(sink, out, limits, "bcj decode")
	if err != nil {
		return Stats{}, err
	}
	return Stats{InputBytes: int64(len(data)), OutputBytes: n}, nil
}
