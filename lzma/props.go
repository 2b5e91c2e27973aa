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

// Package lzma implements the LZMA codec: the 12-state packet machine,
// its range-coded probability models, and the single-byte/5-byte
// property encoding shared with LZMA2 and 7z containers.
package lzma

import (
	"errors"
	"fmt"

	"github.com/archivekit/archivekit/lzwindow"
)

// ErrInvalidProps is returned when a property byte or dictionary size is
// out of range.
var ErrInvalidProps = errors.New("lzma: invalid properties")

// Props holds the three literal/position context widths and the
// dictionary size, per section 3's (lc, lp, pb, dict_size) tuple.
type Props struct {
	LC       int // literal context bits, 0-8
	LP       int // literal position bits, 0-4
	PB       int // position bits, 0-4
	DictSize int
}

// Default matches the conventional LZMA default used when a container
// does not override it (lc=3, lp=0, pb=2).
func Default(dictSize int) Props {
	return Props{LC: 3, LP: 0, PB: 2, DictSize: dictSize}
}

// Validate checks lc, lp, pb ranges and the lc+lp<=4 constraint that
// bounds the literal-coder context table size.
func (p Props) Validate() error {
	if p.LC < 0 || p.LC > 8 {
		return fmt.Errorf("%w: lc=%d out of [0,8]", ErrInvalidProps, p.LC)
	}
	if p.LP < 0 || p.LP > 4 {
		return fmt.Errorf("%w: lp=%d out of [0,4]", ErrInvalidProps, p.LP)
	}
	if p.LC+p.LP > 4 {
		return fmt.Errorf("%w: lc+lp=%d exceeds 4", ErrInvalidProps, p.LC+p.LP)
	}
	if p.PB < 0 || p.PB > 4 {
		return fmt.Errorf("%w: pb=%d out of [0,4]", ErrInvalidProps, p.PB)
	}
	if p.DictSize < lzwindow.MinDictSize || p.DictSize > lzwindow.MaxDictSize {
		return fmt.Errorf("%w: dict_size=%d out of range", ErrInvalidProps, p.DictSize)
	}
	return nil
}

// ByteEncode packs (pb, lp, lc) into the single property byte used by
// the LZMA1 header and LZMA2 "reset with new props" chunks.
func (p Props) ByteEncode() byte {
	return byte((p.PB*5+p.LP)*9 + p.LC)
}

// DecodeByte unpacks a property byte into lc/lp/pb, validating the
// result fits the documented ranges.
func DecodeByte(b byte) (lc, lp, pb int, err error) {
	v := int(b)
	if v >= 9*5*5 {
		return 0, 0, 0, fmt.Errorf("%w: property byte %d out of range", ErrInvalidProps, b)
	}
	lc = v % 9
	v /= 9
	lp = v % 5
	pb = v / 5
	if pb > 4 {
		return 0, 0, 0, fmt.Errorf("%w: pb=%d out of [0,4]", ErrInvalidProps, pb)
	}
	return lc, lp, pb, nil
}

// EncodeHeader produces the classic 5-byte LZMA1 header: one property
// byte followed by a 4-byte little-endian dictionary size, as used by
// .lzma-alone files and 7z LZMA coder properties.
func (p Props) EncodeHeader() []byte {
	out := make([]byte, 5)
	out[0] = p.ByteEncode()
	out[1] = byte(p.DictSize)
	out[2] = byte(p.DictSize >> 8)
	out[3] = byte(p.DictSize >> 16)
	out[4] = byte(p.DictSize >> 24)
	return out
}

// DecodeHeader parses the 5-byte LZMA1 header.
func DecodeHeader(b []byte) (Props, error) {
	if len(b) < 5 {
		return Props{}, fmt.Errorf("%w: header too short", ErrInvalidProps)
	}
	lc, lp, pb, err := DecodeByte(b[0])
	if err != nil {
		return Props{}, err
	}
	dictSize := int(b[1]) | int(b[2])<<8 | int(b[3])<<16 | int(b[4])<<24
	p := Props{LC: lc, LP: lp, PB: pb, DictSize: dictSize}
	if err := p.Validate(); err != nil {
		return Props{}, err
	}
	return p, nil
}

func (p Props) posMask() uint32  { return uint32(1<<p.PB) - 1 }
func (p Props) litPosMask() uint32 { return uint32(1<<p.LP) - 1 }
