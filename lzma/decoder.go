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

package lzma

import (
	"errors"
	"fmt"

	"github.com/archivekit/archivekit/lzwindow"
	"github.com/archivekit/archivekit/rangecoder"
)

// ErrCorrupt is returned when the range coder ran past the end of its
// input before the declared output was produced, or the bitstream
// otherwise violates the packet grammar.
var ErrCorrupt = errors.New("lzma: corrupt stream")

// Decoder holds one block's worth of LZMA state: the probability
// models, the 12-state packet machine, the four rep distances and the
// sliding-window dictionary. It is single-owner and block-scoped, per
// the concurrency model: never shared across goroutines while active.
type Decoder struct {
	props Props
	win   *lzwindow.Window
	m     *models
	st    state
	rp    reps
	rc    rangecoder.Decoder
}

// NewDecoder allocates a decoder for the given properties.
func NewDecoder(props Props) *Decoder {
	return &Decoder{props: props, win: lzwindow.NewWindow(props.DictSize), m: newModels(props)}
}

// ResetState reinitializes the probability models, packet state and rep
// distances without touching the dictionary, LZMA2's "state reset"
// chunk kind.
func (d *Decoder) ResetState() {
	d.m.resetState()
	d.st = stLitLit
	d.rp = reps{}
}

// ResetProps additionally reallocates the literal table for new lc/lp
// values, LZMA2's "state+props reset" chunk kind.
func (d *Decoder) ResetProps(p Props) {
	d.props = p
	d.m = newModels(p)
	d.st = stLitLit
	d.rp = reps{}
}

// ResetDict empties the sliding window, LZMA2's "dict reset" flag.
func (d *Decoder) ResetDict() {
	d.win.Reset()
}

// PutUncompressed appends raw bytes directly into the sliding window,
// the LZMA2 uncompressed-chunk path (section 4.5) that bypasses the
// range coder entirely but must still be visible to later chunks'
// back-references.
func (d *Decoder) PutUncompressed(data []byte) {
	for _, b := range data {
		d.win.PutByte(b)
	}
}

// Decode decompresses exactly outLen bytes from compressed, or until an
// end marker is reached when outLen < 0. The underlying window persists
// across calls so LZMA2 chunk sequences can reference earlier chunks'
// output.
func (d *Decoder) Decode(compressed []byte, outLen int64) ([]byte, error) {
	if err := d.rc.Init(compressed); err != nil {
		return nil, err
	}
	out := make([]byte, 0, maxInt64(outLen, 0))
	for outLen < 0 || int64(len(out)) < outLen {
		posState := uint32(d.win.Total()) & d.props.posMask()

		if d.rc.DecodeBit(&d.m.isMatch[d.st][posState]) == 0 {
			sym, err := d.decodeOneLiteral(posState)
			if err != nil {
				return out, err
			}
			out = append(out, sym)
			continue
		}

		var length int
		if d.rc.DecodeBit(&d.m.isRep[d.st]) == 0 {
			lenMinus2 := decodeLen(&d.rc, d.m.matchLen, posState)
			dist := decodeDistance(&d.rc, d.m, lenMinus2)
			if dist == EndMarkerDistance {
				if d.rc.Exhausted() {
					return out, fmt.Errorf("%w: end marker past input", ErrCorrupt)
				}
				return out, nil
			}
			d.rp.pushNew(dist)
			length = int(lenMinus2) + matchMinLen
			d.st = d.st.afterMatch()
		} else {
			if d.rc.DecodeBit(&d.m.isRepG0[d.st]) == 0 {
				if d.rc.DecodeBit(&d.m.isRep0Long[d.st][posState]) == 0 {
					d.st = d.st.afterShortRep()
					b, err := d.win.GetByte(int(d.rp[0]) + 1)
					if err != nil {
						return out, fmt.Errorf("%w: %v", ErrCorrupt, err)
					}
					d.win.PutByte(b)
					out = append(out, b)
					continue
				}
			} else {
				var idx int
				if d.rc.DecodeBit(&d.m.isRepG1[d.st]) == 0 {
					idx = 1
				} else if d.rc.DecodeBit(&d.m.isRepG2[d.st]) == 0 {
					idx = 2
				} else {
					idx = 3
				}
				d.rp.useRep(idx)
			}
			lenMinus2 := decodeLen(&d.rc, d.m.repLen, posState)
			length = int(lenMinus2) + matchMinLen
			d.st = d.st.afterRep()
		}

		for i := 0; i < length; i++ {
			b, err := d.win.GetByte(int(d.rp[0]) + 1)
			if err != nil {
				return out, fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
			d.win.PutByte(b)
			out = append(out, b)
		}
	}
	if d.rc.Exhausted() {
		return out, fmt.Errorf("%w: truncated input", ErrCorrupt)
	}
	return out, nil
}

func (d *Decoder) decodeOneLiteral(posState uint32) (byte, error) {
	var prevByte byte
	if d.win.Total() > 0 {
		b, err := d.win.GetByte(1)
		if err != nil {
			return 0, err
		}
		prevByte = b
	}
	ls := litState(d.props, uint32(d.win.Total()), prevByte)
	probs := d.m.literal[ls][:]

	var sym byte
	if d.st.isLiteral() {
		sym = decodeLiteral(&d.rc, probs)
	} else {
		matchByte, err := d.win.GetByte(int(d.rp[0]) + 1)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		sym = decodeMatchedLiteral(&d.rc, probs, matchByte)
	}
	d.win.PutByte(sym)
	d.st = d.st.afterLiteral()
	return sym, nil
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
