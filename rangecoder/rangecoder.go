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

// Package rangecoder implements the LZMA-style binary arithmetic range
// coder shared by lzma, lzma2, ppmd7 and the BCJ2 filter. It is
// block-scoped and single-owner: one Encoder or Decoder per block, never
// shared across goroutines while active.
package rangecoder

const (
	// topValue is the renormalization threshold: range must stay at or
	// above 1<<24 after every Encode/Decode call.
	topValue = 1 << 24

	// NumBitModelTotalBits is the probability precision in bits.
	NumBitModelTotalBits = 11
	// ProbInitial is the initial (0.5) probability value.
	ProbInitial uint16 = 1 << (NumBitModelTotalBits - 1)
	// moveBits is the adaptation shift applied on every bit coded.
	moveBits = 5
)

// Prob is an adaptive bit probability in [0, 1<<NumBitModelTotalBits].
type Prob = uint16

// NewProbs allocates a slice of n probabilities, all initialized to 0.5.
func NewProbs(n int) []Prob {
	p := make([]Prob, n)
	for i := range p {
		p[i] = ProbInitial
	}
	return p
}

// ResetProbs reinitializes an existing probability slice in place,
// avoiding an allocation on LZMA2 state-reset chunks.
func ResetProbs(p []Prob) {
	for i := range p {
		p[i] = ProbInitial
	}
}

// Encoder is the arithmetic range encoder. The zero value is not usable;
// call Init before encoding.
type Encoder struct {
	low       uint64
	rng       uint32
	cacheSize int64
	cache     byte
	out       []byte
}

// Init resets the encoder to its initial state. Call once per block.
func (e *Encoder) Init() {
	e.low = 0
	e.rng = 0xFFFFFFFF
	e.cacheSize = 1
	e.cache = 0
	e.out = e.out[:0]
}

// Bytes returns the bytes emitted so far.
func (e *Encoder) Bytes() []byte { return e.out }

func (e *Encoder) shiftLow() {
	if uint32(e.low>>32) != 0 || e.low < 0xFF000000 {
		temp := e.cache
		for {
			e.out = append(e.out, temp+byte(e.low>>32))
			temp = 0xFF
			e.cacheSize--
			if e.cacheSize == 0 {
				break
			}
		}
		e.cache = byte(e.low >> 24)
	}
	e.cacheSize++
	e.low = (e.low << 8) & 0xFFFFFFFF
}

// EncodeBit encodes a single bit against probability *prob, updating it
// with the standard LZMA shift-5 adaptation.
func (e *Encoder) EncodeBit(prob *Prob, bit uint32) {
	bound := (e.rng >> NumBitModelTotalBits) * uint32(*prob)
	if bit == 0 {
		e.rng = bound
		*prob += ((1 << NumBitModelTotalBits) - *prob) >> moveBits
	} else {
		e.low += uint64(bound)
		e.rng -= bound
		*prob -= *prob >> moveBits
	}
	for e.rng < topValue {
		e.rng <<= 8
		e.shiftLow()
	}
}

// EncodeDirectBits encodes n bits (0 <= n <= 32) with a flat 1/2
// probability, used for distance alignment and header fields.
func (e *Encoder) EncodeDirectBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		e.rng >>= 1
		bit := (v >> uint(i)) & 1
		if bit != 0 {
			e.low += uint64(e.rng)
		}
		for e.rng < topValue {
			e.rng <<= 8
			e.shiftLow()
		}
	}
}

// EncodeFreq encodes a cumulative-frequency interval [cumFreq,
// cumFreq+freq) out of total, the fractional-coding step PPMd7 uses for
// its frequency-indexed symbols.
func (e *Encoder) EncodeFreq(cumFreq, freq, total uint32) {
	r := e.rng / total
	e.low += uint64(r) * uint64(cumFreq)
	e.rng = r * freq
	for e.rng < topValue {
		e.rng <<= 8
		e.shiftLow()
	}
}

// Finalize flushes the 5 trailing bytes that make every encoder/decoder
// pair agree on where the stream ends.
func (e *Encoder) Finalize() {
	for i := 0; i < 5; i++ {
		e.shiftLow()
	}
}

// Decoder is the arithmetic range decoder, the mirror image of Encoder.
type Decoder struct {
	rng       uint32
	code      uint32
	in        []byte
	pos       int
	exhausted bool
}

// Init consumes the 5-byte decoder header (the first byte is always 0,
// a historical artifact of the reference LZMA SDK's byte alignment) and
// must be called once per block before decoding.
func (d *Decoder) Init(in []byte) error {
	d.in = in
	d.pos = 0
	d.rng = 0xFFFFFFFF
	d.code = 0
	d.exhausted = false
	for i := 0; i < 5; i++ {
		d.code = (d.code << 8) | uint32(d.nextByte())
	}
	return nil
}

// Exhausted reports whether the decoder ran past the end of its input
// since Init; the consuming codec must treat this as a framing error
// once it has consumed the declared uncompressed size.
func (d *Decoder) Exhausted() bool { return d.exhausted }

func (d *Decoder) nextByte() byte {
	if d.pos >= len(d.in) {
		d.exhausted = true
		return 0
	}
	b := d.in[d.pos]
	d.pos++
	return b
}

func (d *Decoder) normalize() {
	for d.rng < topValue {
		d.code = (d.code << 8) | uint32(d.nextByte())
		d.rng <<= 8
	}
}

// DecodeBit decodes one bit against probability *prob, updating it with
// the same adaptation EncodeBit applies.
func (d *Decoder) DecodeBit(prob *Prob) uint32 {
	bound := (d.rng >> NumBitModelTotalBits) * uint32(*prob)
	var bit uint32
	if d.code < bound {
		d.rng = bound
		*prob += ((1 << NumBitModelTotalBits) - *prob) >> moveBits
		bit = 0
	} else {
		d.code -= bound
		d.rng -= bound
		*prob -= *prob >> moveBits
		bit = 1
	}
	d.normalize()
	return bit
}

// DecodeDirectBits decodes n bits with flat 1/2 probability.
func (d *Decoder) DecodeDirectBits(n int) uint32 {
	var res uint32
	for i := 0; i < n; i++ {
		d.rng >>= 1
		t := (d.code - d.rng) >> 31
		d.code -= d.rng & (t - 1)
		res = (res << 1) | (1 - t)
		d.normalize()
	}
	return res
}

// DecodeFreq returns the cumulative frequency the current code point
// falls into, given the total frequency of a PPMd7-style symbol set.
// The caller must follow up with NormalizeFreq once it knows which
// symbol (cumFreq, freq) that point selected.
func (d *Decoder) DecodeFreq(total uint32) uint32 {
	d.rng /= total
	cum := d.code / d.rng
	if cum >= total {
		cum = total - 1
	}
	return cum
}

// NormalizeFreq narrows the decoder state to the [cumFreq, cumFreq+freq)
// interval chosen by the caller after DecodeFreq.
func (d *Decoder) NormalizeFreq(cumFreq, freq uint32) {
	d.code -= d.rng * cumFreq
	d.rng *= freq
	d.normalize()
}
