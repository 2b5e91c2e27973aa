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

package lzma2

import (
	"fmt"

	"github.com/archivekit/archivekit/lzma"
)

// Decode parses a full LZMA2 chunk sequence, starting fresh (no
// dictionary carried in from a previous call) and decoding every chunk
// up to and including the end-of-stream control byte.
func Decode(data []byte, dictSize int) ([]byte, error) {
	dec := lzma.NewDecoder(lzma.Props{DictSize: dictSize})
	var out []byte
	havePropsEver := false

	pos := 0
	for {
		h, n, err := readChunkHeader(data[pos:])
		if err != nil {
			return out, err
		}
		pos += n
		if h.k == kindEndOfStream {
			return out, nil
		}

		if !h.k.isLZMA() {
			if pos+h.uncompressedSize > len(data) {
				return out, fmt.Errorf("%w: truncated uncompressed chunk payload", ErrCorrupt)
			}
			if h.k == kindUncompressedDictReset {
				dec.ResetDict()
			}
			raw := data[pos : pos+h.uncompressedSize]
			dec.PutUncompressed(raw)
			out = append(out, raw...)
			pos += h.uncompressedSize
			continue
		}

		if h.k.resetsDict() {
			dec.ResetDict()
		}
		if h.k.resetsProps() {
			lc, lp, pb, perr := lzma.DecodeByte(h.propsByte)
			if perr != nil {
				return out, perr
			}
			dec.ResetProps(lzma.Props{LC: lc, LP: lp, PB: pb, DictSize: dictSize})
			havePropsEver = true
		} else if h.k.resetsState() {
			dec.ResetState()
		}
		if !havePropsEver {
			return out, fmt.Errorf("%w: LZMA chunk before any properties were set", ErrCorrupt)
		}

		if pos+h.compressedSize > len(data) {
			return out, fmt.Errorf("%w: truncated LZMA chunk payload", ErrCorrupt)
		}
		chunkOut, derr := dec.Decode(data[pos:pos+h.compressedSize], int64(h.uncompressedSize))
		if derr != nil {
			return out, derr
		}
		out = append(out, chunkOut...)
		pos += h.compressedSize
	}
}

// EncodeOptions controls the chunking policy Encode uses.
type EncodeOptions struct {
	Props lzma.Props
	Level int // match-finder effort, 1-9; see lzwindow.NewFinder
}

// maxChunkInput bounds the uncompressed bytes fed to a single LZMA
// chunk's encoder. Every chunk here performs a full dictionary+state+
// props reset (the "dict+state+props reset" variant), so chunks are
// independently decodable and this bound only needs to keep the
// compressed output under MaxCompressedChunk in the common case — it is
// well inside MaxUncompressedChunk (2^21), trading a smaller backref
// window across chunk boundaries for a simpler, always-legal encoder.
const maxChunkInput = MaxStoreChunk

// Encode compresses data as a sequence of independently-resettable LZMA2
// chunks (each "dict+state+props reset") followed by the end-of-stream
// control byte.
func Encode(data []byte, opts EncodeOptions) ([]byte, error) {
	if err := opts.Props.Validate(); err != nil {
		return nil, err
	}
	var out []byte
	for pos := 0; pos < len(data); {
		end := pos + maxChunkInput
		if end > len(data) {
			end = len(data)
		}
		chunk := data[pos:end]

		enc := lzma.NewEncoder(opts.Props, opts.Level)
		compressed := enc.Encode(chunk)

		if len(compressed) >= len(chunk) || len(compressed) > MaxCompressedChunk {
			out = storeChunk(out, chunk, pos == 0)
		} else {
			out = writeChunkControlHeader(out, chunkHeader{
				k:                kindLZMADictStatePropsReset,
				uncompressedSize: len(chunk),
				compressedSize:   len(compressed),
				propsByte:        opts.Props.ByteEncode(),
				hasProps:         true,
			})
			out = append(out, compressed...)
		}
		pos = end
	}
	out = append(out, 0x00)
	return out, nil
}

// storeChunk emits chunk as one or more raw (uncompressed) LZMA2 chunks,
// each capped at MaxStoreChunk bytes.
func storeChunk(out []byte, chunk []byte, firstEver bool) []byte {
	for len(chunk) > 0 {
		n := len(chunk)
		if n > MaxStoreChunk {
			n = MaxStoreChunk
		}
		k := kindUncompressedNoReset
		if firstEver {
			k = kindUncompressedDictReset
		}
		out = writeChunkControlHeader(out, chunkHeader{k: k, uncompressedSize: n})
		out = append(out, chunk[:n]...)
		chunk = chunk[n:]
		firstEver = false
	}
	return out
}
