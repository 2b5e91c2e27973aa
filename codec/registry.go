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

import "io"

// ID names a codec variant in the registry, matching section 6's tagged
// set: store, deflate, lzma, lzma2, ppmd7, bcj(arch), bcj2, delta.
type ID string

const (
	Store   ID = "store"
	Deflate ID = "deflate"
	LZMA    ID = "lzma"
	LZMA2   ID = "lzma2"
	PPMd7   ID = "ppmd7"
	BCJ     ID = "bcj"
	BCJ2    ID = "bcj2"
	Delta   ID = "delta"
)

// Codec is the contract of section 6: decode/encode over byte-source
// and byte-sink abstractions, codec-specific properties, and shared
// limits.
type Codec interface {
	Encode(source io.Reader, sink io.Writer, props []byte, limits Limits) (Stats, error)
	Decode(source io.Reader, sink io.Writer, props []byte, limits Limits) (Stats, error)
}

// Registry maps codec IDs to their implementation.
type Registry struct {
	codecs map[ID]Codec
}

// NewRegistry returns a registry pre-populated with every codec this
// module implements.
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[ID]Codec)}
	r.Register(Store, storeCodec{})
	r.Register(Deflate, deflateCodec{})
	r.Register(LZMA, lzmaCodec{})
	r.Register(LZMA2, lzma2Codec{})
	r.Register(PPMd7, ppmd7Codec{})
	r.Register(BCJ, bcjCodec{})
	r.Register(BCJ2, bcj2Codec{})
	r.Register(Delta, deltaCodec{})
	return r
}

// Register installs or replaces the codec for id.
func (r *Registry) Register(id ID, c Codec) {
	r.codecs[id] = c
}

// Get returns the codec for id, or Unsupported if none is registered.
func (r *Registry) Get(id ID) (Codec, error) {
	c, ok := r.codecs[id]
	if !ok {
		return nil, newErr(Unsupported, string(id), nil)
	}
	return c, nil
}

// readAll reads source fully into memory, applying limits.MaxOutputBytes
// as a ceiling on the INPUT read so a hostile, unbounded source can't
// exhaust memory before a codec even runs (the output-side checks in
// each codec catch the decompressed-size case).
func readAll(source io.Reader, limits Limits, context string) ([]byte, error) {
	if limits.MaxOutputBytes > 0 {
		limited := io.LimitReader(source, limits.MaxOutputBytes+1)
		data, err := io.ReadAll(limited)
		if err != nil {
			return nil, newErr(Corrupt, context, err)
		}
		if int64(len(data)) > limits.MaxOutputBytes {
			return nil, newErr(LimitExceeded, context, nil)
		}
		return data, nil
	}
	data, err := io.ReadAll(source)
	if err != nil {
		return nil, newErr(Corrupt, context, err)
	}
	return data, nil
}

// writeAll validates data against limits, writes it to sink, and
// returns the byte count written. Callers fill in Stats.InputBytes
// themselves from whatever they fed the codec.
func writeAll(sink io.Writer, data []byte, limits Limits, context string) (int64, error) {
	if err := limits.checkOutput(int64(len(data)), context); err != nil {
		return 0, err
	}
	if err := limits.poll(int64(len(data)), int64(len(data)), context); err != nil {
		return 0, err
	}
	if _, err := sink.Write(data); err != nil {
		return 0, newErr(Corrupt, context, err)
	}
	return int64(len(data)), nil
}
