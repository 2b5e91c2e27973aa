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
	"crypto/sha256"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/archivekit/archivekit/lzma2"
)

// CachedReader is section 4.10's optional checkpoint-cache path: the
// lzma2 codec this package is built on doesn't expose mid-stream
// checkpoints, so instead of re-decoding a whole block on every
// extract, CachedReader remembers the full decoded buffer of the last
// few distinct blocks it has seen and reuses it across calls keyed by
// the same compressed bytes.
type CachedReader struct {
	cache *lru.Cache[[32]byte, []byte]
}

// NewCachedReader returns a reader caching up to size distinct decoded
// blocks.
func NewCachedReader(size int) (*CachedReader, error) {
	c, err := lru.New[[32]byte, []byte](size)
	if err != nil {
		return nil, err
	}
	return &CachedReader{cache: c}, nil
}

// Extract decodes compressed (or reuses a cached decode of it) and
// returns the named entry's bytes.
func (r *CachedReader) Extract(entries []Entry, compressed []byte, dictSize int, name string) ([]byte, error) {
	e, ok := findEntry(entries, name)
	if !ok {
		return nil, ErrEntryNotFound
	}
	full, err := r.decode(compressed, dictSize)
	if err != nil {
		return nil, err
	}
	return sliceEntry(full, e)
}

func (r *CachedReader) decode(compressed []byte, dictSize int) ([]byte, error) {
	key := sha256.Sum256(compressed)
	if full, ok := r.cache.Get(key); ok {
		return full, nil
	}
	full, err := lzma2.Decode(compressed, dictSize)
	if err != nil {
		return nil, err
	}
	r.cache.Add(key, full)
	return full, nil
}
