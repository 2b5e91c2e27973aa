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

// Limits bounds one encode/decode call and carries its cancellation
// hook, per section 6's { max_output_bytes, progress_cb } pair.
type Limits struct {
	// MaxOutputBytes caps the bytes a call may produce; zero means
	// unbounded. Exceeding it fails the call with LimitExceeded at the
	// next byte-boundary safe point.
	MaxOutputBytes int64

	// Progress, if set, is called once per call, with done and total
	// both equal to the length of the output being written. Returning
	// false fails the call with Cancelled.
	Progress func(done, total int64) bool
}

func (l Limits) checkOutput(produced int64, context string) error {
	if l.MaxOutputBytes > 0 && produced > l.MaxOutputBytes {
		return newErr(LimitExceeded, context, nil)
	}
	return nil
}

func (l Limits) poll(done, total int64, context string) error {
	if l.Progress != nil && !l.Progress(done, total) {
		return newErr(Cancelled, context, nil)
	}
	return nil
}

// Stats summarizes a completed encode/decode call.
type Stats struct {
	InputBytes  int64
	OutputBytes int64
}
