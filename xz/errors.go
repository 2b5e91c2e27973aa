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

import "errors"

// The failure classes section 4.8 names, one sentinel apiece so callers
// can classify with errors.Is regardless of the wrapping added along
// the way.
var (
	ErrInvalidMagic       = errors.New("xz: invalid magic")
	ErrUnsupportedVersion = errors.New("xz: unsupported stream header version")
	ErrUnsupportedCheck   = errors.New("xz: unsupported integrity check")
	ErrUnsupportedFilter  = errors.New("xz: unsupported filter id")
	ErrFilterTooMany      = errors.New("xz: more than four filters in chain")
	ErrFilterOrderInvalid = errors.New("xz: filter chain order invalid")
	ErrBlockCorrupt       = errors.New("xz: corrupt block")
	ErrIndexMismatch      = errors.New("xz: index does not match stream contents")
	ErrCheckMismatch      = errors.New("xz: integrity check mismatch")
)
