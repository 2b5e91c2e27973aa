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

package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func buildCLI(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "archivekit")
	cmd := exec.Command("go", "build", "-o", binPath, "github.com/archivekit/archivekit/cmd/archivekit")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, out)
	}
	return binPath
}

func TestCLIVersion(t *testing.T) {
	binPath := buildCLI(t)
	out, err := exec.Command(binPath, "version").CombinedOutput()
	if err != nil {
		t.Fatalf("version command failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "archivekit version") {
		t.Errorf("version output = %q, want it to contain %q", out, "archivekit version")
	}
}

func TestCLIUnknownCommand(t *testing.T) {
	binPath := buildCLI(t)
	if err := exec.Command(binPath, "bogus").Run(); err == nil {
		t.Error("expected a non-zero exit for an unknown command")
	}
}

func TestCLIEncodeDecodeXZRoundTrip(t *testing.T) {
	binPath := buildCLI(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "input.txt")
	want := bytes.Repeat([]byte("archivekit cli round trip "), 500)
	if err := os.WriteFile(src, want, 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	xzPath := filepath.Join(dir, "input.xz")
	encodeOut, err := exec.Command(binPath, "encode", "-in", src, "-out", xzPath, "-check", "sha256").CombinedOutput()
	if err != nil {
		t.Fatalf("encode failed: %v\n%s", err, encodeOut)
	}

	decodedPath := filepath.Join(dir, "decoded.txt")
	decodeOut, err := exec.Command(binPath, "decode", "-in", xzPath, "-out", decodedPath).CombinedOutput()
	if err != nil {
		t.Fatalf("decode failed: %v\n%s", err, decodeOut)
	}

	got, err := os.ReadFile(decodedPath)
	if err != nil {
		t.Fatalf("ReadFile error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(want))
	}
}

func TestCLIInfoReportsBlocksAndCheck(t *testing.T) {
	binPath := buildCLI(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(src, bytes.Repeat([]byte("info command test data "), 200), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
	xzPath := filepath.Join(dir, "input.xz")
	if out, err := exec.Command(binPath, "encode", "-in", src, "-out", xzPath, "-check", "crc32", "-filter", "bcj-x86").CombinedOutput(); err != nil {
		t.Fatalf("encode failed: %v\n%s", err, out)
	}

	out, err := exec.Command(binPath, "info", "-in", xzPath).CombinedOutput()
	if err != nil {
		t.Fatalf("info failed: %v\n%s", err, out)
	}
	outStr := string(out)
	if !strings.Contains(outStr, "Check: crc32") {
		t.Errorf("info output missing check type: %s", outStr)
	}
	if !strings.Contains(outStr, "Blocks: 1") {
		t.Errorf("info output missing block count: %s", outStr)
	}
	if !strings.Contains(outStr, "2 filter(s)") {
		t.Errorf("info output missing filter count: %s", outStr)
	}
}

func TestCLIEncodeDecodeDirectCodec(t *testing.T) {
	binPath := buildCLI(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "input.bin")
	want := bytes.Repeat([]byte{0x01, 0x02, 0x03, 0x04}, 300)
	if err := os.WriteFile(src, want, 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	encodedPath := filepath.Join(dir, "input.store")
	if out, err := exec.Command(binPath, "encode", "-in", src, "-out", encodedPath, "-codec", "store").CombinedOutput(); err != nil {
		t.Fatalf("encode failed: %v\n%s", err, out)
	}

	decodedPath := filepath.Join(dir, "decoded.bin")
	if out, err := exec.Command(binPath, "decode", "-in", encodedPath, "-out", decodedPath, "-codec", "store").CombinedOutput(); err != nil {
		t.Fatalf("decode failed: %v\n%s", err, out)
	}

	got, err := os.ReadFile(decodedPath)
	if err != nil {
		t.Fatalf("ReadFile error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("round trip mismatch")
	}
}

func TestCLIEncodeMissingArgs(t *testing.T) {
	binPath := buildCLI(t)
	if err := exec.Command(binPath, "encode").Run(); err == nil {
		t.Error("expected a non-zero exit for missing -in/-out")
	}
}
