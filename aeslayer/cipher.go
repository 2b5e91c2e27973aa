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

package aeslayer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
)

// ErrPasswordIncorrect is returned for any ciphertext that fails to
// decrypt to a validly-padded plaintext. Per section 4.9, when no MAC
// covers the plaintext the library must not distinguish a wrong
// password from corrupted ciphertext, since doing so is a padding
// oracle.
var ErrPasswordIncorrect = errors.New("aeslayer: password incorrect or ciphertext corrupt")

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// BlockSize is the AES block size, also the CBC IV length.
const BlockSize = aes.BlockSize

// NewIV returns a fresh random IV suitable for one CBC encryption.
func NewIV() ([]byte, error) {
	iv := make([]byte, BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}
	return iv, nil
}

func pkcs7Pad(data []byte) []byte {
	pad := BlockSize - len(data)%BlockSize
	out := make([]byte, len(data)+pad)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(pad)
	}
	return out
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%BlockSize != 0 {
		return nil, ErrPasswordIncorrect
	}
	pad := int(data[len(data)-1])
	if pad == 0 || pad > BlockSize || pad > len(data) {
		return nil, ErrPasswordIncorrect
	}
	for _, b := range data[len(data)-pad:] {
		if int(b) != pad {
			return nil, ErrPasswordIncorrect
		}
	}
	return data[:len(data)-pad], nil
}

// Encrypt pads plaintext with PKCS#7 and encrypts it with AES-256-CBC
// under key and iv. key must be KeySize bytes and iv must be BlockSize
// bytes.
func Encrypt(key, iv, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	padded := pkcs7Pad(plaintext)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

// Decrypt reverses Encrypt. It returns ErrPasswordIncorrect for any
// ciphertext whose length or trailing padding is invalid, never a more
// specific diagnosis.
func Decrypt(key, iv, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return nil, ErrPasswordIncorrect
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return pkcs7Unpad(out)
}
