// Copyright 2026 Google LLC. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package keccak implements a Merkle tree hasher based on Keccak-256 with
// no domain separation between leaves and interior nodes.
package keccak

import (
	"hash"

	"github.com/transparency-dev/merkle"
	"golang.org/x/crypto/sha3"
)

// Size is the number of bytes in a Keccak-256 digest.
const Size = 32

// Hasher implements the merkle.LogHasher interface with Keccak-256.
//
// Leaves are hashed as keccak256(leaf) and interior nodes as
// keccak256(left || right).
type Hasher struct{}

// DefaultHasher is a Keccak-256 based merkle.LogHasher.
var DefaultHasher merkle.LogHasher = Hasher{}

// New returns a fresh Keccak-256 state. This is the legacy (pre-FIPS 202)
// padding used by Ethereum, not SHA3-256.
func New() hash.Hash {
	return sha3.NewLegacyKeccak256()
}

// Sum256 returns the Keccak-256 digest of the concatenation of data.
func Sum256(data ...[]byte) [Size]byte {
	h := New()
	for _, d := range data {
		h.Write(d)
	}
	var out [Size]byte
	h.Sum(out[:0])
	return out
}

// EmptyRoot returns the Keccak-256 digest of the empty string.
func (Hasher) EmptyRoot() []byte {
	return New().Sum(nil)
}

// HashLeaf returns the Merkle tree leaf hash of the data passed in through leaf.
func (Hasher) HashLeaf(leaf []byte) []byte {
	h := New()
	h.Write(leaf)
	return h.Sum(nil)
}

// HashChildren returns the inner Merkle tree node hash of the two child nodes l and r.
// The hashed structure is l||r.
func (Hasher) HashChildren(l, r []byte) []byte {
	h := New()
	h.Write(l)
	h.Write(r)
	return h.Sum(nil)
}

// Size returns the number of bytes in output hashes.
func (Hasher) Size() int {
	return Size
}
