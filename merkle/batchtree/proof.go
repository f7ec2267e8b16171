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

package batchtree

import (
	"bytes"
	"errors"
	"fmt"
	"math/bits"

	"github.com/transparency-dev/merkle"
)

// RootMismatchError occurs when an inclusion proof evaluates to the wrong root.
type RootMismatchError struct {
	ExpectedRoot   []byte
	CalculatedRoot []byte
}

func (e RootMismatchError) Error() string {
	return fmt.Sprintf("calculated root:\n%v\n does not match expected root:\n%v", e.CalculatedRoot, e.ExpectedRoot)
}

// InclusionProof returns the sibling hashes on the path from the leaf at
// index to the root, ordered from the leaf level upwards.
func (t *Tree) InclusionProof(index uint64) ([][]byte, error) {
	if index >= t.size {
		return nil, fmt.Errorf("index %d out of range for tree of size %d", index, t.size)
	}
	proof := make([][]byte, 0, t.Height())
	for level := 0; level < t.Height(); level++ {
		proof = append(proof, bytes.Clone(t.hashes[level][index^1]))
		index >>= 1
	}
	return proof, nil
}

// RootFromInclusionProof calculates the expected root hash for a tree of the
// given size, provided a leaf index and hash with the corresponding inclusion
// proof.
func RootFromInclusionProof(hasher merkle.LogHasher, index, size uint64, leafHash []byte, proof [][]byte) ([]byte, error) {
	if index >= size {
		return nil, fmt.Errorf("index is beyond size: %d >= %d", index, size)
	}
	if got, want := len(leafHash), hasher.Size(); got != want {
		return nil, fmt.Errorf("%w: leaf has %d bytes, want %d", ErrLeafSize, got, want)
	}
	if got, want := len(proof), bits.Len64(PaddedSize(size))-1; got != want {
		return nil, fmt.Errorf("wrong proof size %d, want %d", got, want)
	}
	h := leafHash
	for _, sibling := range proof {
		if index&1 == 0 {
			h = hasher.HashChildren(h, sibling)
		} else {
			h = hasher.HashChildren(sibling, h)
		}
		index >>= 1
	}
	return h, nil
}

// VerifyInclusion verifies the correctness of the inclusion proof for the leaf
// with the specified hash and index, relatively to the tree of the given size
// and root hash. Requires 0 <= index < size.
func VerifyInclusion(hasher merkle.LogHasher, index, size uint64, leafHash []byte, proof [][]byte, root []byte) error {
	calcRoot, err := RootFromInclusionProof(hasher, index, size, leafHash, proof)
	if err != nil {
		return err
	}
	if !bytes.Equal(calcRoot, root) {
		return RootMismatchError{ExpectedRoot: root, CalculatedRoot: calcRoot}
	}
	return nil
}

// IsRootMismatch reports whether err is a RootMismatchError.
func IsRootMismatch(err error) bool {
	var e RootMismatchError
	return errors.As(err, &e)
}
