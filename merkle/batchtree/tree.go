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

// Package batchtree builds the binary Merkle tree over an ordered batch of
// leaf hashes and computes its root.
//
// The leaf level is extended to the next power of two by repeating the last
// leaf, so every level has an even number of nodes and the tree is perfect.
// Each interior node is HashChildren(left, right). A batch of one leaf has
// that leaf as its root, and an empty batch has no root.
package batchtree

import (
	"bytes"
	"errors"
	"fmt"
	"math/bits"

	"github.com/transparency-dev/merkle"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrEmptyBatch is returned when building a tree with no leaves.
	ErrEmptyBatch = errors.New("batchtree: empty batch")
	// ErrLeafSize is returned when a leaf is not exactly one hash long.
	ErrLeafSize = errors.New("batchtree: leaf has wrong size")
)

// Tree is a perfect binary Merkle tree over a padded batch of leaves.
type Tree struct {
	hasher merkle.LogHasher
	size   uint64
	hashes [][][]byte // Node hashes, indexed by node (level, index).
}

type options struct {
	workers   int
	threshold int
}

// Option configures tree construction.
type Option func(*options)

// WithConcurrency hashes levels with at least threshold nodes on up to
// workers goroutines. Each level is complete before the next one starts, so
// the result is identical to a sequential build.
func WithConcurrency(workers, threshold int) Option {
	return func(o *options) {
		o.workers = workers
		o.threshold = threshold
	}
}

// PaddedSize returns the number of leaves in the perfect tree holding size
// leaves, i.e. the smallest power of two >= size. It returns 0 for size 0.
func PaddedSize(size uint64) uint64 {
	if size == 0 {
		return 0
	}
	return 1 << bits.Len64(size-1)
}

// New builds the tree over leaves, which must be hashes of the hasher's size.
// The leaves slice is not retained, but the hashes it holds are.
func New(hasher merkle.LogHasher, leaves [][]byte, opts ...Option) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyBatch
	}
	for i, l := range leaves {
		if got, want := len(l), hasher.Size(); got != want {
			return nil, fmt.Errorf("%w: leaf %d has %d bytes, want %d", ErrLeafSize, i, got, want)
		}
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	size := uint64(len(leaves))
	level := make([][]byte, PaddedSize(size))
	copy(level, leaves)
	for i := size; i < uint64(len(level)); i++ {
		level[i] = leaves[size-1]
	}

	t := &Tree{hasher: hasher, size: size}
	t.hashes = append(t.hashes, level)
	for len(level) > 1 {
		if o.workers > 1 && len(level) >= o.threshold {
			level = t.parentsConcurrent(level, o.workers)
		} else {
			level = t.parents(level)
		}
		t.hashes = append(t.hashes, level)
	}
	return t, nil
}

func (t *Tree) parents(level [][]byte) [][]byte {
	next := make([][]byte, len(level)/2)
	hashPairs(t.hasher, level, next, 0, len(next))
	return next
}

// parentsConcurrent splits the level into one contiguous run of pairs per
// worker. Workers write disjoint ranges of the result.
func (t *Tree) parentsConcurrent(level [][]byte, workers int) [][]byte {
	next := make([][]byte, len(level)/2)
	chunk := (len(next) + workers - 1) / workers
	var g errgroup.Group
	for begin := 0; begin < len(next); begin += chunk {
		end := min(begin+chunk, len(next))
		g.Go(func() error {
			hashPairs(t.hasher, level, next, begin, end)
			return nil
		})
	}
	_ = g.Wait() // Workers never fail.
	return next
}

func hashPairs(hasher merkle.LogHasher, level, next [][]byte, begin, end int) {
	for i := begin; i < end; i++ {
		next[i] = hasher.HashChildren(level[2*i], level[2*i+1])
	}
}

// Size returns the number of leaves the tree was built from, excluding
// padding.
func (t *Tree) Size() uint64 {
	return t.size
}

// PaddedSize returns the number of leaves including padding.
func (t *Tree) PaddedSize() uint64 {
	return uint64(len(t.hashes[0]))
}

// Height returns the number of levels above the leaves.
func (t *Tree) Height() int {
	return len(t.hashes) - 1
}

// LeafHash returns the leaf hash at the given index.
// Requires 0 <= index < Size(), otherwise panics.
func (t *Tree) LeafHash(index uint64) []byte {
	if index >= t.size {
		panic(fmt.Sprintf("leaf index %d out of range for tree of size %d", index, t.size))
	}
	return bytes.Clone(t.hashes[0][index])
}

// Root returns the root hash of the tree.
func (t *Tree) Root() []byte {
	return bytes.Clone(t.hashes[len(t.hashes)-1][0])
}
