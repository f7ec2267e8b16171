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

// Package commitment derives Merkle tree leaves from proof verification
// records.
package commitment

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/batchverify/merkle/keccak"
	"github.com/google/batchverify/verification"
	"golang.org/x/sync/errgroup"
)

// LeafSize is the length of the serialized commitment that is hashed into a
// leaf.
const LeafSize = 3*keccak.Size + common.AddressLength

// Commitment binds the contents of one verification record.
type Commitment struct {
	ProofCommitment    [keccak.Size]byte
	PubInputCommitment [keccak.Size]byte
	// AuxDataCommitment commits to the VM program code if present, and
	// otherwise to the verification key.
	AuxDataCommitment  [keccak.Size]byte
	ProofGeneratorAddr common.Address
}

// New returns the commitment of d. Absent optional fields commit to 32 zero
// bytes. The result depends only on d.
func New(d *verification.Data) Commitment {
	c := Commitment{
		ProofCommitment:    keccak.Sum256(d.Proof),
		ProofGeneratorAddr: d.ProofGeneratorAddr,
	}
	if d.PubInput != nil {
		c.PubInputCommitment = keccak.Sum256(d.PubInput)
	}
	switch {
	case d.VMProgramCode != nil:
		c.AuxDataCommitment = keccak.Sum256(d.VMProgramCode)
	case d.VerificationKey != nil:
		c.AuxDataCommitment = keccak.Sum256(d.VerificationKey)
	}
	return c
}

// Bytes returns proof || pub_input || aux_data || proof_generator_addr.
func (c *Commitment) Bytes() []byte {
	b := make([]byte, 0, LeafSize)
	b = append(b, c.ProofCommitment[:]...)
	b = append(b, c.PubInputCommitment[:]...)
	b = append(b, c.AuxDataCommitment[:]...)
	return append(b, c.ProofGeneratorAddr[:]...)
}

// LeafHash returns the Merkle tree leaf for c.
func (c *Commitment) LeafHash() []byte {
	return keccak.DefaultHasher.HashLeaf(c.Bytes())
}

// Batch is an ordered sequence of commitments, one per record.
type Batch []Commitment

// NewBatch returns the commitments of records in input order. When workers is
// greater than one, records are committed concurrently by up to that many
// goroutines.
func NewBatch(records []verification.Data, workers int) Batch {
	b := make(Batch, len(records))
	if workers <= 1 || len(records) < 2 {
		for i := range records {
			b[i] = New(&records[i])
		}
		return b
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range records {
		g.Go(func() error {
			b[i] = New(&records[i])
			return nil
		})
	}
	_ = g.Wait() // Workers never fail.
	return b
}

// Leaves returns the leaf hash of each commitment, in order.
func (b Batch) Leaves() [][]byte {
	leaves := make([][]byte, len(b))
	for i := range b {
		leaves[i] = b[i].LeafHash()
	}
	return leaves
}
