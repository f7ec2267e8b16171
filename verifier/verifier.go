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

// Package verifier checks that a serialized batch of verification records
// hashes to an expected Merkle root.
//
// A verification is a pure, synchronous computation over caller supplied
// bytes. It moves linearly through the stages Received, Decoded, Committed,
// TreeBuilt, Compared and Done, and stops at the first failure. Failures are
// reported as errors carrying one of the conditions in the errors package and
// are never fatal to the caller.
package verifier

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	verrors "github.com/google/batchverify/errors"
	"github.com/google/batchverify/merkle/batchtree"
	"github.com/google/batchverify/merkle/commitment"
	"github.com/google/batchverify/merkle/keccak"
	"github.com/google/batchverify/merkle/root"
	"github.com/google/batchverify/monitoring"
	"github.com/google/batchverify/verification"
	"github.com/transparency-dev/merkle"
	"k8s.io/klog/v2"
)

// MaxBatchSize is the default capacity of a batch buffer in bytes.
const MaxBatchSize = 2 * 1024 * 1024 * 10

// DefaultParallelThreshold is the number of records from which commitments
// and tree levels are computed concurrently.
const DefaultParallelThreshold = 1024

// Verification failure conditions, as defined in the errors package.
var (
	ErrOversizedInput     = verrors.OversizedInput
	ErrMalformedBatch     = verrors.MalformedBatch
	ErrEmptyBatch         = verrors.EmptyBatch
	ErrRootLengthMismatch = verrors.RootLengthMismatch
	ErrRootMismatch       = verrors.RootMismatch
	ErrInternal           = verrors.Internal
)

type stage int

const (
	received stage = iota
	decoded
	committed
	treeBuilt
	compared
	done
)

func (s stage) String() string {
	switch s {
	case received:
		return "Received"
	case decoded:
		return "Decoded"
	case committed:
		return "Committed"
	case treeBuilt:
		return "TreeBuilt"
	case compared:
		return "Compared"
	case done:
		return "Done"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Verifier recomputes batch roots. It holds no per-call state and is safe for
// concurrent use.
type Verifier struct {
	hasher       merkle.LogHasher
	maxBatchSize int
	workers      int
	threshold    int
	mf           monitoring.MetricFactory
	metrics      *metrics
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithMaxBatchSize sets the largest batch length accepted, in bytes.
func WithMaxBatchSize(n int) Option {
	return func(v *Verifier) { v.maxBatchSize = n }
}

// WithConcurrency computes commitments and tree levels on up to workers
// goroutines for batches of at least threshold records. A workers value of 1
// or less disables concurrency.
func WithConcurrency(workers, threshold int) Option {
	return func(v *Verifier) {
		v.workers = workers
		v.threshold = threshold
	}
}

// WithMetricFactory reports metrics through mf. Metrics are created once per
// Verifier, so a factory that registers globally must not be shared by two
// Verifiers.
func WithMetricFactory(mf monitoring.MetricFactory) Option {
	return func(v *Verifier) { v.mf = mf }
}

// New returns a Verifier. By default it accepts batches up to MaxBatchSize
// bytes, uses GOMAXPROCS workers for large batches and records inert metrics.
func New(opts ...Option) *Verifier {
	v := &Verifier{
		hasher:       keccak.DefaultHasher,
		maxBatchSize: MaxBatchSize,
		workers:      runtime.GOMAXPROCS(0),
		threshold:    DefaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.metrics = newMetrics(v.mf)
	return v
}

// MaxBatchSize returns the largest batch length v accepts.
func (v *Verifier) MaxBatchSize() int {
	return v.maxBatchSize
}

// Verify checks that the first batchLen bytes of batch decode to a non-empty
// list of records whose Merkle root is expectedRoot. It returns nil on a
// match and an error wrapping one of the Err* conditions otherwise.
//
// batchLen must not exceed len(batch) nor the configured maximum batch size;
// this is checked before anything is decoded. Panics raised while verifying
// are recovered and reported as ErrInternal.
func (v *Verifier) Verify(batch []byte, batchLen int, expectedRoot []byte) (err error) {
	start := time.Now()
	st := received
	records := 0
	v.metrics.inFlight.Inc()
	defer func() {
		v.metrics.inFlight.Dec()
		v.metrics.record(resultLabel(err), batchLen, records, time.Since(start).Seconds())
		if err != nil {
			klog.V(1).Infof("batch verification failed at stage %v: %v", st, err)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic at stage %v: %v", ErrInternal, st, r)
		}
	}()

	if capacity := min(len(batch), v.maxBatchSize); batchLen < 0 || batchLen > capacity {
		return fmt.Errorf("%w: length %d, capacity %d", ErrOversizedInput, batchLen, capacity)
	}
	if len(expectedRoot) != root.Size {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrRootLengthMismatch, len(expectedRoot), root.Size)
	}

	data, err := verification.DecodeBatch(batch[:batchLen])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBatch, err)
	}
	st = decoded
	records = len(data)

	got, err := v.computeRoot(data, &st)
	if err != nil {
		return err
	}

	st = compared
	if !root.Equal(got, expectedRoot) {
		return fmt.Errorf("%w: computed %x, expected %x", ErrRootMismatch, got, expectedRoot)
	}
	st = done
	klog.V(1).Infof("verified batch of %d records with root %x", records, got)
	return nil
}

// VerifyBatch is the boundary form of Verify: it reports true iff the batch
// verifies, and never panics.
func (v *Verifier) VerifyBatch(batch []byte, batchLen int, expectedRoot []byte) bool {
	return v.Verify(batch, batchLen, expectedRoot) == nil
}

// ComputeRoot returns the Merkle root of records, in order. Panics are
// recovered and reported as ErrInternal.
func (v *Verifier) ComputeRoot(records []verification.Data) (_ root.Hash, err error) {
	var st stage
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic at stage %v: %v", ErrInternal, st, r)
		}
	}()
	got, err := v.computeRoot(records, &st)
	if err != nil {
		return root.Hash{}, err
	}
	return root.FromBytes(got)
}

// computeRoot advances st through the commitment and tree stages.
func (v *Verifier) computeRoot(records []verification.Data, st *stage) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrEmptyBatch
	}
	workers := 1
	if len(records) >= v.threshold {
		workers = v.workers
	}
	leaves := commitment.NewBatch(records, workers).Leaves()
	*st = committed

	tree, err := batchtree.New(v.hasher, leaves, batchtree.WithConcurrency(workers, v.threshold))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	*st = treeBuilt
	return tree.Root(), nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, ErrOversizedInput):
		return resultOversizedInput
	case errors.Is(err, ErrMalformedBatch):
		return resultMalformedBatch
	case errors.Is(err, ErrEmptyBatch):
		return resultEmptyBatch
	case errors.Is(err, ErrRootLengthMismatch):
		return resultRootLengthMismatch
	case errors.Is(err, ErrRootMismatch):
		return resultRootMismatch
	}
	return resultInternal
}

var defaultVerifier = New()

// VerifyBatch verifies a batch with a Verifier using the default options.
func VerifyBatch(batch []byte, batchLen int, expectedRoot []byte) bool {
	return defaultVerifier.VerifyBatch(batch, batchLen, expectedRoot)
}
