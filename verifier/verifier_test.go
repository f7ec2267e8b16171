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

package verifier

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/batchverify/merkle/keccak"
	"github.com/google/batchverify/monitoring"
	"github.com/google/batchverify/verification"
)

const goldenRoot = "d254d8b70a9b475f30a6ceb636270a986b25c592767b7dd652f97eaebddd94eb"

// hx decodes a hex string or panics.
func hx(hs string) []byte {
	data, err := hex.DecodeString(hs)
	if err != nil {
		panic(fmt.Errorf("failed to decode test data: %s", hs))
	}
	return data
}

// loadGolden returns the golden batch copied into a buffer of MaxBatchSize
// bytes, and the number of valid bytes.
func loadGolden(t *testing.T) ([]byte, int) {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", goldenRoot+".json"))
	if err != nil {
		t.Fatalf("ReadFile(): %v", err)
	}
	buf := make([]byte, MaxBatchSize)
	copy(buf, b)
	return buf, len(b)
}

func makeRecords(n int) []verification.Data {
	records := make([]verification.Data, n)
	for i := range records {
		records[i] = verification.Data{
			ProvingSystem:      verification.SP1,
			Proof:              []byte(fmt.Sprintf("proof-%d", i)),
			VMProgramCode:      []byte{byte(i % 3)},
			ProofGeneratorAddr: common.BytesToAddress([]byte{byte(i)}),
		}
	}
	return records
}

func encode(t *testing.T, records []verification.Data) []byte {
	t.Helper()
	b, err := verification.EncodeBatch(records)
	if err != nil {
		t.Fatalf("EncodeBatch(): %v", err)
	}
	return b
}

func TestVerifyGolden(t *testing.T) {
	buf, n := loadGolden(t)
	want := hx(goldenRoot)
	if !VerifyBatch(buf, n, want) {
		t.Fatalf("VerifyBatch(golden, %s) = false, want true", goldenRoot)
	}
	if err := New().Verify(buf, n, want); err != nil {
		t.Errorf("Verify(golden): %v", err)
	}
}

func TestVerifyGoldenFlippedRoot(t *testing.T) {
	buf, n := loadGolden(t)
	v := New()
	for i := 0; i < len(goldenRoot)/2; i++ {
		for _, mask := range []byte{0x01, 0x80, 0xff} {
			r := hx(goldenRoot)
			r[i] ^= mask
			err := v.Verify(buf, n, r)
			if !errors.Is(err, ErrRootMismatch) {
				t.Errorf("Verify(root with byte %d ^ %#x): %v, want %v", i, mask, err, ErrRootMismatch)
			}
			if v.VerifyBatch(buf, n, r) {
				t.Errorf("VerifyBatch(root with byte %d ^ %#x) = true", i, mask)
			}
		}
	}
}

func TestVerifyErrors(t *testing.T) {
	buf, n := loadGolden(t)
	golden := buf[:n]
	want := hx(goldenRoot)
	dup := []byte(`[{"proving_system":"SP1","proof":[9],"proof":[1],` +
		`"proof_generator_addr":"0x66f9664f97f2b50f62d13ea064982f936de76657"}]`)

	for _, tc := range []struct {
		desc     string
		v        *Verifier
		batch    []byte
		batchLen int
		root     []byte
		wantErr  error
	}{
		{desc: "length beyond max size", batch: buf, batchLen: MaxBatchSize + 1, root: want, wantErr: ErrOversizedInput},
		{desc: "length beyond buffer", batch: golden, batchLen: n + 1, root: want, wantErr: ErrOversizedInput},
		{desc: "negative length", batch: golden, batchLen: -1, root: want, wantErr: ErrOversizedInput},
		{desc: "length beyond configured max", v: New(WithMaxBatchSize(100)), batch: golden, batchLen: n, root: want, wantErr: ErrOversizedInput},
		{desc: "nil root", batch: golden, batchLen: n, root: nil, wantErr: ErrRootLengthMismatch},
		{desc: "short root", batch: golden, batchLen: n, root: want[:31], wantErr: ErrRootLengthMismatch},
		{desc: "long root", batch: golden, batchLen: n, root: append(want, 0), wantErr: ErrRootLengthMismatch},
		{desc: "zero length", batch: buf, batchLen: 0, root: want, wantErr: ErrMalformedBatch},
		{desc: "truncated", batch: buf, batchLen: n - 1, root: want, wantErr: ErrMalformedBatch},
		{desc: "includes padding", batch: append(append([]byte{}, golden...), 0), batchLen: n + 1, root: want, wantErr: ErrMalformedBatch},
		{desc: "not json", batch: []byte("\x00\x01\x02"), batchLen: 3, root: want, wantErr: ErrMalformedBatch},
		{desc: "empty batch", batch: []byte("[]"), batchLen: 2, root: want, wantErr: ErrEmptyBatch},
		{desc: "doubled comma", batch: []byte(strings.Replace(string(golden), ",", ",,", 1)), batchLen: n + 1, root: want, wantErr: ErrMalformedBatch},
		{desc: "duplicate key", batch: dup, batchLen: len(dup), root: want, wantErr: ErrMalformedBatch},
		{desc: "prefix only", batch: golden, batchLen: 1, root: want, wantErr: ErrMalformedBatch},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			v := tc.v
			if v == nil {
				v = New()
			}
			err := v.Verify(tc.batch, tc.batchLen, tc.root)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Verify(): %v, want %v", err, tc.wantErr)
			}
			if v.VerifyBatch(tc.batch, tc.batchLen, tc.root) {
				t.Error("VerifyBatch() = true, want false")
			}
		})
	}
}

func TestVerifyCorruptedBytes(t *testing.T) {
	buf, n := loadGolden(t)
	want := hx(goldenRoot)
	v := New()
	rejected := 0
	for i := 0; i < n; i++ {
		corrupted := bytes.Clone(buf[:n])
		corrupted[i] ^= 0x5a
		// Renaming the key of a null field leaves the records unchanged, so
		// a corruption may still verify. It must never fail any other way.
		err := v.Verify(corrupted, n, want)
		switch {
		case err == nil:
		case errors.Is(err, ErrMalformedBatch), errors.Is(err, ErrRootMismatch):
			rejected++
		default:
			t.Errorf("Verify() with byte %d corrupted: %v", i, err)
		}
		if got, want := v.VerifyBatch(corrupted, n, want), err == nil; got != want {
			t.Errorf("VerifyBatch() with byte %d corrupted = %v, want %v", i, got, want)
		}
	}
	if rejected < n*9/10 {
		t.Errorf("only %d of %d corruptions were rejected", rejected, n)
	}
}

func TestVerifyTruncations(t *testing.T) {
	buf, n := loadGolden(t)
	want := hx(goldenRoot)
	v := New()
	for l := 0; l < n; l++ {
		if err := v.Verify(buf, l, want); !errors.Is(err, ErrMalformedBatch) {
			t.Fatalf("Verify(length %d of %d): %v, want %v", l, n, err, ErrMalformedBatch)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	v := New()
	for _, size := range []int{1, 2, 3, 7, 8, 33} {
		t.Run(fmt.Sprintf("size:%d", size), func(t *testing.T) {
			records := makeRecords(size)
			r, err := v.ComputeRoot(records)
			if err != nil {
				t.Fatalf("ComputeRoot(): %v", err)
			}
			b := encode(t, records)
			if err := v.Verify(b, len(b), r.Bytes()); err != nil {
				t.Errorf("Verify(): %v", err)
			}
			// Hex and raw forms of the same root are interchangeable.
			fromHex := hx(r.String())
			if !v.VerifyBatch(b, len(b), fromHex) {
				t.Error("VerifyBatch(hex decoded root) = false")
			}
		})
	}
}

func TestDeterministic(t *testing.T) {
	records := makeRecords(9)
	first, err := New().ComputeRoot(records)
	if err != nil {
		t.Fatalf("ComputeRoot(): %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := New().ComputeRoot(records)
		if err != nil {
			t.Fatalf("ComputeRoot(): %v", err)
		}
		if got != first {
			t.Fatalf("run %d: ComputeRoot(): %v, want %v", i, got, first)
		}
	}
}

func TestOrderSensitive(t *testing.T) {
	v := New()
	records := makeRecords(5)
	r, err := v.ComputeRoot(records)
	if err != nil {
		t.Fatalf("ComputeRoot(): %v", err)
	}
	reversed := make([]verification.Data, len(records))
	for i := range records {
		reversed[len(records)-1-i] = records[i]
	}
	b := encode(t, reversed)
	if err := v.Verify(b, len(b), r.Bytes()); !errors.Is(err, ErrRootMismatch) {
		t.Errorf("Verify(reversed batch): %v, want %v", err, ErrRootMismatch)
	}
}

func TestConcurrencyAgrees(t *testing.T) {
	records := makeRecords(300)
	want, err := New(WithConcurrency(1, 0)).ComputeRoot(records)
	if err != nil {
		t.Fatalf("ComputeRoot(): %v", err)
	}
	for _, workers := range []int{2, 4, 16} {
		got, err := New(WithConcurrency(workers, 2)).ComputeRoot(records)
		if err != nil {
			t.Fatalf("ComputeRoot(): %v", err)
		}
		if got != want {
			t.Errorf("workers %d: ComputeRoot(): %v, want %v", workers, got, want)
		}
	}
}

func TestConcurrentCallers(t *testing.T) {
	buf, n := loadGolden(t)
	want := hx(goldenRoot)
	v := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !v.VerifyBatch(buf, n, want) {
				t.Error("VerifyBatch() = false")
			}
		}()
	}
	wg.Wait()
}

func TestComputeRootEmpty(t *testing.T) {
	for _, records := range [][]verification.Data{nil, {}} {
		if _, err := New().ComputeRoot(records); !errors.Is(err, ErrEmptyBatch) {
			t.Errorf("ComputeRoot(%v): %v, want %v", records, err, ErrEmptyBatch)
		}
	}
}

func TestMetrics(t *testing.T) {
	buf, n := loadGolden(t)
	want := hx(goldenRoot)
	v := New(WithMetricFactory(monitoring.InertMetricFactory{}))

	v.VerifyBatch(buf, n, want)
	v.VerifyBatch(buf, n, want)
	v.VerifyBatch(buf, n, want[:3])
	v.VerifyBatch(buf, MaxBatchSize+1, want)
	v.VerifyBatch(buf, n-1, want)
	v.VerifyBatch([]byte("[]"), 2, want)
	bad := bytes.Clone(want)
	bad[0] ^= 1
	v.VerifyBatch(buf, n, bad)

	for _, tc := range []struct {
		result string
		want   float64
	}{
		{resultOK, 2},
		{resultRootLengthMismatch, 1},
		{resultOversizedInput, 1},
		{resultMalformedBatch, 1},
		{resultEmptyBatch, 1},
		{resultRootMismatch, 1},
		{resultInternal, 0},
	} {
		if got := v.metrics.verifications.Value(tc.result); got != tc.want {
			t.Errorf("verifications[%s] = %v, want %v", tc.result, got, tc.want)
		}
	}
	if got := v.metrics.inFlight.Value(); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	// Three calls decoded the five golden records.
	if count, sum := v.metrics.batchRecords.Info(); count != 3 || sum != 15 {
		t.Errorf("records histogram = %d,%v, want 3,15", count, sum)
	}
	if count, _ := v.metrics.latency.Info(); count != 7 {
		t.Errorf("latency histogram count = %d, want 7", count)
	}
}

// panicHasher panics when hashing interior nodes.
type panicHasher struct {
	keccak.Hasher
}

func (panicHasher) HashChildren(l, r []byte) []byte {
	panic("hash failure")
}

func TestVerifyRecoversPanic(t *testing.T) {
	buf, n := loadGolden(t)
	want := hx(goldenRoot)
	v := New(WithMetricFactory(monitoring.InertMetricFactory{}))
	v.hasher = panicHasher{}

	if err := v.Verify(buf, n, want); !errors.Is(err, ErrInternal) {
		t.Errorf("Verify(): %v, want %v", err, ErrInternal)
	}
	if v.VerifyBatch(buf, n, want) {
		t.Error("VerifyBatch() = true, want false")
	}
	if got := v.metrics.verifications.Value(resultInternal); got != 2 {
		t.Errorf("verifications[%s] = %v, want 2", resultInternal, got)
	}
	if got := v.metrics.inFlight.Value(); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if _, err := v.ComputeRoot(makeRecords(3)); !errors.Is(err, ErrInternal) {
		t.Errorf("ComputeRoot(): %v, want %v", err, ErrInternal)
	}
}

func TestResultLabel(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want string
	}{
		{nil, resultOK},
		{fmt.Errorf("%w: x", ErrOversizedInput), resultOversizedInput},
		{fmt.Errorf("%w: x", ErrMalformedBatch), resultMalformedBatch},
		{ErrEmptyBatch, resultEmptyBatch},
		{ErrRootLengthMismatch, resultRootLengthMismatch},
		{ErrRootMismatch, resultRootMismatch},
		{ErrInternal, resultInternal},
		{errors.New("other"), resultInternal},
	} {
		if got := resultLabel(tc.err); got != tc.want {
			t.Errorf("resultLabel(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestStageString(t *testing.T) {
	var names []string
	for s := received; s <= done; s++ {
		names = append(names, s.String())
	}
	if got, want := strings.Join(names, " -> "), "Received -> Decoded -> Committed -> TreeBuilt -> Compared -> Done"; got != want {
		t.Errorf("stages: %q, want %q", got, want)
	}
}
