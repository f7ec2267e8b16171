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

// The libbatchverify binary is built with -buildmode=c-shared and exposes
// batch verification to C callers:
//
//	bool verify_merkle_tree_batch_ffi(const uint8_t *batch, uint32_t batch_len,
//	                                  const uint8_t *root);
//
// batch points to a buffer of MaxBatchSize bytes of which the first batch_len
// are valid, and root to 32 bytes. The call reports whether the batch hashes
// to root. Invalid arguments and failures report false; nothing is retained
// after the call returns.
package main

/*
#include <stdbool.h>
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	"github.com/google/batchverify/merkle/root"
	"github.com/google/batchverify/verifier"
	"k8s.io/klog/v2"
)

//export verify_merkle_tree_batch_ffi
func verify_merkle_tree_batch_ffi(batch *C.uint8_t, batchLen C.uint32_t, merkleRoot *C.uint8_t) C.bool {
	return C.bool(verify(unsafe.Pointer(batch), uint32(batchLen), unsafe.Pointer(merkleRoot)))
}

// verify checks the length against the buffer capacity before any memory is
// viewed, so only the valid prefix of the buffer is ever read.
func verify(batch unsafe.Pointer, batchLen uint32, merkleRoot unsafe.Pointer) bool {
	if batch == nil || merkleRoot == nil {
		klog.Error("verify_merkle_tree_batch_ffi called with a null pointer")
		return false
	}
	if uint64(batchLen) > verifier.MaxBatchSize {
		klog.Errorf("verify_merkle_tree_batch_ffi: batch length %d exceeds capacity %d", batchLen, verifier.MaxBatchSize)
		return false
	}
	b := unsafe.Slice((*byte)(batch), batchLen)
	r := unsafe.Slice((*byte)(merkleRoot), root.Size)
	return verifier.VerifyBatch(b, len(b), r)
}

func main() {}
