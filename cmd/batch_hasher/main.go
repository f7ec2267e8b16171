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

// The batch_hasher program prints the keccak hashes used by batch trees. Given
// one hex argument it prints the leaf hash, given two it prints the parent of
// the two nodes. With --batch_file it prints the leaf hash of every record in
// a JSON batch, in order.
package main

import (
	"encoding/base64"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/google/batchverify/merkle/commitment"
	"github.com/google/batchverify/merkle/keccak"
	"github.com/google/batchverify/verification"
	"k8s.io/klog/v2"
)

var (
	base64Flag = flag.Bool("base64", false, "If true output in base64 instead of hex")
	batchFile  = flag.String("batch_file", "", "If set, print the leaf hash of each record in this JSON batch")
)

func decodeArgs(args []string) ([][]byte, error) {
	dec := make([][]byte, 0, len(args))
	for _, arg := range args {
		dh, err := hex.DecodeString(arg)
		if err != nil {
			return nil, fmt.Errorf("input arg not a hex encoded string: %s: %v", arg, err)
		}
		dec = append(dec, dh)
	}
	return dec, nil
}

func hashArgs(decoded [][]byte) ([]byte, error) {
	switch len(decoded) {
	case 1:
		return keccak.DefaultHasher.HashLeaf(decoded[0]), nil
	case 2:
		return keccak.DefaultHasher.HashChildren(decoded[0], decoded[1]), nil
	}
	return nil, fmt.Errorf("invalid number of arguments %d, expected 1 (for leaf) or 2 (for node)", len(decoded))
}

func batchLeafHashes(b []byte) ([][]byte, error) {
	records, err := verification.DecodeBatch(b)
	if err != nil {
		return nil, err
	}
	hashes := make([][]byte, 0, len(records))
	for i := range records {
		c := commitment.New(&records[i])
		hashes = append(hashes, c.LeafHash())
	}
	return hashes, nil
}

func encode(h []byte) string {
	if *base64Flag {
		return base64.StdEncoding.EncodeToString(h)
	}
	return hex.EncodeToString(h)
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	if *batchFile != "" {
		b, err := os.ReadFile(*batchFile)
		if err != nil {
			klog.Exitf("Failed to read batch: %v", err)
		}
		hashes, err := batchLeafHashes(b)
		if err != nil {
			klog.Exitf("Failed to decode batch: %v", err)
		}
		for _, h := range hashes {
			fmt.Println(encode(h))
		}
		return
	}

	decoded, err := decodeArgs(flag.Args())
	if err != nil {
		klog.Exit(err)
	}
	hash, err := hashArgs(decoded)
	if err != nil {
		klog.Exit(err)
	}
	fmt.Println(encode(hash))
}
