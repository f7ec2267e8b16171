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

package main

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/batchverify/merkle/batchtree"
	"github.com/google/batchverify/merkle/keccak"
)

const goldenRoot = "d254d8b70a9b475f30a6ceb636270a986b25c592767b7dd652f97eaebddd94eb"

func TestHashArgs(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		args    []string
		want    string
		wantErr bool
	}{
		{desc: "leaf", args: []string{hex.EncodeToString([]byte("L123456"))}, want: "1cb64328f2c1bc72b43be6b77c8d54d3e766541616fa83d0d8ad5fc1a45ead4e"},
		{desc: "node", args: []string{hex.EncodeToString([]byte("N123")), hex.EncodeToString([]byte("N456"))}, want: "6181227e2d6d1317a701648bb623acb7add94b5f56b921bea0ed4ffd6b2b22cb"},
		{desc: "no args", wantErr: true},
		{desc: "three args", args: []string{"00", "01", "02"}, wantErr: true},
		{desc: "not hex", args: []string{"zz"}, wantErr: true},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			decoded, err := decodeArgs(tc.args)
			var got []byte
			if err == nil {
				got, err = hashArgs(decoded)
			}
			if gotErr := err != nil; gotErr != tc.wantErr {
				t.Fatalf("err: %v, wantErr: %v", err, tc.wantErr)
			}
			if err != nil {
				return
			}
			if h := hex.EncodeToString(got); h != tc.want {
				t.Errorf("got %s, want %s", h, tc.want)
			}
		})
	}
}

func TestBatchLeafHashes(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("..", "..", "verifier", "testdata", goldenRoot+".json"))
	if err != nil {
		t.Fatalf("ReadFile(): %v", err)
	}
	hashes, err := batchLeafHashes(b)
	if err != nil {
		t.Fatalf("batchLeafHashes(): %v", err)
	}
	if got, want := len(hashes), 5; got != want {
		t.Fatalf("got %d hashes, want %d", got, want)
	}
	tree, err := batchtree.New(keccak.DefaultHasher, hashes)
	if err != nil {
		t.Fatalf("batchtree.New(): %v", err)
	}
	if got := hex.EncodeToString(tree.Root()); got != goldenRoot {
		t.Errorf("root %s, want %s", got, goldenRoot)
	}

	if _, err := batchLeafHashes([]byte("[")); err == nil {
		t.Error("batchLeafHashes() on truncated batch: got nil error")
	}
}
