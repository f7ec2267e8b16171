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

// Package root holds Merkle root values and compares them independently of
// how they were encoded for display.
package root

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Size is the width of a root hash in bytes.
const Size = 32

// ErrLength is returned for roots that are not exactly Size bytes.
var ErrLength = errors.New("root: wrong length")

// Hash is a canonical, raw root hash.
type Hash [Size]byte

// FromBytes returns the Hash held in b.
func FromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != Size {
		return h, fmt.Errorf("%w: got %d bytes, want %d", ErrLength, len(b), Size)
	}
	copy(h[:], b)
	return h, nil
}

// FromHex parses a hex encoded root. The 0x prefix is optional and either
// letter case is accepted.
func FromHex(s string) (Hash, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	} else {
		s = "0x" + s[2:]
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return Hash{}, fmt.Errorf("root: invalid hex: %v", err)
	}
	return FromBytes(b)
}

// Bytes returns a copy of the raw root.
func (h Hash) Bytes() []byte {
	return append([]byte(nil), h[:]...)
}

// String returns the lowercase hex encoding of h, without a prefix.
func (h Hash) String() string {
	return hexutil.Encode(h[:])[2:]
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	v, err := FromHex(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// Equal reports whether a and b hold the same root. Inputs that are not
// exactly Size bytes never compare equal.
func Equal(a, b []byte) bool {
	if len(a) != Size || len(b) != Size {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Equal reports whether h and other are the same root.
func (h Hash) Equal(other Hash) bool {
	return Equal(h[:], other[:])
}
