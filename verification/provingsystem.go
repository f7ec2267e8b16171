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

package verification

import (
	"fmt"
)

// ProvingSystemID identifies the proof system a record was produced with.
type ProvingSystemID uint8

// Proving systems known to the batcher. The zero value is not a valid system.
const (
	UnknownProvingSystem ProvingSystemID = iota
	GnarkPlonkBls12_381
	GnarkPlonkBn254
	Groth16Bn254
	SP1
	Halo2KZG
	Halo2IPA
	Risc0
)

var provingSystemNames = map[ProvingSystemID]string{
	GnarkPlonkBls12_381: "GnarkPlonkBls12_381",
	GnarkPlonkBn254:     "GnarkPlonkBn254",
	Groth16Bn254:        "Groth16Bn254",
	SP1:                 "SP1",
	Halo2KZG:            "Halo2KZG",
	Halo2IPA:            "Halo2IPA",
	Risc0:               "Risc0",
}

var provingSystemIDs = func() map[string]ProvingSystemID {
	m := make(map[string]ProvingSystemID, len(provingSystemNames))
	for id, name := range provingSystemNames {
		m[name] = id
	}
	return m
}()

// ParseProvingSystem returns the ProvingSystemID with the given wire name.
func ParseProvingSystem(name string) (ProvingSystemID, error) {
	id, ok := provingSystemIDs[name]
	if !ok {
		return UnknownProvingSystem, fmt.Errorf("unknown proving system %q", name)
	}
	return id, nil
}

func (p ProvingSystemID) String() string {
	if name, ok := provingSystemNames[p]; ok {
		return name
	}
	return fmt.Sprintf("ProvingSystemID(%d)", uint8(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p ProvingSystemID) MarshalText() ([]byte, error) {
	name, ok := provingSystemNames[p]
	if !ok {
		return nil, fmt.Errorf("cannot marshal %v", p)
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *ProvingSystemID) UnmarshalText(text []byte) error {
	id, err := ParseProvingSystem(string(text))
	if err != nil {
		return err
	}
	*p = id
	return nil
}
