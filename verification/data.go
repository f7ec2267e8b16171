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

// Package verification defines the proof verification records carried in a
// batch, and the JSON encoding the batcher uses for them.
package verification

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// Data is a single proof verification record.
//
// Optional byte fields are nil when absent. An absent field and a present but
// empty one are different values and commit differently.
type Data struct {
	ProvingSystem      ProvingSystemID
	Proof              []byte
	PubInput           []byte
	VerificationKey    []byte
	VMProgramCode      []byte
	ProofGeneratorAddr common.Address
}

// Field names of a record. Keys are matched exactly; other keys are ignored.
const (
	fieldProvingSystem      = "proving_system"
	fieldProof              = "proof"
	fieldPubInput           = "pub_input"
	fieldVerificationKey    = "verification_key"
	fieldVMProgramCode      = "vm_program_code"
	fieldProofGeneratorAddr = "proof_generator_addr"
)

var recordFields = map[string]bool{
	fieldProvingSystem:      true,
	fieldProof:              true,
	fieldPubInput:           true,
	fieldVerificationKey:    true,
	fieldVMProgramCode:      true,
	fieldProofGeneratorAddr: true,
}

var null = []byte("null")

// readFields returns the raw values of the known fields of the JSON object in
// b. A known field given twice is an error.
func readFields(b []byte) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("record is not an object")
	}
	fields := make(map[string]json.RawMessage, len(recordFields))
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if !recordFields[key] {
			continue
		}
		if _, ok := fields[key]; ok {
			return nil, fmt.Errorf("duplicate field %s", key)
		}
		fields[key] = v
	}
	return fields, nil
}

// isNull reports whether raw is missing or the JSON null.
func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, null)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Data) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return errors.New("record is null")
	}
	fields, err := readFields(b)
	if err != nil {
		return err
	}
	if isNull(fields[fieldProvingSystem]) {
		return errors.New("missing field proving_system")
	}
	var ps ProvingSystemID
	if err := json.Unmarshal(fields[fieldProvingSystem], &ps); err != nil {
		return err
	}
	if isNull(fields[fieldProofGeneratorAddr]) {
		return errors.New("missing field proof_generator_addr")
	}
	var addr common.Address
	if err := json.Unmarshal(fields[fieldProofGeneratorAddr], &addr); err != nil {
		return err
	}
	proof, err := decodeBytes(fieldProof, fields[fieldProof])
	if err != nil {
		return err
	}
	if proof == nil {
		return errors.New("missing field proof")
	}
	pubInput, err := decodeBytes(fieldPubInput, fields[fieldPubInput])
	if err != nil {
		return err
	}
	vk, err := decodeBytes(fieldVerificationKey, fields[fieldVerificationKey])
	if err != nil {
		return err
	}
	code, err := decodeBytes(fieldVMProgramCode, fields[fieldVMProgramCode])
	if err != nil {
		return err
	}
	*d = Data{
		ProvingSystem:      ps,
		Proof:              proof,
		PubInput:           pubInput,
		VerificationKey:    vk,
		VMProgramCode:      code,
		ProofGeneratorAddr: addr,
	}
	return nil
}

// MarshalJSON implements json.Marshaler, producing the same shape that
// UnmarshalJSON accepts.
func (d Data) MarshalJSON() ([]byte, error) {
	ps, err := d.ProvingSystem.MarshalText()
	if err != nil {
		return nil, err
	}
	addr, err := d.ProofGeneratorAddr.MarshalText()
	if err != nil {
		return nil, err
	}
	proof := d.Proof
	if proof == nil {
		proof = []byte{}
	}
	var buf bytes.Buffer
	buf.WriteString(`{"proving_system":"`)
	buf.Write(ps)
	buf.WriteString(`","proof":`)
	buf.Write(appendBytes(nil, proof))
	buf.WriteString(`,"pub_input":`)
	buf.Write(appendBytes(nil, d.PubInput))
	buf.WriteString(`,"verification_key":`)
	buf.Write(appendBytes(nil, d.VerificationKey))
	buf.WriteString(`,"vm_program_code":`)
	buf.Write(appendBytes(nil, d.VMProgramCode))
	buf.WriteString(`,"proof_generator_addr":"`)
	buf.Write(addr)
	buf.WriteString(`"}`)
	return buf.Bytes(), nil
}

// decodeBytes decodes a JSON array of integers in [0, 255]. Missing and null
// values decode to nil; an empty array decodes to a non-nil empty slice.
func decodeBytes(field string, raw json.RawMessage) ([]byte, error) {
	if isNull(raw) {
		return nil, nil
	}
	raw = bytes.TrimSpace(raw)
	// A JSON string would be accepted as base64 by encoding/json.
	if raw[0] != '[' {
		return nil, fmt.Errorf("field %s: want array of bytes", field)
	}
	out := []byte{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("field %s: %v", field, err)
	}
	return out, nil
}

// appendBytes appends b to dst as a JSON array of integers, or null if b is nil.
func appendBytes(dst, b []byte) []byte {
	if b == nil {
		return append(dst, null...)
	}
	dst = append(dst, '[')
	for i, v := range b {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = strconv.AppendUint(dst, uint64(v), 10)
	}
	return append(dst, ']')
}
