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
	"encoding/json"
	"errors"
)

// DecodeBatch decodes an ordered JSON array of records. The order of the
// returned slice matches the input. An empty array decodes to an empty,
// non-nil slice; anything that is not an array of records is an error.
func DecodeBatch(b []byte) ([]Data, error) {
	var batch []Data
	if err := json.Unmarshal(b, &batch); err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, errors.New("batch is null")
	}
	return batch, nil
}

// EncodeBatch encodes records in the format read by DecodeBatch.
func EncodeBatch(batch []Data) ([]byte, error) {
	if batch == nil {
		batch = []Data{}
	}
	return json.Marshal(batch)
}
