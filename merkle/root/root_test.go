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

package root

import (
	"bytes"
	"errors"
	"testing"
)

const golden = "7a3d9215cfac21a4b0e94382e53a9f26bc23ed990f9c850a31ccf3a65aec1466"

func TestFromHex(t *testing.T) {
	want, err := FromHex(golden)
	if err != nil {
		t.Fatalf("FromHex(%q): %v", golden, err)
	}
	for _, tc := range []struct {
		desc    string
		in      string
		wantErr bool
	}{
		{desc: "plain", in: golden},
		{desc: "prefixed", in: "0x" + golden},
		{desc: "upper prefix", in: "0X" + golden},
		{desc: "upper case", in: "0x7A3D9215CFAC21A4B0E94382E53A9F26BC23ED990F9C850A31CCF3A65AEC1466"},
		{desc: "surrounding space", in: " " + golden + "\n"},
		{desc: "empty", in: "", wantErr: true},
		{desc: "short", in: golden[:62], wantErr: true},
		{desc: "long", in: golden + "00", wantErr: true},
		{desc: "odd", in: golden[:63], wantErr: true},
		{desc: "not hex", in: "zz" + golden[2:], wantErr: true},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := FromHex(tc.in)
			if gotErr := err != nil; gotErr != tc.wantErr {
				t.Fatalf("FromHex(%q): %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && got != want {
				t.Errorf("FromHex(%q): %v, want %v", tc.in, got, want)
			}
		})
	}
}

func TestFromBytes(t *testing.T) {
	for _, n := range []int{0, 1, 31, 33, 64} {
		if _, err := FromBytes(make([]byte, n)); !errors.Is(err, ErrLength) {
			t.Errorf("FromBytes(%d bytes): %v, want %v", n, err, ErrLength)
		}
	}
	b := bytes.Repeat([]byte{0xab}, Size)
	h, err := FromBytes(b)
	if err != nil {
		t.Fatalf("FromBytes(): %v", err)
	}
	b[0] = 0
	if got := h.Bytes(); got[0] != 0xab {
		t.Errorf("Hash aliases its input")
	}
}

func TestEncodingAgnostic(t *testing.T) {
	fromHex, err := FromHex("0x" + golden)
	if err != nil {
		t.Fatalf("FromHex(): %v", err)
	}
	fromRaw, err := FromBytes(fromHex.Bytes())
	if err != nil {
		t.Fatalf("FromBytes(): %v", err)
	}
	if !fromHex.Equal(fromRaw) {
		t.Errorf("%v != %v", fromHex, fromRaw)
	}
	if got := fromRaw.String(); got != golden {
		t.Errorf("String(): %q, want %q", got, golden)
	}
	var h Hash
	if err := h.UnmarshalText([]byte(golden)); err != nil {
		t.Fatalf("UnmarshalText(): %v", err)
	}
	if h != fromRaw {
		t.Errorf("UnmarshalText(): %v, want %v", h, fromRaw)
	}
}

func TestEqual(t *testing.T) {
	a := bytes.Repeat([]byte{1}, Size)
	if !Equal(a, bytes.Clone(a)) {
		t.Error("Equal(a, a) = false")
	}
	for i := 0; i < Size; i++ {
		b := bytes.Clone(a)
		b[i] ^= 0x01
		if Equal(a, b) {
			t.Errorf("Equal() true after flipping byte %d", i)
		}
	}
	if Equal(a[:31], a[:31]) {
		t.Error("Equal() true for short roots")
	}
	if Equal(nil, nil) {
		t.Error("Equal(nil, nil) = true")
	}
}
