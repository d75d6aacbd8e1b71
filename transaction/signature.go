// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"encoding/hex"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/blockd/fault"
)

// Signature - fixed size ed25519 signature
//
// the zero value is the placeholder held by an unsigned input
type Signature [ed25519.SignatureSize]byte

// IsZero - true if not yet signed
func (signature Signature) IsZero() bool {
	return Signature{} == signature
}

// String - hex form for the fmt package (%s)
func (signature Signature) String() string {
	return hex.EncodeToString(signature[:])
}

// GoString - for the fmt package (%#v)
func (signature Signature) GoString() string {
	return "<signature:" + hex.EncodeToString(signature[:]) + ">"
}

// MarshalBinary - raw bytes for the wire codec
func (signature Signature) MarshalBinary() ([]byte, error) {
	return signature[:], nil
}

// UnmarshalBinary - raw bytes from the wire codec, length is checked
func (signature *Signature) UnmarshalBinary(buffer []byte) error {
	if ed25519.SignatureSize != len(buffer) {
		return fault.WrongSignatureLength
	}
	copy(signature[:], buffer)
	return nil
}
