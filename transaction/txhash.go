// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"

	"github.com/mr-tron/base58"

	"github.com/bitmark-inc/blockd/fault"
)

// TxHash - SHA-256 of a packed transaction
//
// same shape as an Address but deliberately a separate type
type TxHash [HashLength]byte

// NewTxHash - hash a byte slice
func NewTxHash(record []byte) TxHash {
	return TxHash(sha256.Sum256(record))
}

// TxHashFromBytes - copy an exact length byte slice to a hash
//
// callers control the length so any other size is a programming error
func TxHashFromBytes(buffer []byte) TxHash {
	if HashLength != len(buffer) {
		fault.Panicf("tx hash from %d bytes, expected %d", len(buffer), HashLength)
	}
	var hash TxHash
	copy(hash[:], buffer)
	return hash
}

// TxHashFromBase58 - decode the text form
func TxHashFromBase58(s string) (TxHash, error) {
	buffer, err := base58.Decode(s)
	if nil != err || HashLength != len(buffer) {
		return TxHash{}, fault.WrongHashLength
	}
	return TxHashFromBytes(buffer), nil
}

// Bytes - view of the underlying bytes, not a copy
func (hash *TxHash) Bytes() []byte {
	return hash[:]
}

// Compare - byte-wise ordering: -1, 0, +1
func (hash TxHash) Compare(other TxHash) int {
	return bytes.Compare(hash[:], other[:])
}

// String - base58 form for the fmt package (%s, %v)
func (hash TxHash) String() string {
	return base58.Encode(hash[:])
}

// GoString - for the fmt package (%#v)
func (hash TxHash) GoString() string {
	return "<SHA-256:" + hex.EncodeToString(hash[:]) + ">"
}

// MarshalText - base58 text for JSON
func (hash TxHash) MarshalText() ([]byte, error) {
	return []byte(hash.String()), nil
}

// UnmarshalText - base58 text from JSON
func (hash *TxHash) UnmarshalText(s []byte) error {
	h, err := TxHashFromBase58(string(s))
	if nil != err {
		return err
	}
	*hash = h
	return nil
}

// MarshalBinary - raw bytes for the wire codec
func (hash TxHash) MarshalBinary() ([]byte, error) {
	return hash[:], nil
}

// UnmarshalBinary - raw bytes from the wire codec, length is checked
func (hash *TxHash) UnmarshalBinary(buffer []byte) error {
	if HashLength != len(buffer) {
		return fault.WrongHashLength
	}
	copy(hash[:], buffer)
	return nil
}
