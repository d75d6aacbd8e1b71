// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"bytes"
	"encoding/hex"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/blockd/fault"
)

// HashLength - number of bytes in an address or a transaction hash
const HashLength = 32

// Address - public key hash
//
// the zero value is the all zero address
type Address [HashLength]byte

// AddressFromBytes - copy an exact length byte slice to an address
//
// callers control the length so any other size is a programming error
func AddressFromBytes(buffer []byte) Address {
	if HashLength != len(buffer) {
		fault.Panicf("address from %d bytes, expected %d", len(buffer), HashLength)
	}
	var address Address
	copy(address[:], buffer)
	return address
}

// AddressFromPublicKey - SHA3-256 of a public key
func AddressFromPublicKey(publicKey []byte) Address {
	return Address(sha3.Sum256(publicKey))
}

// AddressFromBase58 - decode the text form
func AddressFromBase58(s string) (Address, error) {
	buffer, err := base58.Decode(s)
	if nil != err {
		return Address{}, fault.InvalidAddress
	}
	if HashLength != len(buffer) {
		return Address{}, fault.WrongAddressLength
	}
	return AddressFromBytes(buffer), nil
}

// Bytes - view of the underlying bytes, not a copy
func (address *Address) Bytes() []byte {
	return address[:]
}

// Compare - byte-wise ordering: -1, 0, +1
func (address Address) Compare(other Address) int {
	return bytes.Compare(address[:], other[:])
}

// IsZero - true for the all zero address
func (address Address) IsZero() bool {
	return Address{} == address
}

// String - base58 form for the fmt package (%s, %v)
func (address Address) String() string {
	return base58.Encode(address[:])
}

// GoString - for the fmt package (%#v)
func (address Address) GoString() string {
	return "<address:" + hex.EncodeToString(address[:]) + ">"
}

// MarshalText - base58 text for JSON
func (address Address) MarshalText() ([]byte, error) {
	return []byte(address.String()), nil
}

// UnmarshalText - base58 text from JSON
func (address *Address) UnmarshalText(s []byte) error {
	a, err := AddressFromBase58(string(s))
	if nil != err {
		return err
	}
	*address = a
	return nil
}

// MarshalBinary - raw bytes for the wire codec
func (address Address) MarshalBinary() ([]byte, error) {
	return address[:], nil
}

// UnmarshalBinary - raw bytes from the wire codec, length is checked
func (address *Address) UnmarshalBinary(buffer []byte) error {
	if HashLength != len(buffer) {
		return fault.WrongAddressLength
	}
	copy(address[:], buffer)
	return nil
}
