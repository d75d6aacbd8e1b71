// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction_test

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/blockd/fault"
	"github.com/bitmark-inc/blockd/transaction"
)

func TestAddressText(t *testing.T) {
	a := transaction.AddressFromBytes(filled(0xbb))
	assert.Equal(t, "DdqGmK5uamYN5vmuZrzpQhKeehLdwtPLVJdhu5P2iJKC", a.String(), "base58")
	assert.Equal(t, "DdqGmK5uamYN5vmuZrzpQhKeehLdwtPLVJdhu5P2iJKC", fmt.Sprintf("%v", a), "%v")

	var zero transaction.Address
	assert.True(t, zero.IsZero(), "zero value")
	assert.Equal(t, strings.Repeat("1", 32), zero.String(), "zero base58")

	back, err := transaction.AddressFromBase58(a.String())
	assert.NoError(t, err, "decode")
	assert.Equal(t, a, back, "round trip")

	_, err = transaction.AddressFromBase58("2g")
	assert.Equal(t, fault.WrongAddressLength, err, "short")
	_, err = transaction.AddressFromBase58("0OIl")
	assert.Equal(t, fault.InvalidAddress, err, "bad alphabet")
}

func TestAddressJSON(t *testing.T) {
	out := transaction.Output{
		Amount:   5,
		Creditor: transaction.AddressFromBytes(filled(0xbb)),
	}
	buffer, err := json.Marshal(out)
	assert.NoError(t, err, "marshal")
	assert.Equal(t, `{"amount":5,"creditor":"DdqGmK5uamYN5vmuZrzpQhKeehLdwtPLVJdhu5P2iJKC"}`, string(buffer), "json")

	var back transaction.Output
	assert.NoError(t, json.Unmarshal(buffer, &back), "unmarshal")
	assert.Equal(t, out, back, "round trip")
}

func TestAddressFromPublicKey(t *testing.T) {
	a := transaction.AddressFromPublicKey(sequentialKey())
	expected, _ := hex.DecodeString("050a48733bd5c2756ba95c5828cc83ee16fabcd3c086885b7744f84a0f9e0d94")
	assert.Equal(t, expected, a.Bytes(), "sha3 of key")
}

func TestBytesIsAView(t *testing.T) {
	a := transaction.AddressFromBytes(filled(0x01))
	view := a.Bytes()
	view[0] = 0x02
	assert.Equal(t, byte(0x02), a[0], "address view")

	h := transaction.TxHashFromBytes(filled(0x01))
	hv := h.Bytes()
	hv[31] = 0x03
	assert.Equal(t, byte(0x03), h[31], "hash view")
}

func TestOrdering(t *testing.T) {
	low := transaction.AddressFromBytes(filled(0x01))
	high := transaction.AddressFromBytes(filled(0x02))
	assert.Equal(t, -1, low.Compare(high), "less")
	assert.Equal(t, 1, high.Compare(low), "greater")
	assert.Equal(t, 0, low.Compare(low), "equal")
	assert.True(t, low == transaction.AddressFromBytes(filled(0x01)), "byte equality")

	h1 := transaction.TxHashFromBytes(filled(0x01))
	h2 := transaction.TxHashFromBytes(filled(0x02))
	assert.Equal(t, -1, h1.Compare(h2), "hash less")
}

func TestWrongLengthPanics(t *testing.T) {
	assert.Panics(t, func() { transaction.AddressFromBytes(make([]byte, 31)) }, "short address")
	assert.Panics(t, func() { transaction.AddressFromBytes(make([]byte, 33)) }, "long address")
	assert.Panics(t, func() { transaction.TxHashFromBytes(make([]byte, 0)) }, "empty hash")
	assert.Panics(t, func() { transaction.TxHashFromBytes(make([]byte, 64)) }, "long hash")
}

func TestUnmarshalBinaryLength(t *testing.T) {
	var a transaction.Address
	assert.Equal(t, fault.WrongAddressLength, a.UnmarshalBinary(make([]byte, 5)), "address")
	var h transaction.TxHash
	assert.Equal(t, fault.WrongHashLength, h.UnmarshalBinary(make([]byte, 33)), "hash")
	var s transaction.Signature
	assert.Equal(t, fault.WrongSignatureLength, s.UnmarshalBinary(make([]byte, 63)), "signature")
	assert.NoError(t, s.UnmarshalBinary(make([]byte, 64)), "signature ok")
}
