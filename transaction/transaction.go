// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"encoding/binary"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
)

// Output - value sent to a creditor
type Output struct {
	Amount   uint64  `codec:"amount" json:"amount"`
	Creditor Address `codec:"creditor" json:"creditor"`
}

// Input - reference to one output of an earlier transaction
type Input struct {
	Tx        TxHash    `codec:"tx" json:"tx"`
	Index     uint8     `codec:"index" json:"index"`
	Signature Signature `codec:"signature" json:"signature"`
}

// Transaction - debtor key plus ordered inputs and outputs
//
// the order of both lists is part of the hash
type Transaction struct {
	Debtor  ed25519.PublicKey `codec:"debtor" json:"debtor"`
	Inputs  []Input           `codec:"inputs" json:"inputs"`
	Outputs []Output          `codec:"outputs" json:"outputs"`
}

// packed sizes of the canonical fields
const (
	packedInputSize  = HashLength + 1
	packedOutputSize = 8 + HashLength
)

// New - create an empty transaction for a debtor
func New(debtor ed25519.PublicKey) *Transaction {
	return &Transaction{
		Debtor:  debtor,
		Inputs:  []Input{},
		Outputs: []Output{},
	}
}

// AddInput - append an unsigned reference to an earlier output
func (tx *Transaction) AddInput(hash TxHash, index uint8) {
	tx.Inputs = append(tx.Inputs, Input{
		Tx:    hash,
		Index: index,
	})
}

// AddOutput - append a payment
//
// adding an output after signing invalidates every signature
func (tx *Transaction) AddOutput(amount uint64, creditor Address) {
	tx.Outputs = append(tx.Outputs, Output{
		Amount:   amount,
		Creditor: creditor,
	})
}

// Pack - canonical byte encoding used for hashing
//
// debtor key, then each input's hash and index, then each output's
// big endian amount and creditor; no tags or lengths, signatures are
// excluded
func (tx *Transaction) Pack() []byte {
	size := len(tx.Debtor) + len(tx.Inputs)*packedInputSize + len(tx.Outputs)*packedOutputSize
	buffer := make([]byte, 0, size)

	buffer = append(buffer, tx.Debtor...)

	for i := range tx.Inputs {
		buffer = append(buffer, tx.Inputs[i].Tx[:]...)
		buffer = append(buffer, tx.Inputs[i].Index)
	}

	amount := make([]byte, 8)
	for i := range tx.Outputs {
		binary.BigEndian.PutUint64(amount, tx.Outputs[i].Amount)
		buffer = append(buffer, amount...)
		buffer = append(buffer, tx.Outputs[i].Creditor[:]...)
	}
	return buffer
}

// Hash - SHA-256 of the packed transaction
func (tx *Transaction) Hash() TxHash {
	return NewTxHash(tx.Pack())
}

// DebtorString - base58 form of the debtor key for logging
func (tx *Transaction) DebtorString() string {
	return base58.Encode(tx.Debtor)
}
