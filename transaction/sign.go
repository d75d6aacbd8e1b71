// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"bytes"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/blockd/fault"
)

// Signer - key holder able to authorise inputs
type Signer interface {
	PublicKey() ed25519.PublicKey
	Sign(message []byte) []byte
}

// SimplifiedView - the transaction an input's signature is made over
//
// debtor is the given key, the only input is a placeholder-signature
// copy of input i and the outputs are a copy of the full list
func (tx *Transaction) SimplifiedView(i int, publicKey ed25519.PublicKey) *Transaction {
	outputs := make([]Output, len(tx.Outputs))
	copy(outputs, tx.Outputs)

	return &Transaction{
		Debtor: publicKey,
		Inputs: []Input{{
			Tx:    tx.Inputs[i].Tx,
			Index: tx.Inputs[i].Index,
		}},
		Outputs: outputs,
	}
}

// SignInput - sign a single input
func (tx *Transaction) SignInput(i int, signer Signer) error {
	if i < 0 || i >= len(tx.Inputs) {
		return fault.InvalidCount
	}
	digest := tx.SimplifiedView(i, signer.PublicKey()).Hash()

	signature := signer.Sign(digest[:])
	if ed25519.SignatureSize != len(signature) {
		return fault.WrongSignatureLength
	}
	copy(tx.Inputs[i].Signature[:], signature)
	return nil
}

// Sign - sign every input in list order
//
// the signer must be the debtor and the outputs must be final
func (tx *Transaction) Sign(signer Signer) error {
	if !bytes.Equal(signer.PublicKey(), tx.Debtor) {
		return fault.InvalidPublicKey
	}
	for i := range tx.Inputs {
		if err := tx.SignInput(i, signer); nil != err {
			return err
		}
	}
	return nil
}

// VerifyInput - check input i's signature against a public key
func (tx *Transaction) VerifyInput(i int, publicKey ed25519.PublicKey) error {
	if i < 0 || i >= len(tx.Inputs) {
		return fault.InvalidCount
	}
	if ed25519.PublicKeySize != len(publicKey) {
		return fault.InvalidPublicKey
	}
	digest := tx.SimplifiedView(i, publicKey).Hash()
	if !ed25519.Verify(publicKey, digest[:], tx.Inputs[i].Signature[:]) {
		return fault.InvalidSignature
	}
	return nil
}
