// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/blockd/fault"
)

// Resolver - lookup of earlier outputs referenced by inputs
type Resolver interface {
	Resolve(hash TxHash, index uint8) (Output, error)
}

// outpoint - key to detect an output spent twice in one transaction
type outpoint struct {
	tx    TxHash
	index uint8
}

// IsValid - structural checks only
func (tx *Transaction) IsValid() bool {
	return nil == tx.checkStructure()
}

func (tx *Transaction) checkStructure() error {
	if 0 == len(tx.Inputs) {
		return fault.NoInputs
	}
	if 0 == len(tx.Outputs) {
		return fault.NoOutputs
	}
	return nil
}

// Validate - full check against the outputs being spent
//
// every referenced output must exist and be owned by the debtor, every
// input signature must verify over its simplified view and the outputs
// must not exceed the inputs; any remainder is the fee
func (tx *Transaction) Validate(resolver Resolver) error {
	if err := tx.checkStructure(); nil != err {
		return err
	}
	if ed25519.PublicKeySize != len(tx.Debtor) {
		return fault.InvalidPublicKey
	}

	owner := AddressFromPublicKey(tx.Debtor)
	seen := make(map[outpoint]struct{}, len(tx.Inputs))

	totalIn := uint64(0)
	for i, input := range tx.Inputs {
		key := outpoint{tx: input.Tx, index: input.Index}
		if _, ok := seen[key]; ok {
			return fault.DuplicateInput
		}
		seen[key] = struct{}{}

		spent, err := resolver.Resolve(input.Tx, input.Index)
		if nil != err {
			return err
		}
		if spent.Creditor != owner {
			return fault.WrongOwner
		}
		if err := tx.VerifyInput(i, tx.Debtor); nil != err {
			return err
		}

		sum := totalIn + spent.Amount
		if sum < totalIn {
			return fault.ValueOverflow
		}
		totalIn = sum
	}

	totalOut := uint64(0)
	for _, output := range tx.Outputs {
		sum := totalOut + output.Amount
		if sum < totalOut {
			return fault.ValueOverflow
		}
		totalOut = sum
	}

	if totalOut > totalIn {
		return fault.ValueNotConserved
	}
	return nil
}

// Fee - implicit fee of a validated transaction
func (tx *Transaction) Fee(resolver Resolver) (uint64, error) {
	if err := tx.Validate(resolver); nil != err {
		return 0, err
	}
	totalIn := uint64(0)
	for _, input := range tx.Inputs {
		spent, err := resolver.Resolve(input.Tx, input.Index)
		if nil != err {
			return 0, err
		}
		totalIn += spent.Amount
	}
	totalOut := uint64(0)
	for _, output := range tx.Outputs {
		totalOut += output.Amount
	}
	return totalIn - totalOut, nil
}
