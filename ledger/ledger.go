// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - in memory set of spendable outputs
//
// The ledger resolves input references for transaction validation.
// It is seeded at start up and is not persisted.
package ledger

import (
	"sort"
	"sync"

	"github.com/bitmark-inc/blockd/fault"
	"github.com/bitmark-inc/blockd/transaction"
)

// OutPoint - reference to one output of a transaction
type OutPoint struct {
	Tx    transaction.TxHash `json:"tx"`
	Index uint8              `json:"index"`
}

// Entry - a spendable output with its reference
type Entry struct {
	OutPoint
	transaction.Output
}

// Ledger - lock guarded output set
type Ledger struct {
	sync.RWMutex
	outputs map[OutPoint]transaction.Output
}

// New - create an empty ledger
func New() *Ledger {
	return &Ledger{
		outputs: make(map[OutPoint]transaction.Output),
	}
}

// Add - record a spendable output
//
// an existing reference is never replaced
func (l *Ledger) Add(hash transaction.TxHash, index uint8, output transaction.Output) error {
	key := OutPoint{Tx: hash, Index: index}

	l.Lock()
	defer l.Unlock()

	if _, ok := l.outputs[key]; ok {
		return fault.OutputExists
	}
	l.outputs[key] = output
	return nil
}

// Resolve - find the output referenced by an input
func (l *Ledger) Resolve(hash transaction.TxHash, index uint8) (transaction.Output, error) {
	l.RLock()
	defer l.RUnlock()

	output, ok := l.outputs[OutPoint{Tx: hash, Index: index}]
	if !ok {
		return transaction.Output{}, fault.OutputNotFound
	}
	return output, nil
}

// Count - number of outputs held
func (l *Ledger) Count() int {
	l.RLock()
	defer l.RUnlock()
	return len(l.outputs)
}

// Owned - outputs payable to an address, ordered by reference
func (l *Ledger) Owned(owner transaction.Address) []Entry {
	l.RLock()
	entries := make([]Entry, 0)
	for key, output := range l.outputs {
		if output.Creditor == owner {
			entries = append(entries, Entry{OutPoint: key, Output: output})
		}
	}
	l.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		c := entries[i].Tx.Compare(entries[j].Tx)
		if 0 != c {
			return c < 0
		}
		return entries[i].Index < entries[j].Index
	})
	return entries
}
