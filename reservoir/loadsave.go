// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reservoir

import (
	"time"

	"github.com/bitmark-inc/blockd/protocol"
	"github.com/bitmark-inc/blockd/storage"
	"github.com/bitmark-inc/blockd/transaction"
)

// stored form of a pending transaction
type pendingRecord struct {
	Tx      transaction.Transaction `codec:"tx"`
	Expires int64                   `codec:"expires"` // unix nanoseconds
}

// Save - replace the stored pending set with the current transactions
func (r *Reservoir) Save(pool *storage.PoolHandle) error {
	items := r.pending.Items()
	elements := make([]storage.Element, 0, len(items))

	for key, item := range items {
		tx, ok := item.Object.(*transaction.Transaction)
		if !ok {
			continue
		}
		packed, err := protocol.Encode(&pendingRecord{
			Tx:      *tx,
			Expires: item.Expiration,
		})
		if nil != err {
			return err
		}
		elements = append(elements, storage.Element{
			Key:   []byte(key),
			Value: packed,
		})
	}

	if err := pool.Replace(elements); nil != err {
		return err
	}
	r.log.Infof("saved pending transactions: %d", len(elements))
	return nil
}

// Load - restore saved transactions that still validate
//
// each keeps the expiry time it had when saved; returns the number
// restored, invalid or expired records are logged and skipped
func (r *Reservoir) Load(pool *storage.PoolHandle, resolver transaction.Resolver) (int, error) {
	log := r.log

	restored := 0
	err := pool.Map(func(key []byte, value []byte) bool {
		var record pendingRecord
		if err := protocol.Decode(value, &record); nil != err {
			log.Warnf("pending record: %x  error: %s", key, err)
			return true
		}
		tx := &record.Tx

		lifetime := time.Until(time.Unix(0, record.Expires))
		if lifetime <= 0 {
			log.Infof("pending tx: %s  expired while stopped", tx.Hash())
			return true
		}
		if err := tx.Validate(resolver); nil != err {
			log.Warnf("pending tx: %s  no longer valid: %s", tx.Hash(), err)
			return true
		}
		if _, err := r.store(tx, lifetime); nil != err {
			log.Warnf("pending tx: %s  not restored: %s", tx.Hash(), err)
			return true
		}
		restored += 1
		return true
	})
	if nil != err {
		return restored, err
	}

	log.Infof("restored pending transactions: %d", restored)
	return restored, nil
}
