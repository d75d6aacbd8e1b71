// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reservoir

import (
	"sort"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	cache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/blockd/fault"
	"github.com/bitmark-inc/blockd/transaction"
)

// defaults
const (
	DefaultExpiry   = 2 * time.Hour
	cleanupInterval = 5 * time.Minute
)

type outPoint struct {
	tx    transaction.TxHash
	index uint8
}

// Reservoir - concurrency safe mempool
type Reservoir struct {
	sync.Mutex
	log     *logger.L
	pending *cache.Cache
	spent   map[outPoint]transaction.TxHash
}

// New - create an empty reservoir whose entries live for expiry
func New(expiry time.Duration, log *logger.L) *Reservoir {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	interval := cleanupInterval
	if expiry < interval {
		interval = expiry
	}

	r := &Reservoir{
		log:     log,
		pending: cache.New(expiry, interval),
		spent:   make(map[outPoint]transaction.TxHash),
	}
	r.pending.OnEvicted(r.evicted)
	return r
}

func cacheKey(hash transaction.TxHash) string {
	return string(hash[:])
}

// Store - add a validated transaction
func (r *Reservoir) Store(tx *transaction.Transaction) (transaction.TxHash, error) {
	return r.store(tx, cache.DefaultExpiration)
}

// store with an explicit lifetime
func (r *Reservoir) store(tx *transaction.Transaction, lifetime time.Duration) (transaction.TxHash, error) {
	hash := tx.Hash()
	key := cacheKey(hash)

	r.Lock()
	defer r.Unlock()

	if _, found := r.pending.Get(key); found {
		return hash, fault.TransactionAlreadyKnown
	}

	for _, input := range tx.Inputs {
		other, ok := r.spent[outPoint{tx: input.Tx, index: input.Index}]
		if !ok || other == hash {
			continue
		}

		// an expired spender awaiting cleanup no longer holds the output
		if _, live := r.pending.Get(cacheKey(other)); live {
			r.log.Debugf("tx: %s  input: %s[%d] already spent by: %s", hash, input.Tx, input.Index, other)
			return hash, fault.DoubleSpend
		}
	}

	if err := r.pending.Add(key, tx, lifetime); nil != err {
		return hash, fault.TransactionAlreadyKnown
	}
	for _, input := range tx.Inputs {
		r.spent[outPoint{tx: input.Tx, index: input.Index}] = hash
	}

	r.log.Debugf("stored tx: %s", hash)
	return hash, nil
}

// called by the cache outside of its own lock
func (r *Reservoir) evicted(key string, value interface{}) {
	tx, ok := value.(*transaction.Transaction)
	if !ok {
		return
	}
	hash := transaction.TxHashFromBytes([]byte(key))

	r.Lock()
	for _, input := range tx.Inputs {
		op := outPoint{tx: input.Tx, index: input.Index}
		if hash == r.spent[op] {
			delete(r.spent, op)
		}
	}
	r.Unlock()

	r.log.Debugf("removed tx: %s", hash)
}

// Get - fetch a pending transaction
func (r *Reservoir) Get(hash transaction.TxHash) (*transaction.Transaction, bool) {
	value, found := r.pending.Get(cacheKey(hash))
	if !found {
		return nil, false
	}
	return value.(*transaction.Transaction), true
}

// Remove - drop a pending transaction
func (r *Reservoir) Remove(hash transaction.TxHash) {
	r.pending.Delete(cacheKey(hash))
}

// Count - number of pending transactions
func (r *Reservoir) Count() int {
	return r.pending.ItemCount()
}

// Hashes - sorted hashes of all unexpired transactions
func (r *Reservoir) Hashes() []transaction.TxHash {
	items := r.pending.Items()
	hashes := make([]transaction.TxHash, 0, len(items))
	for key := range items {
		hashes = append(hashes, transaction.TxHashFromBytes([]byte(key)))
	}
	sort.Slice(hashes, func(i, j int) bool {
		return hashes[i].Compare(hashes[j]) < 0
	})
	return hashes
}

// IsSpent - true if a live pending transaction spends the output
func (r *Reservoir) IsSpent(hash transaction.TxHash, index uint8) bool {
	r.Lock()
	other, ok := r.spent[outPoint{tx: hash, index: index}]
	r.Unlock()
	if !ok {
		return false
	}
	_, live := r.pending.Get(cacheKey(other))
	return live
}
