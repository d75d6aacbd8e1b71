// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package limitedset - bounded set of recently seen transaction hashes
package limitedset

import (
	"container/ring"
	"sync"

	"github.com/bitmark-inc/blockd/transaction"
)

// LimitedSet - holds at most size hashes, evicting the least recently added
type LimitedSet struct {
	sync.Mutex
	size int
	ring *ring.Ring
	hash map[transaction.TxHash]*ring.Ring
}

// New - create a new limited set that holds up to 'n' items
func New(n int) *LimitedSet {
	if n < 1 {
		n = 1
	}
	return &LimitedSet{
		size: n,
		ring: ring.New(n),
		hash: make(map[transaction.TxHash]*ring.Ring, n),
	}
}

// Add - add an item to the set, returns false if it was already present
//
// re-adding an item moves it to the most recent position
func (ls *LimitedSet) Add(item transaction.TxHash) bool {
	ls.Lock()
	defer ls.Unlock()

	if r, ok := ls.hash[item]; ok {
		switch r {
		case ls.ring.Prev():
			// already the most recent
		case ls.ring:
			// oldest of a full ring becomes the newest
			ls.ring = ls.ring.Next()
		default:
			r = r.Prev().Unlink(1)
			ls.ring.Prev().Link(r)
		}
		return false
	}

	if oldItem, ok := ls.ring.Value.(transaction.TxHash); ok {
		delete(ls.hash, oldItem)
	}
	ls.ring.Value = item
	ls.hash[item] = ls.ring
	ls.ring = ls.ring.Next()
	return true
}

// Exists - check to see if item is in the set
func (ls *LimitedSet) Exists(item transaction.TxHash) bool {
	ls.Lock()
	defer ls.Unlock()
	_, ok := ls.hash[item]
	return ok
}

// Count - number of items held
func (ls *LimitedSet) Count() int {
	ls.Lock()
	defer ls.Unlock()
	return len(ls.hash)
}
