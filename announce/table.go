// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package announce

import (
	"bytes"
	"encoding/binary"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/blockd/background"
	"github.com/bitmark-inc/blockd/fault"
	"github.com/bitmark-inc/blockd/protocol"
	"github.com/bitmark-inc/blockd/storage"
)

// DefaultMaximumPeers - table capacity used when none is configured
const DefaultMaximumPeers = 1000

// 16 byte IP address ++ big endian port
type nodeKey [net.IPv6len + 2]byte

func keyOf(node protocol.Node) nodeKey {
	k := nodeKey{}
	copy(k[:net.IPv6len], node.Addr.To16())
	binary.BigEndian.PutUint16(k[net.IPv6len:], node.Port)
	return k
}

type peerEntry struct {
	node      protocol.Node
	timestamp time.Time // last seen
	static    bool      // never expires
}

// stored form of a peer
type peerRecord struct {
	Node      protocol.Node `codec:"node"`
	Timestamp int64         `codec:"timestamp"`
}

// Table - concurrency safe set of known nodes
type Table struct {
	sync.RWMutex

	log  *logger.L
	pool *storage.PoolHandle // nil => not persisted

	self    []protocol.Node
	peers   map[nodeKey]*peerEntry
	maximum int

	background *background.T
}

// New - create an empty table holding at most maximum non-static
// peers, pool may be nil
func New(pool *storage.PoolHandle, maximum int, log *logger.L) *Table {
	if maximum <= 0 {
		maximum = DefaultMaximumPeers
	}
	return &Table{
		log:     log,
		pool:    pool,
		peers:   make(map[nodeKey]*peerEntry),
		maximum: maximum,
	}
}

// SetSelf - this node's own public listening addresses
func (t *Table) SetSelf(nodes []protocol.Node) {
	self := make([]protocol.Node, 0, len(nodes))
	for _, node := range nodes {
		if nil == node.Check() {
			self = append(self, protocol.NewNode(node.Addr, node.Port))
		}
	}

	t.Lock()
	t.self = self
	t.Unlock()
}

func (t *Table) isSelf(k nodeKey) bool {
	for _, node := range t.self {
		if keyOf(node) == k {
			return true
		}
	}
	return false
}

// Add - record a node, returns true if it was not already known
//
// a known node has its last seen time refreshed; a full table drops
// its least recently seen non-static peer to make room
func (t *Table) Add(node protocol.Node) bool {
	if nil != node.Check() {
		return false
	}
	node = protocol.NewNode(node.Addr, node.Port)
	k := keyOf(node)
	now := time.Now()

	t.Lock()
	if t.isSelf(k) {
		t.Unlock()
		return false
	}
	if e, ok := t.peers[k]; ok {
		e.timestamp = now
		t.Unlock()
		return false
	}

	evicted := t.makeRoom()
	t.peers[k] = &peerEntry{
		node:      node,
		timestamp: now,
	}
	t.Unlock()

	t.remove(evicted)
	t.persist(k, node, now)
	return true
}

// makeRoom - evict the least recently seen non-static peer if the
// table is at capacity; caller holds the lock
func (t *Table) makeRoom() []nodeKey {
	dynamic := 0
	found := false
	oldest := nodeKey{}
	oldestTime := time.Time{}
	for k, e := range t.peers {
		if e.static {
			continue
		}
		dynamic += 1
		if !found || e.timestamp.Before(oldestTime) {
			found = true
			oldest = k
			oldestTime = e.timestamp
		}
	}
	if !found || dynamic < t.maximum {
		return nil
	}
	t.log.Debugf("table full, evict peer: %s", t.peers[oldest].node)
	delete(t.peers, oldest)
	return []nodeKey{oldest}
}

// remove - drop stored records for the keys
func (t *Table) remove(keys []nodeKey) {
	if nil == t.pool {
		return
	}
	for _, k := range keys {
		if err := t.pool.Delete(k[:]); nil != err {
			t.log.Errorf("delete peer: %x  error: %s", k, err)
		}
	}
}

func (t *Table) persist(k nodeKey, node protocol.Node, timestamp time.Time) {
	if nil == t.pool {
		return
	}
	packed, err := protocol.Encode(&peerRecord{
		Node:      node,
		Timestamp: timestamp.Unix(),
	})
	if nil == err {
		err = t.pool.Put(k[:], packed)
	}
	if nil != err {
		t.log.Errorf("store peer: %s  error: %s", node, err)
	}
}

// Nodes - this node's addresses followed by known peers in address
// order, at most limit entries
func (t *Table) Nodes(limit int) []protocol.Node {
	t.RLock()
	defer t.RUnlock()

	nodes := make([]protocol.Node, 0, len(t.self)+len(t.peers))
	nodes = append(nodes, t.self...)
	nodes = append(nodes, sortedNodes(t.peers, false)...)

	if limit >= 0 && len(nodes) > limit {
		nodes = nodes[:limit]
	}
	return nodes
}

// Static - the static peers in address order
func (t *Table) Static() []protocol.Node {
	t.RLock()
	defer t.RUnlock()
	return sortedNodes(t.peers, true)
}

func sortedNodes(peers map[nodeKey]*peerEntry, staticOnly bool) []protocol.Node {
	keys := make([]nodeKey, 0, len(peers))
	for k, e := range peers {
		if !staticOnly || e.static {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})

	nodes := make([]protocol.Node, len(keys))
	for i, k := range keys {
		nodes[i] = peers[k].node
	}
	return nodes
}

// SetStatic - replace the set of static peers
//
// nodes dropped from the static set remain as ordinary peers
func (t *Table) SetStatic(nodes []protocol.Node) {
	now := time.Now()
	added := make([]*peerEntry, 0, len(nodes))

	t.Lock()
	for _, e := range t.peers {
		e.static = false
	}
	for _, node := range nodes {
		if nil != node.Check() {
			continue
		}
		node = protocol.NewNode(node.Addr, node.Port)
		k := keyOf(node)
		if e, ok := t.peers[k]; ok {
			e.static = true
			continue
		}
		e := &peerEntry{
			node:      node,
			timestamp: now,
			static:    true,
		}
		t.peers[k] = e
		added = append(added, e)
	}
	t.Unlock()

	for _, e := range added {
		t.persist(keyOf(e.node), e.node, e.timestamp)
	}
	t.log.Infof("static peers: %d  new: %d", len(nodes), len(added))
}

// Count - number of known peers
func (t *Table) Count() int {
	t.RLock()
	defer t.RUnlock()
	return len(t.peers)
}

// Expire - remove non-static peers not seen within maxAge
func (t *Table) Expire(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	expired := make([]nodeKey, 0)

	t.Lock()
	for k, e := range t.peers {
		if !e.static && e.timestamp.Before(cutoff) {
			delete(t.peers, k)
			expired = append(expired, k)
		}
	}
	t.Unlock()

	t.remove(expired)
	if 0 != len(expired) {
		t.log.Infof("expired peers: %d", len(expired))
	}
	return len(expired)
}

// Restore - load peers saved by earlier runs
//
// records beyond the table capacity are skipped
func (t *Table) Restore() (int, error) {
	if nil == t.pool {
		return 0, fault.NotInitialised
	}

	restored := 0
	err := t.pool.Map(func(key []byte, value []byte) bool {
		var r peerRecord
		if err := protocol.Decode(value, &r); nil != err {
			t.log.Warnf("peer record: %x  error: %s", key, err)
			return true
		}
		if nil != r.Node.Check() {
			return true
		}
		node := protocol.NewNode(r.Node.Addr, r.Node.Port)

		t.Lock()
		k := keyOf(node)
		if _, ok := t.peers[k]; !ok && len(t.peers) < t.maximum {
			t.peers[k] = &peerEntry{
				node:      node,
				timestamp: time.Unix(r.Timestamp, 0),
			}
			restored += 1
		}
		t.Unlock()
		return true
	})

	t.log.Infof("restored peers: %d", restored)
	return restored, err
}
