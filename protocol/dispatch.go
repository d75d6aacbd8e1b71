// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package protocol

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/blockd/counter"
	"github.com/bitmark-inc/blockd/fault"
	"github.com/bitmark-inc/blockd/limitedset"
	"github.com/bitmark-inc/blockd/transaction"
)

//go:generate mockgen -destination=mocks/mock_protocol.go -package=mocks github.com/bitmark-inc/blockd/protocol PeerTable,Mempool
//go:generate mockgen -destination=mocks/mock_resolver.go -package=mocks github.com/bitmark-inc/blockd/transaction Resolver

// number of recently accepted transaction hashes that are not revalidated
const recentTransactions = 1000

// PeerTable - known nodes, shared by all connections
type PeerTable interface {
	Add(node Node) bool
	Nodes(limit int) []Node
}

// Mempool - receives validated transactions
type Mempool interface {
	Store(tx *transaction.Transaction) (transaction.TxHash, error)
}

// Statistics - dispatch counters
type Statistics struct {
	Handshakes   counter.Counter `json:"handshakes"`
	NodesAdded   counter.Counter `json:"nodesAdded"`
	TxAccepted   counter.Counter `json:"txAccepted"`
	TxRejected   counter.Counter `json:"txRejected"`
	TxDuplicate  counter.Counter `json:"txDuplicate"`
	Undecodable  counter.Counter `json:"undecodable"`
	UnknownTypes counter.Counter `json:"unknownTypes"`
}

// Reply - a message to be sent back on the same connection
type Reply struct {
	Type    uint8
	Payload []byte
}

// Dispatcher - routes decoded payloads to the peer table and mempool
//
// a single dispatcher is shared by all connection handlers; the
// collaborators must be safe for concurrent use
type Dispatcher struct {
	log      *logger.L
	peers    PeerTable
	mempool  Mempool
	resolver transaction.Resolver
	recent   *limitedset.LimitedSet
	stats    Statistics
}

// NewDispatcher - create a dispatcher over the given collaborators
func NewDispatcher(peers PeerTable, mempool Mempool, resolver transaction.Resolver, log *logger.L) *Dispatcher {
	return &Dispatcher{
		log:      log,
		peers:    peers,
		mempool:  mempool,
		resolver: resolver,
		recent:   limitedset.New(recentTransactions),
	}
}

// Statistics - live counters
func (d *Dispatcher) Statistics() *Statistics {
	return &d.stats
}

// Dispatch - process one payload
//
// errors are per message: the caller logs nothing further and may
// continue reading from the connection
func (d *Dispatcher) Dispatch(messageType uint8, payload []byte) (*Reply, error) {
	switch messageType {
	case TypeHandshake, TypeHandshakeReply:
		return d.handshake(messageType, payload)

	case TypeTxShare:
		return nil, d.txShare(payload)

	default:
		d.stats.UnknownTypes.Increment()
		d.log.Warnf("unknown message type: %d  payload length: %d", messageType, len(payload))
		return nil, fault.UnknownMessageType
	}
}

// Advertisement - handshake payload listing the nodes this node offers
func (d *Dispatcher) Advertisement() ([]byte, error) {
	return Encode(&Handshake{
		Nodes: d.peers.Nodes(MaximumAdvertisedNodes),
	})
}

func (d *Dispatcher) handshake(messageType uint8, payload []byte) (*Reply, error) {
	log := d.log

	var h Handshake
	if err := Decode(payload, &h); nil != err {
		d.stats.Undecodable.Increment()
		log.Warnf("handshake: %s", err)
		return nil, err
	}
	d.stats.Handshakes.Increment()

	log.Debugf("handshake type: %d  nodes: %d", messageType, len(h.Nodes))

	for _, node := range h.Nodes {
		if err := node.Check(); nil != err {
			log.Debugf("ignore node: %v  error: %s", node.Addr, err)
			continue
		}
		node = NewNode(node.Addr, node.Port)
		if d.peers.Add(node) {
			d.stats.NodesAdded.Increment()
			log.Infof("new node: %s", node)
		}
	}

	if TypeHandshake != messageType {
		return nil, nil
	}

	reply, err := d.Advertisement()
	if nil != err {
		log.Errorf("encode handshake reply: %s", err)
		return nil, err
	}
	return &Reply{Type: TypeHandshakeReply, Payload: reply}, nil
}

func (d *Dispatcher) txShare(payload []byte) error {
	log := d.log

	var share TxShare
	if err := Decode(payload, &share); nil != err {
		d.stats.Undecodable.Increment()
		log.Warnf("tx share: %s", err)
		return err
	}

	for i := range share.Txs {
		tx := &share.Txs[i]
		hash := tx.Hash()

		// the hash excludes signatures so only accepted hashes are remembered
		if d.recent.Exists(hash) {
			d.stats.TxDuplicate.Increment()
			log.Debugf("already seen tx: %s", hash)
			continue
		}

		if err := tx.Validate(d.resolver); nil != err {
			d.stats.TxRejected.Increment()
			log.Warnf("rejected tx: %s  debtor: %s  error: %s", hash, tx.DebtorString(), err)
			continue
		}

		_, err := d.mempool.Store(tx)
		if fault.TransactionAlreadyKnown == err {
			d.recent.Add(hash)
			d.stats.TxDuplicate.Increment()
			log.Debugf("already pending tx: %s", hash)
			continue
		}
		if nil != err {
			d.stats.TxRejected.Increment()
			log.Warnf("mempool refused tx: %s  error: %s", hash, err)
			continue
		}

		d.recent.Add(hash)
		d.stats.TxAccepted.Increment()
		log.Infof("accepted tx: %s", hash)
	}
	return nil
}
