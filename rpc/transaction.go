// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"sync"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/blockd/account"
	"github.com/bitmark-inc/blockd/fault"
	"github.com/bitmark-inc/blockd/ledger"
	"github.com/bitmark-inc/blockd/protocol"
	"github.com/bitmark-inc/blockd/ratelimit"
	"github.com/bitmark-inc/blockd/reservoir"
	"github.com/bitmark-inc/blockd/transaction"
)

const (
	rateLimitTransaction = 200
	rateBurstTransaction = 100

	maximumPendingList = 100

	// keeps a single transaction inside one TxShare frame
	maximumPayInputs = 5
)

//go:generate mockgen -destination=mocks/mock_rpc.go -package=mocks github.com/bitmark-inc/blockd/rpc Broadcaster,PeerTable

// Broadcaster - sends a message to the static peers
type Broadcaster interface {
	Broadcast(messageType uint8, message interface{}) (int, error)
}

// Transaction - an RPC entry for transaction related functions
type Transaction struct {
	lock sync.Mutex // serialises output selection

	log         *logger.L
	limiter     *rate.Limiter
	account     *account.Account
	ledger      *ledger.Ledger
	mempool     *reservoir.Reservoir
	broadcaster Broadcaster
}

// PayArguments - payment request
//
// fee is left unspent as the implicit transaction fee
type PayArguments struct {
	Creditor transaction.Address `json:"creditor"`
	Amount   uint64              `json:"amount,string"`
	Fee      uint64              `json:"fee,string"`
}

// PayReply - result of a payment
type PayReply struct {
	TxId   transaction.TxHash `json:"txId"`
	Inputs int                `json:"inputs"`
	Change uint64             `json:"change,string"`
	Peers  int                `json:"peers"`
}

// Pay - spend outputs owned by the node account
func (t *Transaction) Pay(arguments *PayArguments, reply *PayReply) error {
	if err := ratelimit.Limit(t.limiter); nil != err {
		return err
	}

	if nil == arguments || 0 == arguments.Amount {
		return fault.InvalidAmount
	}
	if arguments.Creditor.IsZero() {
		return fault.InvalidAddress
	}
	required := arguments.Amount + arguments.Fee
	if required < arguments.Amount {
		return fault.ValueOverflow
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	owner := t.account.Address()
	tx := transaction.New(t.account.PublicKey())

	total := uint64(0)
	for _, entry := range t.ledger.Owned(owner) {
		if total >= required {
			break
		}
		if t.mempool.IsSpent(entry.Tx, entry.Index) {
			continue
		}
		if len(tx.Inputs) >= maximumPayInputs {
			return fault.TooManyInputs
		}
		sum := total + entry.Amount
		if sum < total {
			return fault.ValueOverflow
		}
		total = sum
		tx.AddInput(entry.Tx, entry.Index)
	}
	if total < required {
		return fault.InsufficientFunds
	}

	tx.AddOutput(arguments.Amount, arguments.Creditor)
	change := total - required
	if change > 0 {
		tx.AddOutput(change, owner)
	}

	if err := tx.Sign(t.account); nil != err {
		return err
	}
	if err := tx.Validate(t.ledger); nil != err {
		return err
	}

	hash, err := t.mempool.Store(tx)
	if nil != err {
		return err
	}
	t.log.Infof("pay tx: %s  amount: %d  to: %s", hash, arguments.Amount, arguments.Creditor)

	peers, err := t.broadcaster.Broadcast(protocol.TypeTxShare, &protocol.TxShare{
		Txs: []transaction.Transaction{*tx},
	})
	if nil != err {
		t.log.Errorf("broadcast tx: %s  error: %s", hash, err)
	}

	reply.TxId = hash
	reply.Inputs = len(tx.Inputs)
	reply.Change = change
	reply.Peers = peers
	return nil
}

// PendingArguments - maximum number of hashes to return
type PendingArguments struct {
	Count int `json:"count"`
}

// PendingReply - pending transaction hashes in ascending order
type PendingReply struct {
	Total  int                  `json:"total"`
	Hashes []transaction.TxHash `json:"hashes"`
}

// Pending - list the mempool
func (t *Transaction) Pending(arguments *PendingArguments, reply *PendingReply) error {
	if err := ratelimit.LimitN(t.limiter, arguments.Count, maximumPendingList); nil != err {
		return err
	}

	hashes := t.mempool.Hashes()
	reply.Total = len(hashes)
	if len(hashes) > arguments.Count {
		hashes = hashes[:arguments.Count]
	}
	reply.Hashes = hashes
	return nil
}

// StatusArguments - arguments for status request
type StatusArguments struct {
	TxId transaction.TxHash `json:"txId"`
}

// StatusReply - results from status request
type StatusReply struct {
	Status string `json:"status"`
}

// Status - query transaction status
func (t *Transaction) Status(arguments *StatusArguments, reply *StatusReply) error {
	if err := ratelimit.Limit(t.limiter); nil != err {
		return err
	}

	if _, ok := t.mempool.Get(arguments.TxId); ok {
		reply.Status = "pending"
	} else {
		reply.Status = "unknown"
	}
	return nil
}
