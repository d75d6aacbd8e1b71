// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/blockd/account"
	"github.com/bitmark-inc/blockd/ledger"
	"github.com/bitmark-inc/blockd/ratelimit"
	"github.com/bitmark-inc/blockd/reservoir"
	"github.com/bitmark-inc/blockd/transaction"
)

const (
	rateLimitAccount = 10
	rateBurstAccount = 5
)

// Account - the node's own key pair
type Account struct {
	log     *logger.L
	limiter *rate.Limiter
	account *account.Account
	ledger  *ledger.Ledger
	mempool *reservoir.Reservoir
}

// AccountArguments - empty arguments for account requests
type AccountArguments struct{}

// AccountInfoReply - keys and spendable outputs
type AccountInfoReply struct {
	Name      string              `json:"name"`
	PublicKey string              `json:"publicKey"`
	Address   transaction.Address `json:"address"`
	Balance   uint64              `json:"balance,string"`
	Available uint64              `json:"available,string"`
	Outputs   []ledger.Entry      `json:"outputs"`
}

// Info - public key, address and owned outputs
//
// available excludes outputs spent by pending transactions
func (a *Account) Info(_ *AccountArguments, reply *AccountInfoReply) error {
	if err := ratelimit.Limit(a.limiter); nil != err {
		return err
	}

	reply.Name = a.account.Name()
	reply.PublicKey = a.account.String()
	reply.Address = a.account.Address()
	reply.Outputs = a.ledger.Owned(reply.Address)

	for _, entry := range reply.Outputs {
		reply.Balance += entry.Amount
		if !a.mempool.IsSpent(entry.Tx, entry.Index) {
			reply.Available += entry.Amount
		}
	}
	return nil
}

// DumpPrivKeyReply - base58 encoded private key
type DumpPrivKeyReply struct {
	PrivateKey string `json:"privateKey"`
}

// DumpPrivKey - export the node account seed
func (a *Account) DumpPrivKey(_ *AccountArguments, reply *DumpPrivKeyReply) error {
	if err := ratelimit.Limit(a.limiter); nil != err {
		return err
	}

	a.log.Warn("private key exported")
	reply.PrivateKey = a.account.PrivateKeyString()
	return nil
}
