// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"net"
	"net/rpc"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/blockd/account"
	"github.com/bitmark-inc/blockd/background"
	"github.com/bitmark-inc/blockd/counter"
	"github.com/bitmark-inc/blockd/fault"
	"github.com/bitmark-inc/blockd/ledger"
	"github.com/bitmark-inc/blockd/peer"
	"github.com/bitmark-inc/blockd/protocol"
	"github.com/bitmark-inc/blockd/reservoir"
)

// Services - collaborators used by the RPC methods
type Services struct {
	Version     string
	Account     *account.Account
	Ledger      *ledger.Ledger
	Mempool     *reservoir.Reservoir
	Peers       PeerTable
	Broadcaster Broadcaster
	Network     *peer.Statistics
	Dispatch    *protocol.Statistics
}

// RPC - the client RPC server
type RPC struct {
	sync.Mutex

	log         *logger.L
	connections counter.Counter
	listener    *listener
	background  *background.T
}

// New - register the services and bind the listen addresses
func New(configuration *Configuration, services *Services) (*RPC, error) {
	if err := configuration.check(); nil != err {
		return nil, err
	}
	if nil == services.Account || nil == services.Ledger || nil == services.Mempool ||
		nil == services.Peers || nil == services.Broadcaster {
		return nil, fault.MissingParameters
	}

	r := &RPC{
		log: logger.New("rpc"),
	}

	server, err := r.createServer(services)
	if nil != err {
		return nil, err
	}

	r.listener, err = newListener(configuration, server, &r.connections, r.log)
	if nil != err {
		return nil, err
	}
	return r, nil
}

func (r *RPC) createServer(services *Services) (*rpc.Server, error) {
	log := r.log
	server := rpc.NewServer()

	node := &Node{
		log:      log,
		limiter:  rate.NewLimiter(rateLimitNode, rateBurstNode),
		start:    time.Now().UTC(),
		version:  services.Version,
		peers:    services.Peers,
		mempool:  services.Mempool,
		network:  services.Network,
		dispatch: services.Dispatch,
		rpcs:     &r.connections,
	}
	acct := &Account{
		log:     log,
		limiter: rate.NewLimiter(rateLimitAccount, rateBurstAccount),
		account: services.Account,
		ledger:  services.Ledger,
		mempool: services.Mempool,
	}
	tx := &Transaction{
		log:         log,
		limiter:     rate.NewLimiter(rateLimitTransaction, rateBurstTransaction),
		account:     services.Account,
		ledger:      services.Ledger,
		mempool:     services.Mempool,
		broadcaster: services.Broadcaster,
	}

	for _, service := range []interface{}{node, acct, tx} {
		if err := server.Register(service); nil != err {
			log.Criticalf("rpc register error: %s", err)
			return nil, err
		}
	}
	return server, nil
}

// Start - begin accepting clients
func (r *RPC) Start() error {
	r.Lock()
	defer r.Unlock()

	if nil != r.background {
		return fault.AlreadyInitialised
	}
	r.log.Info("starting…")
	r.background = background.Start(background.Processes{r.listener}, nil)
	return nil
}

// Stop - close all client connections
func (r *RPC) Stop() error {
	r.Lock()
	defer r.Unlock()

	if nil == r.background {
		r.listener.closeListeners()
		return fault.NotInitialised
	}

	r.log.Info("shutting down…")
	r.background.Stop()
	r.background = nil

	r.log.Info("finished")
	r.log.Flush()
	return nil
}

// Addresses - the bound listen addresses
func (r *RPC) Addresses() []net.Addr {
	return r.listener.addresses()
}
