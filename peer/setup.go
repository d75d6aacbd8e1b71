// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"io"
	"net"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/blockd/background"
	"github.com/bitmark-inc/blockd/fault"
	"github.com/bitmark-inc/blockd/protocol"
	"github.com/bitmark-inc/blockd/wire"
)

// Peer - listener and connector for one node
type Peer struct {
	sync.Mutex

	log       *logger.L
	stats     Statistics
	listener  *listener
	connector *connector

	background *background.T
}

// New - bind the listen addresses
func New(configuration *Configuration, dispatcher Dispatcher, static StaticPeers) (*Peer, error) {
	if err := configuration.check(); nil != err {
		return nil, err
	}

	p := &Peer{
		log: logger.New("peer"),
	}

	lstn, err := newListener(configuration, dispatcher, &p.stats, logger.New("listener"))
	if nil != err {
		return nil, err
	}
	p.listener = lstn

	p.connector = &connector{
		log:         logger.New("connector"),
		static:      static,
		dispatcher:  dispatcher,
		interval:    configuration.connectInterval(),
		readTimeout: configuration.readTimeout(),
	}
	return p, nil
}

// Start - run the listener and connector
func (p *Peer) Start() error {
	p.Lock()
	defer p.Unlock()

	if nil != p.background {
		return fault.AlreadyInitialised
	}

	p.log.Info("starting…")
	p.background = background.Start(background.Processes{p.listener, p.connector}, nil)
	return nil
}

// Stop - close all connections and wait for handlers to finish
func (p *Peer) Stop() error {
	p.Lock()
	defer p.Unlock()

	if nil == p.background {
		p.listener.closeListeners()
		return fault.NotInitialised
	}

	p.log.Info("shutting down…")
	p.background.Stop()
	p.background = nil

	p.log.Info("finished")
	p.log.Flush()
	return nil
}

// Addresses - the bound listen addresses
func (p *Peer) Addresses() []net.Addr {
	return p.listener.addresses()
}

// Statistics - live connection counters
func (p *Peer) Statistics() *Statistics {
	return &p.stats
}

// Broadcast - send a message to all static peers
func (p *Peer) Broadcast(messageType uint8, message interface{}) (int, error) {
	payload, err := protocol.Encode(message)
	if nil != err {
		return 0, err
	}
	if len(payload) > wire.MaximumPayload {
		return 0, fault.PayloadTooLarge
	}
	return p.connector.broadcast(messageType, payload), nil
}

// Send - encode and frame a single message
func Send(w io.Writer, messageType uint8, message interface{}) error {
	payload, err := protocol.Encode(message)
	if nil != err {
		return err
	}
	return wire.WriteFrame(w, messageType, payload)
}
