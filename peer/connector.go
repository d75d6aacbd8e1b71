// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"net"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/blockd/fault"
	"github.com/bitmark-inc/blockd/protocol"
	"github.com/bitmark-inc/blockd/wire"
)

const dialTimeout = 10 * time.Second

// StaticPeers - supplies the nodes to connect to
type StaticPeers interface {
	Static() []protocol.Node
}

type connector struct {
	log         *logger.L
	static      StaticPeers
	dispatcher  Dispatcher
	interval    time.Duration
	readTimeout time.Duration
}

// handshake with every static peer now and then periodically
func (conn *connector) Run(args interface{}, shutdown <-chan struct{}) {
	log := conn.log

	log.Info("starting…")

	ticker := time.NewTicker(conn.interval)
	defer ticker.Stop()

	conn.process()
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			conn.process()
		}
	}
	log.Info("stopped")
}

func (conn *connector) process() {
	log := conn.log

	payload, err := conn.dispatcher.Advertisement()
	if nil != err {
		log.Errorf("handshake encode error: %s", err)
		return
	}

	nodes := conn.static.Static()
	log.Debugf("handshake with static peers: %d", len(nodes))

	for _, node := range nodes {
		if err := conn.handshake(node, payload); nil != err {
			log.Warnf("handshake with: %s  error: %s", node, err)
		}
	}
}

// send a handshake and merge the reply
func (conn *connector) handshake(node protocol.Node, payload []byte) error {
	c, err := net.DialTimeout("tcp", node.String(), dialTimeout)
	if nil != err {
		return err
	}
	defer c.Close()

	if err := c.SetDeadline(time.Now().Add(conn.readTimeout)); nil != err {
		return err
	}
	if err := wire.WriteFrame(c, protocol.TypeHandshake, payload); nil != err {
		return err
	}

	frame, err := wire.ReadFrame(c)
	if nil != err {
		return err
	}
	if protocol.TypeHandshakeReply != frame.Type {
		return fault.UnknownMessageType
	}
	_, err = conn.dispatcher.Dispatch(frame.Type, frame.Payload)
	return err
}

// send one message to every static peer, returns the number reached
func (conn *connector) broadcast(messageType uint8, payload []byte) int {
	sent := 0
	for _, node := range conn.static.Static() {
		c, err := net.DialTimeout("tcp", node.String(), dialTimeout)
		if nil != err {
			conn.log.Warnf("broadcast to: %s  error: %s", node, err)
			continue
		}
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		err = wire.WriteFrame(c, messageType, payload)
		_ = c.Close()
		if nil != err {
			conn.log.Warnf("broadcast to: %s  error: %s", node, err)
			continue
		}
		sent += 1
	}
	return sent
}
