// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package protocol - node to node messages
//
// Payloads carried inside wire frames are MessagePack encoded.  A
// Handshake lists known nodes and is answered with a HandshakeReply
// carrying the receiver's own list; a TxShare carries transactions
// for validation and inclusion in the mempool.
package protocol

import (
	"net"
	"strconv"

	"github.com/bitmark-inc/blockd/fault"
	"github.com/bitmark-inc/blockd/transaction"
)

// message types
const (
	TypeHandshake      uint8 = 0
	TypeHandshakeReply uint8 = 1
	TypeTxShare        uint8 = 2
)

// MaximumAdvertisedNodes - limit on nodes sent in one handshake
const MaximumAdvertisedNodes = 32

// Node - a peer's listening address
type Node struct {
	Addr net.IP `codec:"addr" json:"addr"`
	Port uint16 `codec:"port" json:"port"`
}

// Handshake - list of known nodes
type Handshake struct {
	Nodes []Node `codec:"nodes" json:"nodes"`
}

// TxShare - list of transactions
type TxShare struct {
	Txs []transaction.Transaction `codec:"txs" json:"txs"`
}

// NewNode - create a node with the address held in 16 byte form
func NewNode(ip net.IP, port uint16) Node {
	return Node{
		Addr: ip.To16(),
		Port: port,
	}
}

// NodeFromString - parse "host:port" where host is a literal IP address
func NodeFromString(s string) (Node, error) {
	host, portString, err := net.SplitHostPort(s)
	if nil != err {
		return Node{}, fault.InvalidNode
	}
	ip := net.ParseIP(host)
	if nil == ip {
		return Node{}, fault.InvalidIPAddress
	}
	port, err := strconv.ParseUint(portString, 10, 16)
	if nil != err || 0 == port {
		return Node{}, fault.InvalidPort
	}
	return NewNode(ip, uint16(port)), nil
}

// Check - reject nodes that cannot be connected to
func (n Node) Check() error {
	if net.IPv6len != len(n.Addr) && net.IPv4len != len(n.Addr) {
		return fault.InvalidIPAddress
	}
	if n.Addr.IsUnspecified() {
		return fault.InvalidIPAddress
	}
	if 0 == n.Port {
		return fault.InvalidPort
	}
	return nil
}

// String - host:port form
func (n Node) String() string {
	return net.JoinHostPort(n.Addr.String(), strconv.Itoa(int(n.Port)))
}
