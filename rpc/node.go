// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/blockd/counter"
	"github.com/bitmark-inc/blockd/peer"
	"github.com/bitmark-inc/blockd/protocol"
	"github.com/bitmark-inc/blockd/ratelimit"
	"github.com/bitmark-inc/blockd/reservoir"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100

	maximumNodeList = 100
)

// PeerTable - known peer nodes
type PeerTable interface {
	Nodes(limit int) []protocol.Node
	Count() int
}

// Node - type for RPC calls
type Node struct {
	log      *logger.L
	limiter  *rate.Limiter
	start    time.Time
	version  string
	peers    PeerTable
	mempool  *reservoir.Reservoir
	network  *peer.Statistics
	dispatch *protocol.Statistics
	rpcs     *counter.Counter
}

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Version     string   `json:"version"`
	Uptime      string   `json:"uptime"`
	Peers       int      `json:"peers"`
	Connections uint64   `json:"connections"`
	RPCs        uint64   `json:"rpcs"`
	Mempool     int      `json:"mempool"`
	Counters    Counters `json:"counters"`
}

// Counters - network and transaction counters
type Counters struct {
	Accepted       uint64 `json:"accepted"`
	Refused        uint64 `json:"refused"`
	Frames         uint64 `json:"frames"`
	FramesRejected uint64 `json:"framesRejected"`
	Handshakes     uint64 `json:"handshakes"`
	NodesAdded     uint64 `json:"nodesAdded"`
	TxAccepted     uint64 `json:"txAccepted"`
	TxRejected     uint64 `json:"txRejected"`
	TxDuplicate    uint64 `json:"txDuplicate"`
	Undecodable    uint64 `json:"undecodable"`
	UnknownTypes   uint64 `json:"unknownTypes"`
}

// Info - return some information about this node
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {
	if err := ratelimit.Limit(node.limiter); nil != err {
		return err
	}

	reply.Version = node.version
	reply.Uptime = time.Since(node.start).String()
	reply.Peers = node.peers.Count()
	reply.RPCs = node.rpcs.Uint64()
	reply.Mempool = node.mempool.Count()

	if nil != node.network {
		reply.Connections = node.network.Connections.Uint64()
		reply.Counters.Accepted = node.network.Accepted.Uint64()
		reply.Counters.Refused = node.network.Refused.Uint64()
		reply.Counters.Frames = node.network.Frames.Uint64()
		reply.Counters.FramesRejected = node.network.FramesRejected.Uint64()
	}
	if nil != node.dispatch {
		reply.Counters.Handshakes = node.dispatch.Handshakes.Uint64()
		reply.Counters.NodesAdded = node.dispatch.NodesAdded.Uint64()
		reply.Counters.TxAccepted = node.dispatch.TxAccepted.Uint64()
		reply.Counters.TxRejected = node.dispatch.TxRejected.Uint64()
		reply.Counters.TxDuplicate = node.dispatch.TxDuplicate.Uint64()
		reply.Counters.Undecodable = node.dispatch.Undecodable.Uint64()
		reply.Counters.UnknownTypes = node.dispatch.UnknownTypes.Uint64()
	}
	return nil
}

// PeersArguments - arguments for peers request
type PeersArguments struct {
	Count int `json:"count"`
}

// PeersReply - result from peers request
type PeersReply struct {
	Nodes []protocol.Node `json:"nodes"`
}

// Peers - this node's addresses followed by known peers
func (node *Node) Peers(arguments *PeersArguments, reply *PeersReply) error {
	if err := ratelimit.LimitN(node.limiter, arguments.Count, maximumNodeList); nil != err {
		return err
	}
	reply.Nodes = node.peers.Nodes(arguments.Count)
	return nil
}
