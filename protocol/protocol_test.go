// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package protocol_test

import (
	"bytes"
	"errors"
	"net"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/blockd/account"
	"github.com/bitmark-inc/blockd/fault"
	"github.com/bitmark-inc/blockd/protocol"
	"github.com/bitmark-inc/blockd/protocol/mocks"
	"github.com/bitmark-inc/blockd/transaction"
	"github.com/bitmark-inc/blockd/wire"
)

func twoNodes() []protocol.Node {
	return []protocol.Node{
		protocol.NewNode(net.ParseIP("2001:db8::1"), 2136),
		protocol.NewNode(net.ParseIP("192.0.2.7"), 2135),
	}
}

func TestHandshakeThroughFrame(t *testing.T) {
	payload, err := protocol.Encode(&protocol.Handshake{Nodes: twoNodes()})
	require.NoError(t, err, "encode")

	stream := &bytes.Buffer{}
	require.NoError(t, wire.WriteFrame(stream, protocol.TypeHandshake, payload), "frame")

	frame, err := wire.ReadFrame(stream)
	require.NoError(t, err, "read frame")
	assert.Equal(t, uint8(1), frame.Version, "version")
	assert.Equal(t, protocol.TypeHandshake, frame.Type, "type")

	var h protocol.Handshake
	require.NoError(t, protocol.Decode(frame.Payload, &h), "decode")
	require.Equal(t, 2, len(h.Nodes), "node count")
	for i, expected := range twoNodes() {
		assert.True(t, expected.Addr.Equal(h.Nodes[i].Addr), "node[%d] address", i)
		assert.Equal(t, expected.Port, h.Nodes[i].Port, "node[%d] port", i)
	}
}

func TestTxShareEncoding(t *testing.T) {
	tx, _ := signedTransaction(t)

	payload, err := protocol.Encode(&protocol.TxShare{Txs: []transaction.Transaction{*tx}})
	require.NoError(t, err, "encode")
	assert.True(t, len(payload) <= wire.MaximumPayload, "fits one frame")

	var share protocol.TxShare
	require.NoError(t, protocol.Decode(payload, &share), "decode")
	require.Equal(t, 1, len(share.Txs), "count")
	assert.Equal(t, tx.Hash(), share.Txs[0].Hash(), "hash preserved")
	assert.Equal(t, tx.Inputs[0].Signature, share.Txs[0].Inputs[0].Signature, "signature preserved")
}

func TestDecodeFailure(t *testing.T) {
	var h protocol.Handshake
	err := protocol.Decode([]byte{0xc1}, &h)
	assert.True(t, errors.Is(err, fault.UndecodablePayload), "reserved byte")

	// a node whose port does not fit 16 bits
	bad, err := protocol.Encode(&struct {
		Nodes []struct {
			Addr []byte
			Port uint32
		}
	}{
		Nodes: []struct {
			Addr []byte
			Port uint32
		}{{Addr: net.ParseIP("::1"), Port: 70000}},
	})
	require.NoError(t, err)
	err = protocol.Decode(bad, &h)
	assert.True(t, errors.Is(err, fault.UndecodablePayload), "port overflow")

	// an address field of the wrong length
	short, err := protocol.Encode(&struct {
		Txs []struct {
			Debtor  []byte
			Inputs  []struct{}
			Outputs []struct {
				Amount   uint64
				Creditor []byte
			}
		}
	}{
		Txs: []struct {
			Debtor  []byte
			Inputs  []struct{}
			Outputs []struct {
				Amount   uint64
				Creditor []byte
			}
		}{{
			Debtor: make([]byte, 32),
			Outputs: []struct {
				Amount   uint64
				Creditor []byte
			}{{Amount: 1, Creditor: []byte{1, 2, 3}}},
		}},
	})
	require.NoError(t, err)
	var share protocol.TxShare
	err = protocol.Decode(short, &share)
	assert.True(t, errors.Is(err, fault.UndecodablePayload), "short creditor")
}

func TestNodeFromString(t *testing.T) {
	n, err := protocol.NodeFromString("[2001:db8::1]:2136")
	require.NoError(t, err, "ipv6")
	assert.Equal(t, twoNodes()[0], n, "ipv6 node")
	assert.Equal(t, "[2001:db8::1]:2136", n.String(), "ipv6 string")

	n, err = protocol.NodeFromString("192.0.2.7:2135")
	require.NoError(t, err, "ipv4")
	assert.Equal(t, twoNodes()[1], n, "ipv4 node")
	assert.Equal(t, "192.0.2.7:2135", n.String(), "ipv4 string")

	_, err = protocol.NodeFromString("192.0.2.7")
	assert.Equal(t, fault.InvalidNode, err, "missing port")
	_, err = protocol.NodeFromString("example.com:80")
	assert.Equal(t, fault.InvalidIPAddress, err, "host name")
	_, err = protocol.NodeFromString("192.0.2.7:0")
	assert.Equal(t, fault.InvalidPort, err, "zero port")
	_, err = protocol.NodeFromString("192.0.2.7:65536")
	assert.Equal(t, fault.InvalidPort, err, "large port")
}

func TestNodeCheck(t *testing.T) {
	assert.NoError(t, twoNodes()[0].Check(), "valid")
	assert.Equal(t, fault.InvalidIPAddress, protocol.Node{Port: 1}.Check(), "nil address")
	assert.Equal(t, fault.InvalidIPAddress, protocol.NewNode(net.IPv6unspecified, 1).Check(), "unspecified")
	assert.Equal(t, fault.InvalidIPAddress, protocol.Node{Addr: []byte{1, 2, 3}, Port: 1}.Check(), "short address")
	assert.Equal(t, fault.InvalidPort, protocol.NewNode(net.ParseIP("::1"), 0).Check(), "zero port")
}

type dispatchTest struct {
	ctl        *gomock.Controller
	peers      *mocks.MockPeerTable
	mempool    *mocks.MockMempool
	resolver   *mocks.MockResolver
	dispatcher *protocol.Dispatcher
}

func newDispatchTest(t *testing.T) *dispatchTest {
	ctl := gomock.NewController(t)
	d := &dispatchTest{
		ctl:      ctl,
		peers:    mocks.NewMockPeerTable(ctl),
		mempool:  mocks.NewMockMempool(ctl),
		resolver: mocks.NewMockResolver(ctl),
	}
	d.dispatcher = protocol.NewDispatcher(d.peers, d.mempool, d.resolver, logger.New(category))
	return d
}

func TestDispatchHandshake(t *testing.T) {
	d := newDispatchTest(t)
	defer d.ctl.Finish()

	nodes := twoNodes()
	self := protocol.NewNode(net.ParseIP("198.51.100.1"), 2136)

	gomock.InOrder(
		d.peers.EXPECT().Add(nodes[0]).Return(true).Times(1),
		d.peers.EXPECT().Add(nodes[1]).Return(false).Times(1),
		d.peers.EXPECT().Nodes(protocol.MaximumAdvertisedNodes).Return([]protocol.Node{self}).Times(1),
	)

	payload, err := protocol.Encode(&protocol.Handshake{Nodes: nodes})
	require.NoError(t, err)

	reply, err := d.dispatcher.Dispatch(protocol.TypeHandshake, payload)
	require.NoError(t, err, "dispatch")
	require.NotNil(t, reply, "reply expected")
	assert.Equal(t, protocol.TypeHandshakeReply, reply.Type, "reply type")

	var h protocol.Handshake
	require.NoError(t, protocol.Decode(reply.Payload, &h), "decode reply")
	require.Equal(t, 1, len(h.Nodes), "reply nodes")
	assert.True(t, self.Addr.Equal(h.Nodes[0].Addr), "reply address")
	assert.Equal(t, self.Port, h.Nodes[0].Port, "reply port")

	stats := d.dispatcher.Statistics()
	assert.Equal(t, uint64(1), stats.Handshakes.Uint64(), "handshakes")
	assert.Equal(t, uint64(1), stats.NodesAdded.Uint64(), "nodes added")
}

func TestDispatchHandshakeReplyIsNotAnswered(t *testing.T) {
	d := newDispatchTest(t)
	defer d.ctl.Finish()

	nodes := twoNodes()
	d.peers.EXPECT().Add(gomock.Any()).Return(true).Times(2)
	d.peers.EXPECT().Nodes(gomock.Any()).Times(0)

	payload, err := protocol.Encode(&protocol.Handshake{Nodes: nodes})
	require.NoError(t, err)

	reply, err := d.dispatcher.Dispatch(protocol.TypeHandshakeReply, payload)
	assert.NoError(t, err, "dispatch")
	assert.Nil(t, reply, "no reply")
}

func TestDispatchHandshakeIgnoresBadNodes(t *testing.T) {
	d := newDispatchTest(t)
	defer d.ctl.Finish()

	d.peers.EXPECT().Add(gomock.Any()).Times(0)

	payload, err := protocol.Encode(&protocol.Handshake{Nodes: []protocol.Node{
		protocol.NewNode(net.IPv4zero, 2136),
		protocol.NewNode(net.ParseIP("192.0.2.7"), 0),
		{Addr: []byte{1}, Port: 5},
	}})
	require.NoError(t, err)

	reply, err := d.dispatcher.Dispatch(protocol.TypeHandshakeReply, payload)
	assert.NoError(t, err, "dispatch")
	assert.Nil(t, reply, "no reply")
}

func TestDispatchUndecodable(t *testing.T) {
	d := newDispatchTest(t)
	defer d.ctl.Finish()

	d.peers.EXPECT().Add(gomock.Any()).Times(0)
	d.mempool.EXPECT().Store(gomock.Any()).Times(0)

	_, err := d.dispatcher.Dispatch(protocol.TypeHandshake, []byte{0xc1, 0x00})
	assert.True(t, errors.Is(err, fault.UndecodablePayload), "handshake")

	_, err = d.dispatcher.Dispatch(protocol.TypeTxShare, []byte("not msgpack"))
	assert.True(t, errors.Is(err, fault.UndecodablePayload), "tx share")

	assert.Equal(t, uint64(2), d.dispatcher.Statistics().Undecodable.Uint64(), "undecodable count")
}

func TestDispatchUnknownType(t *testing.T) {
	d := newDispatchTest(t)
	defer d.ctl.Finish()

	reply, err := d.dispatcher.Dispatch(99, []byte{1, 2, 3})
	assert.Equal(t, fault.UnknownMessageType, err, "unknown")
	assert.Nil(t, reply, "no reply")
	assert.Equal(t, uint64(1), d.dispatcher.Statistics().UnknownTypes.Uint64(), "unknown count")
}

// a transaction spending (0xaa..., 0) owned by the signer
func signedTransaction(t *testing.T) (*transaction.Transaction, *account.Account) {
	owner, err := account.FromSeed("owner", bytes.Repeat([]byte{0x11}, 32))
	require.NoError(t, err)
	other, err := account.FromSeed("other", bytes.Repeat([]byte{0x22}, 32))
	require.NoError(t, err)

	tx := transaction.New(owner.PublicKey())
	tx.AddOutput(879, other.Address())
	tx.AddInput(transaction.TxHashFromBytes(bytes.Repeat([]byte{0xaa}, 32)), 0)
	require.NoError(t, tx.Sign(owner), "sign")
	return tx, owner
}

func TestDispatchTxShare(t *testing.T) {
	d := newDispatchTest(t)
	defer d.ctl.Finish()

	tx, owner := signedTransaction(t)
	spent := transaction.Output{Amount: 1000, Creditor: owner.Address()}

	d.resolver.EXPECT().Resolve(tx.Inputs[0].Tx, tx.Inputs[0].Index).Return(spent, nil).Times(1)
	d.mempool.EXPECT().Store(gomock.Any()).DoAndReturn(
		func(stored *transaction.Transaction) (transaction.TxHash, error) {
			assert.Equal(t, tx.Hash(), stored.Hash(), "stored transaction")
			return stored.Hash(), nil
		}).Times(1)

	payload, err := protocol.Encode(&protocol.TxShare{Txs: []transaction.Transaction{*tx}})
	require.NoError(t, err)

	reply, err := d.dispatcher.Dispatch(protocol.TypeTxShare, payload)
	assert.NoError(t, err, "dispatch")
	assert.Nil(t, reply, "no reply")

	// a repeat is suppressed without revalidation
	_, err = d.dispatcher.Dispatch(protocol.TypeTxShare, payload)
	assert.NoError(t, err, "repeat dispatch")

	stats := d.dispatcher.Statistics()
	assert.Equal(t, uint64(1), stats.TxAccepted.Uint64(), "accepted")
	assert.Equal(t, uint64(1), stats.TxDuplicate.Uint64(), "duplicate")
	assert.Equal(t, uint64(0), stats.TxRejected.Uint64(), "rejected")
}

func TestDispatchTxShareRejects(t *testing.T) {
	d := newDispatchTest(t)
	defer d.ctl.Finish()

	valid, owner := signedTransaction(t)

	noInputs := transaction.New(owner.PublicKey())
	noInputs.AddOutput(1, owner.Address())

	overspend := transaction.New(owner.PublicKey())
	overspend.AddOutput(5000, owner.Address())
	overspend.AddInput(transaction.TxHashFromBytes(bytes.Repeat([]byte{0xbb}, 32)), 1)
	require.NoError(t, overspend.Sign(owner))

	d.resolver.EXPECT().Resolve(valid.Inputs[0].Tx, valid.Inputs[0].Index).
		Return(transaction.Output{}, fault.OutputNotFound).Times(1)
	d.resolver.EXPECT().Resolve(overspend.Inputs[0].Tx, overspend.Inputs[0].Index).
		Return(transaction.Output{Amount: 10, Creditor: owner.Address()}, nil).Times(1)
	d.mempool.EXPECT().Store(gomock.Any()).Times(0)

	payload, err := protocol.Encode(&protocol.TxShare{
		Txs: []transaction.Transaction{*noInputs, *valid, *overspend},
	})
	require.NoError(t, err)

	_, err = d.dispatcher.Dispatch(protocol.TypeTxShare, payload)
	assert.NoError(t, err, "rejections are not message errors")
	assert.Equal(t, uint64(3), d.dispatcher.Statistics().TxRejected.Uint64(), "rejected")
}

func TestDispatchTxShareMempoolRefusal(t *testing.T) {
	d := newDispatchTest(t)
	defer d.ctl.Finish()

	tx, owner := signedTransaction(t)

	d.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).
		Return(transaction.Output{Amount: 879, Creditor: owner.Address()}, nil).Times(1)
	d.mempool.EXPECT().Store(gomock.Any()).Return(transaction.TxHash{}, fault.DoubleSpend).Times(1)

	payload, err := protocol.Encode(&protocol.TxShare{Txs: []transaction.Transaction{*tx}})
	require.NoError(t, err)

	_, err = d.dispatcher.Dispatch(protocol.TypeTxShare, payload)
	assert.NoError(t, err, "dispatch")
	assert.Equal(t, uint64(1), d.dispatcher.Statistics().TxRejected.Uint64(), "rejected")
}

func TestDispatchTxShareUnsignedCopyDoesNotHideSigned(t *testing.T) {
	d := newDispatchTest(t)
	defer d.ctl.Finish()

	genuine, owner := signedTransaction(t)

	unsigned := *genuine
	unsigned.Inputs = append([]transaction.Input(nil), genuine.Inputs...)
	unsigned.Inputs[0].Signature = transaction.Signature{}
	require.Equal(t, genuine.Hash(), unsigned.Hash(), "signatures are not hashed")

	spent := transaction.Output{Amount: 1000, Creditor: owner.Address()}
	d.resolver.EXPECT().Resolve(genuine.Inputs[0].Tx, genuine.Inputs[0].Index).Return(spent, nil).Times(2)
	d.mempool.EXPECT().Store(gomock.Any()).DoAndReturn(
		func(stored *transaction.Transaction) (transaction.TxHash, error) {
			assert.Equal(t, genuine.Inputs[0].Signature, stored.Inputs[0].Signature, "signed copy stored")
			return stored.Hash(), nil
		}).Times(1)

	for _, tx := range []*transaction.Transaction{&unsigned, genuine} {
		payload, err := protocol.Encode(&protocol.TxShare{Txs: []transaction.Transaction{*tx}})
		require.NoError(t, err)
		_, err = d.dispatcher.Dispatch(protocol.TypeTxShare, payload)
		assert.NoError(t, err, "dispatch")
	}

	stats := d.dispatcher.Statistics()
	assert.Equal(t, uint64(1), stats.TxAccepted.Uint64(), "accepted")
	assert.Equal(t, uint64(1), stats.TxRejected.Uint64(), "rejected")
	assert.Equal(t, uint64(0), stats.TxDuplicate.Uint64(), "duplicate")
}

func TestDispatchTxShareRetryAfterMissingOutput(t *testing.T) {
	d := newDispatchTest(t)
	defer d.ctl.Finish()

	tx, owner := signedTransaction(t)

	gomock.InOrder(
		d.resolver.EXPECT().Resolve(tx.Inputs[0].Tx, tx.Inputs[0].Index).
			Return(transaction.Output{}, fault.OutputNotFound),
		d.resolver.EXPECT().Resolve(tx.Inputs[0].Tx, tx.Inputs[0].Index).
			Return(transaction.Output{Amount: 879, Creditor: owner.Address()}, nil),
	)
	d.mempool.EXPECT().Store(gomock.Any()).Return(tx.Hash(), nil).Times(1)

	payload, err := protocol.Encode(&protocol.TxShare{Txs: []transaction.Transaction{*tx}})
	require.NoError(t, err)

	_, err = d.dispatcher.Dispatch(protocol.TypeTxShare, payload)
	assert.NoError(t, err, "first dispatch")
	_, err = d.dispatcher.Dispatch(protocol.TypeTxShare, payload)
	assert.NoError(t, err, "retry dispatch")

	stats := d.dispatcher.Statistics()
	assert.Equal(t, uint64(1), stats.TxRejected.Uint64(), "rejected")
	assert.Equal(t, uint64(1), stats.TxAccepted.Uint64(), "accepted")
}

func TestDispatchTxShareAlreadyPending(t *testing.T) {
	d := newDispatchTest(t)
	defer d.ctl.Finish()

	tx, owner := signedTransaction(t)

	d.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).
		Return(transaction.Output{Amount: 879, Creditor: owner.Address()}, nil).Times(1)
	d.mempool.EXPECT().Store(gomock.Any()).Return(tx.Hash(), fault.TransactionAlreadyKnown).Times(1)

	payload, err := protocol.Encode(&protocol.TxShare{Txs: []transaction.Transaction{*tx}})
	require.NoError(t, err)

	// second copy is suppressed without revalidation
	for i := 0; i < 2; i += 1 {
		_, err = d.dispatcher.Dispatch(protocol.TypeTxShare, payload)
		assert.NoError(t, err, "dispatch")
	}

	stats := d.dispatcher.Statistics()
	assert.Equal(t, uint64(2), stats.TxDuplicate.Uint64(), "duplicate")
	assert.Equal(t, uint64(0), stats.TxRejected.Uint64(), "rejected")
	assert.Equal(t, uint64(0), stats.TxAccepted.Uint64(), "accepted")
}
