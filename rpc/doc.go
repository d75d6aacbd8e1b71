// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - local JSON RPC control interface
//
// standard golang net/rpc clients with the jsonrpc codec can be used
// to access these services:
//
//   Node.Info             node status and counters
//   Node.Peers            known peer nodes
//   Account.Info          node account keys and spendable outputs
//   Account.DumpPrivKey   base58 private key of the node account
//   Transaction.Pay       create, sign, store and broadcast a payment
//   Transaction.Pending   hashes held in the mempool
//   Transaction.Status    pending or unknown
package rpc
