// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// This maintains a LevelDB database split into a series of pools.
// Each pool is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available pools.
//
// Notes:
// 1. each separate pool has a single byte prefix
// 2. ++    = concatenation of byte data
// 3. txId  = transaction digest as 32 byte SHA-256(packed data)
// 4. node  = 16 byte IP address ++ big endian uint16 port
//
// Peers:
//
//   P ++ node                  - known peer nodes
//                                data: MessagePack {addr, port, last seen}
//
// Pending:
//
//   T ++ txId                  - unconfirmed transactions saved at shutdown
//                                data: MessagePack transaction
//
// Version:
//
//   0x00 ++ "VERSION"          - database version, big endian uint32
package storage
