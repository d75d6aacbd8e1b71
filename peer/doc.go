// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peer - node to node TCP connections
//
// The listener accepts connections on each configured address and
// serves every connection in its own goroutine, reading frames in
// order and passing them to the dispatcher.  The connector
// periodically sends a handshake to each static peer.
package peer
