// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package announce - the table of known peer nodes
//
// Nodes arrive from handshakes and from the static peers file.  The
// table is shared by all connection handlers, persisted to the Peers
// storage pool and supplies the node list this node advertises.
package announce
