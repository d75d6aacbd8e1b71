// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package reservoir - pending transactions
//
// Validated transactions are held until they expire.  An output may
// be spent by only one pending transaction.  At shutdown the pending
// set is written to storage and it is validated again when loaded.
package reservoir
