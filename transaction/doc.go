// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transaction - value transfer records
//
// A transaction moves value from outputs of earlier transactions
// (referenced by its inputs) to new outputs.  The canonical packed
// form covers the debtor key, each input reference and each output in
// list order; its SHA-256 is the transaction hash.
//
// Each input is signed over a simplified view of the transaction that
// contains only that input plus the complete output list, so all
// outputs must be attached before any input is signed.
package transaction
