// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package protocol

import (
	"fmt"

	"github.com/ugorji/go/codec"

	"github.com/bitmark-inc/blockd/fault"
)

// structures are packed as arrays, fixed size values use their binary
// marshalers so a wrong length fails the decode
var msgpackHandle = newHandle()

func newHandle() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.WriteExt = true
	h.StructToArray = true
	return h
}

// Encode - MessagePack form of a message
func Encode(message interface{}) ([]byte, error) {
	buffer := []byte{}
	if err := codec.NewEncoderBytes(&buffer, msgpackHandle).Encode(message); nil != err {
		return nil, err
	}
	return buffer, nil
}

// Decode - fill message from its MessagePack form
//
// any failure is reported as fault.UndecodablePayload
func Decode(payload []byte, message interface{}) error {
	if err := codec.NewDecoderBytes(payload, msgpackHandle).Decode(message); nil != err {
		return fmt.Errorf("%w: %s", fault.UndecodablePayload, err)
	}
	return nil
}
