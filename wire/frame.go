// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire - node to node frame codec
//
// A frame is a fixed eleven byte header followed by the payload:
//
//   magic    5 bytes  "BLOCK"
//   version  1 byte   sender protocol version
//   type     1 byte   message type
//   length   4 bytes  payload length, big endian
//   payload  length bytes
package wire

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/bitmark-inc/blockd/fault"
)

// protocol constants
const (
	Magic          = "BLOCK"
	Version        = 1
	MaximumVersion = 1
	MaximumPayload = 1024
	HeaderLength   = len(Magic) + 1 + 1 + 4
)

// offsets into the header
const (
	versionOffset = len(Magic)
	typeOffset    = versionOffset + 1
	lengthOffset  = typeOffset + 1
)

// Header - decoded frame header
type Header struct {
	Version uint8
	Type    uint8
	Length  uint32
}

// Frame - a complete received frame
type Frame struct {
	Header
	Payload []byte
}

// DecodeHeader - validate a raw header
//
// the length is checked against the payload bound so that a caller
// never allocates or reads an oversized payload
func DecodeHeader(buffer []byte) (Header, error) {
	if HeaderLength != len(buffer) {
		return Header{}, fault.InvalidCount
	}
	if !bytes.Equal([]byte(Magic), buffer[:versionOffset]) {
		return Header{}, fault.InvalidMagic
	}

	h := Header{
		Version: buffer[versionOffset],
		Type:    buffer[typeOffset],
		Length:  binary.BigEndian.Uint32(buffer[lengthOffset:]),
	}
	if h.Version > MaximumVersion {
		return h, fault.UnsupportedVersion
	}
	if h.Length > MaximumPayload {
		return h, fault.PayloadTooLarge
	}
	return h, nil
}

// EncodeHeader - produce the raw header for a payload
func EncodeHeader(messageType uint8, length int) ([]byte, error) {
	if length < 0 || length > MaximumPayload {
		return nil, fault.PayloadTooLarge
	}
	buffer := make([]byte, HeaderLength)
	copy(buffer, Magic)
	buffer[versionOffset] = Version
	buffer[typeOffset] = messageType
	binary.BigEndian.PutUint32(buffer[lengthOffset:], uint32(length))
	return buffer, nil
}

// ReadFrame - read exactly one frame
//
// on a header fault no payload bytes are consumed and the header is
// returned with the error for logging
func ReadFrame(r io.Reader) (*Frame, error) {
	buffer := make([]byte, HeaderLength)
	if _, err := io.ReadFull(r, buffer); nil != err {
		return nil, err
	}

	h, err := DecodeHeader(buffer)
	if nil != err {
		return &Frame{Header: h}, err
	}

	payload := make([]byte, h.Length)
	if _, err := io.ReadFull(r, payload); nil != err {
		return nil, err
	}
	return &Frame{Header: h, Payload: payload}, nil
}

// WriteFrame - write header and payload as a single write
func WriteFrame(w io.Writer, messageType uint8, payload []byte) error {
	header, err := EncodeHeader(messageType, len(payload))
	if nil != err {
		return err
	}
	_, err = w.Write(append(header, payload...))
	return err
}

// IsHeaderFault - true if the error came from header validation
func IsHeaderFault(err error) bool {
	switch err {
	case fault.InvalidMagic, fault.UnsupportedVersion, fault.PayloadTooLarge:
		return true
	default:
		return false
	}
}
