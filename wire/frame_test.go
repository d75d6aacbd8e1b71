// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/blockd/fault"
	"github.com/bitmark-inc/blockd/wire"
)

func rawHeader(magic string, version uint8, messageType uint8, length uint32) []byte {
	buffer := []byte(magic)
	buffer = append(buffer, version, messageType)
	l := make([]byte, 4)
	binary.BigEndian.PutUint32(l, length)
	return append(buffer, l...)
}

func TestReadFrameAccepts(t *testing.T) {
	payload := []byte{0x92, 0x01, 0x02, 0xff, 0x00}
	stream := append(rawHeader("BLOCK", 1, 2, uint32(len(payload))), payload...)
	stream = append(stream, 0xee) // start of the next frame

	r := bytes.NewReader(stream)
	frame, err := wire.ReadFrame(r)
	require.NoError(t, err, "read")
	assert.Equal(t, uint8(1), frame.Version, "version")
	assert.Equal(t, uint8(2), frame.Type, "type")
	assert.Equal(t, uint32(len(payload)), frame.Length, "length")
	assert.Equal(t, payload, frame.Payload, "payload preserved")
	assert.Equal(t, 1, r.Len(), "nothing beyond the frame consumed")
}

func TestReadFrameEmptyAndMaximumPayload(t *testing.T) {
	frame, err := wire.ReadFrame(bytes.NewReader(rawHeader("BLOCK", 0, 7, 0)))
	require.NoError(t, err, "empty payload")
	assert.Equal(t, 0, len(frame.Payload), "empty")

	payload := bytes.Repeat([]byte{0x5a}, wire.MaximumPayload)
	stream := append(rawHeader("BLOCK", 1, 0, wire.MaximumPayload), payload...)
	frame, err = wire.ReadFrame(bytes.NewReader(stream))
	require.NoError(t, err, "maximum payload")
	assert.Equal(t, payload, frame.Payload, "maximum payload preserved")
}

func TestReadFrameRejects(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		err    error
	}{
		{"wrong magic", rawHeader("BLOCX", 1, 0, 4), fault.InvalidMagic},
		{"lower case magic", rawHeader("block", 1, 0, 4), fault.InvalidMagic},
		{"version above maximum", rawHeader("BLOCK", 2, 0, 4), fault.UnsupportedVersion},
		{"oversized length", rawHeader("BLOCK", 1, 0, 2000), fault.PayloadTooLarge},
		{"huge length", rawHeader("BLOCK", 1, 0, 0xffffffff), fault.PayloadTooLarge},
	}

	for _, test := range tests {
		trailing := []byte{1, 2, 3, 4}
		r := bytes.NewReader(append(test.header, trailing...))
		frame, err := wire.ReadFrame(r)
		assert.Equal(t, test.err, err, test.name)
		assert.True(t, wire.IsHeaderFault(err), test.name)
		assert.Nil(t, frame.Payload, test.name)
		assert.Equal(t, len(trailing), r.Len(), "%s: payload not consumed", test.name)
	}
}

// a reader that fails the test if more than the header is requested
type headerOnlyReader struct {
	t      *testing.T
	header []byte
}

func (r *headerOnlyReader) Read(p []byte) (int, error) {
	if 0 == len(r.header) {
		r.t.Fatal("payload read attempted")
	}
	n := copy(p, r.header)
	r.header = r.header[n:]
	return n, nil
}

func TestOversizedPayloadNeverRead(t *testing.T) {
	r := &headerOnlyReader{t: t, header: rawHeader("BLOCK", 1, 2, 2000)}
	frame, err := wire.ReadFrame(r)
	assert.Equal(t, fault.PayloadTooLarge, err, "rejected")
	assert.Equal(t, uint32(2000), frame.Length, "header reported")
}

func TestReadFrameTruncated(t *testing.T) {
	_, err := wire.ReadFrame(bytes.NewReader([]byte("BLO")))
	assert.Equal(t, io.ErrUnexpectedEOF, err, "short header")

	_, err = wire.ReadFrame(bytes.NewReader(nil))
	assert.Equal(t, io.EOF, err, "clean end of stream")

	stream := append(rawHeader("BLOCK", 1, 2, 10), 1, 2, 3)
	_, err = wire.ReadFrame(bytes.NewReader(stream))
	assert.Equal(t, io.ErrUnexpectedEOF, err, "short payload")
}

func TestWriteFrame(t *testing.T) {
	buffer := &bytes.Buffer{}
	payload := []byte("payload")
	require.NoError(t, wire.WriteFrame(buffer, 1, payload), "write")

	expected := append(rawHeader("BLOCK", wire.Version, 1, uint32(len(payload))), payload...)
	assert.Equal(t, expected, buffer.Bytes(), "layout")

	frame, err := wire.ReadFrame(buffer)
	require.NoError(t, err, "read back")
	assert.Equal(t, payload, frame.Payload, "payload")

	err = wire.WriteFrame(buffer, 0, make([]byte, wire.MaximumPayload+1))
	assert.Equal(t, fault.PayloadTooLarge, err, "oversized write")
}

func TestDecodeHeaderLength(t *testing.T) {
	_, err := wire.DecodeHeader([]byte("BLOCK"))
	assert.Equal(t, fault.InvalidCount, err, "short buffer")
	assert.False(t, wire.IsHeaderFault(err), "not a header fault")
}
