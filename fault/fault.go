// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type ProtocolError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised      = ExistsError("already initialised")
	DoubleSpend             = ExistsError("output already spent by a pending transaction")
	DuplicateInput          = InvalidError("duplicate input")
	InsufficientFunds       = InvalidError("insufficient funds")
	InvalidAddress          = InvalidError("invalid address")
	InvalidAmount           = InvalidError("invalid amount")
	InvalidCount            = InvalidError("invalid count")
	InvalidIPAddress        = InvalidError("invalid IP address")
	InvalidKeyFile          = InvalidError("invalid key file")
	InvalidLoggerChannel    = InvalidError("invalid logger channel")
	InvalidMagic            = ProtocolError("invalid magic")
	InvalidNode             = InvalidError("invalid node")
	InvalidPort             = InvalidError("invalid port")
	InvalidPublicKey        = InvalidError("invalid public key")
	InvalidSignature        = InvalidError("invalid signature")
	InvalidStructPointer    = InvalidError("invalid struct pointer")
	MissingParameters       = InvalidError("missing parameters")
	NoInputs                = InvalidError("transaction has no inputs")
	NoOutputs               = InvalidError("transaction has no outputs")
	NotInitialised          = NotFoundError("not initialised")
	OutputExists            = ExistsError("output already exists")
	OutputNotFound          = NotFoundError("referenced output not found")
	PayloadTooLarge         = ProtocolError("payload too large")
	RateLimiting            = ProcessError("rate limiting")
	TooManyConnections      = ProcessError("too many connections")
	TooManyInputs           = InvalidError("too many inputs")
	TransactionAlreadyKnown = ExistsError("transaction already known")
	UndecodablePayload      = ProtocolError("undecodable payload")
	UnknownMessageType      = ProtocolError("unknown message type")
	UnsupportedVersion      = ProtocolError("unsupported protocol version")
	ValueNotConserved       = InvalidError("outputs exceed inputs")
	ValueOverflow           = InvalidError("value overflow")
	WrongAddressLength      = LengthError("wrong address length")
	WrongHashLength         = LengthError("wrong hash length")
	WrongOwner              = InvalidError("debtor does not own referenced output")
	WrongSignatureLength    = LengthError("wrong signature length")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e ProtocolError) Error() string { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
func IsErrProtocol(e error) bool { _, ok := e.(ProtocolError); return ok }
