// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bitmark-inc/blockd/fault"
)

var (
	ErrExistsOne   = fault.ExistsError("exists one ")
	ErrInvalidOne  = fault.InvalidError("invalid one")
	ErrLengthOne   = fault.LengthError("length one")
	ErrNotFoundOne = fault.NotFoundError("not found one")
	ErrProcessOne  = fault.ProcessError("process one")
	ErrProtocolOne = fault.ProtocolError("protocol one")
)

// test that the error classes are distinguishable
func TestClasses(t *testing.T) {
	errorList := []struct {
		err      error
		exists   bool
		invalid  bool
		length   bool
		notFound bool
		process  bool
		protocol bool
	}{
		{ErrExistsOne, true, false, false, false, false, false},
		{ErrInvalidOne, false, true, false, false, false, false},
		{ErrLengthOne, false, false, true, false, false, false},
		{ErrNotFoundOne, false, false, false, true, false, false},
		{ErrProcessOne, false, false, false, false, true, false},
		{ErrProtocolOne, false, false, false, false, false, true},
		{fault.InvalidMagic, false, false, false, false, false, true},
		{fault.NoInputs, false, true, false, false, false, false},
		{fault.WrongHashLength, false, false, true, false, false, false},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrExists(err) != e.exists {
			t.Errorf("%d: expected 'exists' == %v for err = %v", i, e.exists, err)
		}
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrLength(err) != e.length {
			t.Errorf("%d: expected 'length' == %v for err = %v", i, e.length, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
		if fault.IsErrProtocol(err) != e.protocol {
			t.Errorf("%d: expected 'protocol' == %v for err = %v", i, e.protocol, err)
		}
	}
}

// instances must survive wrapping
func TestWrapped(t *testing.T) {
	err := fmt.Errorf("frame: %w", fault.PayloadTooLarge)
	if !errors.Is(err, fault.PayloadTooLarge) {
		t.Errorf("wrapped error lost identity: %v", err)
	}
	if errors.Is(err, fault.InvalidMagic) {
		t.Errorf("wrapped error matched wrong instance: %v", err)
	}
}

func TestPanicf(t *testing.T) {
	defer func() {
		r := recover()
		if nil == r {
			t.Fatal("expected panic")
		}
		if "bad length: 3" != r {
			t.Errorf("unexpected panic value: %v", r)
		}
	}()
	fault.Panicf("bad length: %d", 3)
}
