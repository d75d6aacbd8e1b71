// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/blockd/fault"
)

// KeyFileExtension - suffix of key files in the data directory
const KeyFileExtension = ".keypair"

// KeyFileName - path of the key file for a named account
func KeyFileName(directory string, name string) string {
	return filepath.Join(directory, name+KeyFileExtension)
}

// Load - read a key file containing the raw 32 byte seed
func Load(name string, fileName string) (*Account, error) {
	seed, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	if ed25519.SeedSize != len(seed) {
		return nil, fault.InvalidKeyFile
	}
	return FromSeed(name, seed)
}

// Save - write the seed to a new file; an existing file is never replaced
func (account *Account) Save(fileName string) error {
	f, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if nil != err {
		return err
	}

	n, err := f.Write(account.Seed())
	if nil == err && ed25519.SeedSize != n {
		err = fault.InvalidKeyFile
	}
	if closeErr := f.Close(); nil == err {
		err = closeErr
	}
	if nil != err {
		_ = os.Remove(fileName)
	}
	return err
}

// LoadOrCreate - read the key file, generating and saving a new
// account if it does not exist
//
// the second result is true when a new account was created
func LoadOrCreate(name string, fileName string) (*Account, bool, error) {
	account, err := Load(name, fileName)
	if nil == err {
		return account, false, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, err
	}

	account, err = New(name)
	if nil != err {
		return nil, false, err
	}
	if err := account.Save(fileName); nil != err {
		return nil, false, err
	}
	return account, true, nil
}
