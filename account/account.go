// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"
	"crypto/rand"
	"io"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/blockd/fault"
	"github.com/bitmark-inc/blockd/transaction"
)

// miscellaneous constants
const (
	checksumLength = 4
)

// Account - a locally owned key pair
type Account struct {
	name       string
	privateKey ed25519.PrivateKey
}

// New - generate a fresh random account
func New(name string) (*Account, error) {
	return generate(name, rand.Reader)
}

func generate(name string, random io.Reader) (*Account, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(random, seed); nil != err {
		return nil, err
	}
	return FromSeed(name, seed)
}

// FromSeed - create an account from a 32 byte private seed
func FromSeed(name string, seed []byte) (*Account, error) {
	if ed25519.SeedSize != len(seed) {
		return nil, fault.InvalidKeyFile
	}
	return &Account{
		name:       name,
		privateKey: ed25519.NewKeyFromSeed(seed),
	}, nil
}

// FromBase58Seed - decode the text form produced by PrivateKeyString
func FromBase58Seed(name string, s string) (*Account, error) {
	buffer, err := base58.Decode(s)
	if nil != err || ed25519.SeedSize+checksumLength != len(buffer) {
		return nil, fault.InvalidKeyFile
	}
	seed := buffer[:ed25519.SeedSize]
	checksum := sha3.Sum256(seed)
	if !bytes.Equal(checksum[:checksumLength], buffer[ed25519.SeedSize:]) {
		return nil, fault.InvalidKeyFile
	}
	return FromSeed(name, seed)
}

// Name - the local name of the account
func (account *Account) Name() string {
	return account.name
}

// PublicKey - the debtor key for transactions
func (account *Account) PublicKey() ed25519.PublicKey {
	return account.privateKey.Public().(ed25519.PublicKey)
}

// Address - public key hash used as an output creditor
func (account *Account) Address() transaction.Address {
	return transaction.AddressFromPublicKey(account.PublicKey())
}

// Sign - ed25519 signature of a message
func (account *Account) Sign(message []byte) []byte {
	return ed25519.Sign(account.privateKey, message)
}

// Seed - the 32 byte private seed
func (account *Account) Seed() []byte {
	return account.privateKey.Seed()
}

// String - base58 of the public key
func (account *Account) String() string {
	return base58.Encode(account.PublicKey())
}

// PrivateKeyString - base58 of the seed followed by a SHA3 checksum
func (account *Account) PrivateKeyString() string {
	seed := account.Seed()
	checksum := sha3.Sum256(seed)
	return base58.Encode(append(seed, checksum[:checksumLength]...))
}
