// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/blockd/ledger"
	"github.com/bitmark-inc/blockd/transaction"
)

func writeConfiguration(t *testing.T, dir string, text string) string {
	fileName := filepath.Join(dir, "blockd.conf")
	require.NoError(t, ioutil.WriteFile(fileName, []byte(text), 0600))
	return fileName
}

func TestSampleConfiguration(t *testing.T) {
	dir, err := ioutil.TempDir("", "blockd")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	sample, err := ioutil.ReadFile("blockd.conf.sample")
	require.NoError(t, err, "read sample")
	fileName := writeConfiguration(t, dir, string(sample))

	c, err := getConfiguration(fileName)
	require.NoError(t, err, "sample")

	assert.Equal(t, filepath.Clean(dir), filepath.Clean(c.DataDirectory), "data directory")
	assert.Equal(t, filepath.Join(dir, "data", "blockd.leveldb"), c.Database.Name, "database")
	assert.Equal(t, filepath.Join(dir, "log"), c.Logging.Directory, "log directory")
	assert.Equal(t, filepath.Join(dir, "node.keypair"), c.accountFile(), "account")
	assert.Equal(t, []string{"127.0.0.1:7878"}, c.Peering.Listen, "peer listen")
	assert.Equal(t, uint64(100), c.Peering.MaximumConnections, "peer connections")
	assert.Equal(t, 1000, c.Peering.MaximumPeers, "peer table capacity")
	assert.Equal(t, []string{"127.0.0.1:8787"}, c.ClientRPC.Listen, "rpc listen")
	assert.Equal(t, 7200, c.Reservoir.Expiry, "expiry")
	assert.True(t, c.Reservoir.Backup, "backup")
	assert.Equal(t, 0, len(c.Genesis), "genesis")

	_, err = os.Stat(filepath.Join(dir, "data"))
	assert.NoError(t, err, "database directory created")
}

func TestConfigurationErrors(t *testing.T) {
	dir, err := ioutil.TempDir("", "blockd")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	items := []string{
		`return { }`,
		`return { data_directory = "missing" }`,
		`return { data_directory = ".", account = "../node" }`,
		`return { data_directory = ".", reservoir = { expiry = 0 } }`,
		`return { data_directory = ".", database = { name = "x/y.leveldb" } }`,
	}
	for i, text := range items {
		_, err := getConfiguration(writeConfiguration(t, dir, text))
		assert.Error(t, err, "%d: %s", i, text)
	}
}

func TestSeedLedger(t *testing.T) {
	hash := transaction.TxHashFromBytes(bytes.Repeat([]byte{0x11}, 32))
	owner := transaction.AddressFromBytes(bytes.Repeat([]byte{0x22}, 32))

	c := &Configuration{
		Genesis: []GenesisOutput{
			{Tx: hash.String(), Index: 0, Amount: 500, Owner: owner.String()},
			{Tx: hash.String(), Index: 1, Amount: 700, Owner: owner.String()},
		},
	}
	l := ledger.New()
	require.NoError(t, c.seedLedger(l), "seed")
	assert.Equal(t, 2, l.Count(), "count")

	output, err := l.Resolve(hash, 1)
	require.NoError(t, err, "resolve")
	assert.Equal(t, uint64(700), output.Amount, "amount")
	assert.Equal(t, owner, output.Creditor, "owner")

	assert.Error(t, c.seedLedger(l), "duplicate outputs")

	bad := &Configuration{Genesis: []GenesisOutput{{Tx: "0OIl", Owner: owner.String()}}}
	assert.Error(t, bad.seedLedger(ledger.New()), "bad hash")

	bad = &Configuration{Genesis: []GenesisOutput{{Tx: hash.String(), Owner: "short"}}}
	assert.Error(t, bad.seedLedger(ledger.New()), "bad owner")
}

func TestParseNodes(t *testing.T) {
	nodes, err := parseNodes([]string{"127.0.0.1:7878", "", "[::1]:7879"})
	require.NoError(t, err, "parse")
	require.Equal(t, 2, len(nodes), "blank skipped")
	assert.Equal(t, "127.0.0.1:7878", nodes[0].String(), "ipv4")
	assert.Equal(t, "[::1]:7879", nodes[1].String(), "ipv6")

	_, err = parseNodes([]string{"localhost:7878"})
	assert.Error(t, err, "host name")
}
