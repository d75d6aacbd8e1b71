// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/blockd/account"
	"github.com/bitmark-inc/blockd/configuration"
	"github.com/bitmark-inc/blockd/ledger"
	"github.com/bitmark-inc/blockd/peer"
	"github.com/bitmark-inc/blockd/reservoir"
	"github.com/bitmark-inc/blockd/rpc"
	"github.com/bitmark-inc/blockd/transaction"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file
	defaultAccount       = "node"

	defaultLevelDBDirectory = "data"
	defaultDatabase         = "blockd.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "blockd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultReservoirExpiry = int(reservoir.DefaultExpiry / time.Second)
)

// path expanded or calculated defaults
var (
	defaultLogLevels = map[string]string{
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - leveldb location
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// ReservoirType - mempool settings
type ReservoirType struct {
	Expiry int  `gluamapper:"expiry" json:"expiry"` // seconds
	Backup bool `gluamapper:"backup" json:"backup"`
}

// GenesisOutput - a spendable output present at start up
type GenesisOutput struct {
	Tx     string `gluamapper:"tx" json:"tx"`
	Index  uint8  `gluamapper:"index" json:"index"`
	Amount uint64 `gluamapper:"amount" json:"amount"`
	Owner  string `gluamapper:"owner" json:"owner"`
}

// Configuration - the whole configuration file
type Configuration struct {
	DataDirectory string       `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string       `gluamapper:"pidfile" json:"pidfile"`
	Account       string       `gluamapper:"account" json:"account"`
	Database      DatabaseType `gluamapper:"database" json:"database"`

	Peering   peer.Configuration   `gluamapper:"peering" json:"peering"`
	ClientRPC rpc.Configuration    `gluamapper:"client_rpc" json:"client_rpc"`
	Reservoir ReservoirType        `gluamapper:"reservoir" json:"reservoir"`
	Genesis   []GenesisOutput      `gluamapper:"genesis" json:"genesis"`
	Logging   logger.Configuration `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Account:       defaultAccount,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabase,
		},

		Peering:   peer.DefaultConfiguration(),
		ClientRPC: rpc.DefaultConfiguration(),

		Reservoir: ReservoirType{
			Expiry: defaultReservoirExpiry,
			Backup: true,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = configuration.EnsureAbsolute(dataDirectory, options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	if options.Reservoir.Expiry <= 0 {
		return nil, fmt.Errorf("reservoir expiry: %d is not positive", options.Reservoir.Expiry)
	}

	// the account is a key file name in the data directory
	if "" == options.Account || filepath.Base(options.Account) != options.Account {
		return nil, fmt.Errorf("account: %q is not plain name", options.Account)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.Peering.StaticPeersFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = configuration.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = configuration.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = configuration.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("files: %q is not plain name", *f[0])
		}
	}

	// done
	return options, nil
}

// key file of the node account
func (c *Configuration) accountFile() string {
	return account.KeyFileName(c.DataDirectory, c.Account)
}

// seed the ledger with the configured outputs
func (c *Configuration) seedLedger(l *ledger.Ledger) error {
	for i, g := range c.Genesis {
		hash, err := transaction.TxHashFromBase58(g.Tx)
		if nil != err {
			return fmt.Errorf("genesis[%d] tx: %q: %w", i, g.Tx, err)
		}
		owner, err := transaction.AddressFromBase58(g.Owner)
		if nil != err {
			return fmt.Errorf("genesis[%d] owner: %q: %w", i, g.Owner, err)
		}
		err = l.Add(hash, g.Index, transaction.Output{
			Amount:   g.Amount,
			Creditor: owner,
		})
		if nil != err {
			return fmt.Errorf("genesis[%d]: %w", i, err)
		}
	}
	return nil
}
