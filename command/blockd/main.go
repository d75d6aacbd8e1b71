// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/blockd/account"
	"github.com/bitmark-inc/blockd/announce"
	"github.com/bitmark-inc/blockd/ledger"
	"github.com/bitmark-inc/blockd/peer"
	"github.com/bitmark-inc/blockd/protocol"
	"github.com/bitmark-inc/blockd/reservoir"
	"github.com/bitmark-inc/blockd/rpc"
	"github.com/bitmark-inc/blockd/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(program, arguments, theConfiguration) {
		return
	}

	if len(options["verbose"]) > 0 {
		theConfiguration.Logging.Console = true
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if nil != err {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// the node account signs locally created payments
	nodeAccount, created, err := account.LoadOrCreate(theConfiguration.Account, theConfiguration.accountFile())
	if nil != err {
		log.Criticalf("account: %q  error: %s", theConfiguration.accountFile(), err)
		exitwithstatus.Message("account: %q  error: %s", theConfiguration.accountFile(), err)
	}
	if created {
		log.Warnf("created account: %q", theConfiguration.accountFile())
	}
	log.Infof("account: %s  address: %s", nodeAccount, nodeAccount.Address())

	// start the data storage
	log.Infof("initialise storage: %q", theConfiguration.Database.Name)
	database, err := storage.Open(theConfiguration.Database.Name)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer database.Close()

	// outputs available for spending
	outputs := ledger.New()
	if err := theConfiguration.seedLedger(outputs); nil != err {
		log.Criticalf("ledger initialise error: %s", err)
		exitwithstatus.Message("ledger initialise error: %s", err)
	}
	log.Infof("ledger outputs: %d", outputs.Count())

	// peer table must be ready before peering starts
	log.Info("initialise announce")
	self, err := parseNodes(theConfiguration.Peering.Announce)
	if nil != err {
		log.Criticalf("peering announce error: %s", err)
		exitwithstatus.Message("peering announce error: %s", err)
	}
	connect, err := parseNodes(theConfiguration.Peering.Connect)
	if nil != err {
		log.Criticalf("peering connect error: %s", err)
		exitwithstatus.Message("peering connect error: %s", err)
	}

	table := announce.New(database.Peers, theConfiguration.Peering.MaximumPeers, logger.New("announce"))
	table.SetSelf(self)
	if _, err := table.Restore(); nil != err {
		log.Criticalf("announce restore error: %s", err)
		exitwithstatus.Message("announce restore error: %s", err)
	}
	if err := table.Start(connect, theConfiguration.Peering.StaticPeersFile); nil != err {
		log.Criticalf("announce initialise error: %s", err)
		exitwithstatus.Message("announce initialise error: %s", err)
	}
	defer table.Stop()

	// start the reservoir and restore any previously saved transactions
	// before any peer services are started
	log.Info("initialise reservoir")
	expiry := time.Duration(theConfiguration.Reservoir.Expiry) * time.Second
	mempool := reservoir.New(expiry, logger.New("reservoir"))
	if theConfiguration.Reservoir.Backup {
		if _, err := mempool.Load(database.Pending, outputs); nil != err {
			log.Criticalf("reservoir reload error: %s", err)
			exitwithstatus.Message("reservoir reload error: %s", err)
		}
		defer func() {
			if err := mempool.Save(database.Pending); nil != err {
				log.Errorf("reservoir save error: %s", err)
			}
		}()
	}

	dispatcher := protocol.NewDispatcher(table, mempool, outputs, logger.New("dispatch"))

	// start up the peering background processes
	log.Info("initialise peer")
	network, err := peer.New(&theConfiguration.Peering, dispatcher, table)
	if nil != err {
		log.Criticalf("peer initialise error: %s", err)
		exitwithstatus.Message("peer initialise error: %s", err)
	}
	if err := network.Start(); nil != err {
		log.Criticalf("peer start error: %s", err)
		exitwithstatus.Message("peer start error: %s", err)
	}
	defer network.Stop()

	// start up the rpc background processes
	log.Info("initialise rpc")
	server, err := rpc.New(&theConfiguration.ClientRPC, &rpc.Services{
		Version:     version,
		Account:     nodeAccount,
		Ledger:      outputs,
		Mempool:     mempool,
		Peers:       table,
		Broadcaster: network,
		Network:     network.Statistics(),
		Dispatch:    dispatcher.Statistics(),
	})
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	if err := server.Start(); nil != err {
		log.Criticalf("rpc start error: %s", err)
		exitwithstatus.Message("rpc start error: %s", err)
	}
	defer server.Stop()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}

// convert "IP:port" strings to nodes
func parseNodes(addresses []string) ([]protocol.Node, error) {
	nodes := make([]protocol.Node, 0, len(addresses))
	for _, address := range addresses {
		if "" == address {
			continue
		}
		node, err := protocol.NodeFromString(address)
		if nil != err {
			return nil, fmt.Errorf("%q: %w", address, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
