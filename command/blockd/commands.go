// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/blockd/account"
)

// setup command handler
//
// commands that do not need the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "generate-account", "gen", "address", "a", "config-test", "cfg":
		return false // defer processing until configuration is read

	case "start", "run":
		return false // continue processing

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  generate-account           (gen)    - create the account key file if absent\n")
		fmt.Printf("                                        and display its public key and address\n")
		fmt.Printf("\n")

		fmt.Printf("  address                    (a)      - display the address of the account\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// not reached
	return true
}

// configuration command handler
//
// commands that need the configuration file but not the database
// return false if it was not a command, true if command was processed
func processConfigCommand(program string, arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "generate-account", "gen":
		a, created, err := account.LoadOrCreate(options.Account, options.accountFile())
		if nil != err {
			exitwithstatus.Message("%s: account: %q  error: %s", program, options.accountFile(), err)
		}
		if created {
			fmt.Printf("generated account: %q\n", options.accountFile())
		} else {
			fmt.Printf("existing account: %q\n", options.accountFile())
		}
		fmt.Printf("public key: %s\n", a)
		fmt.Printf("address:    %s\n", a.Address())

	case "address", "a":
		a, err := account.Load(options.Account, options.accountFile())
		if nil != err {
			exitwithstatus.Message("%s: account: %q  error: %s", program, options.accountFile(), err)
		}
		fmt.Printf("%s\n", a.Address())

	case "config-test", "cfg":
		buffer, err := json.MarshalIndent(options, "", "  ")
		if nil != err {
			exitwithstatus.Message("%s: configuration error: %s", program, err)
		}
		fmt.Printf("configuration: %s\n", buffer)

	default: // unknown commands fall through to data command processing
		return false
	}

	return true
}
