// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"github.com/bitmark-inc/blockd/fault"
	"github.com/bitmark-inc/blockd/peer"
)

// defaults
const (
	DefaultListen             = "127.0.0.1:8787"
	DefaultMaximumConnections = 10
	DefaultBandwidth          = 25000000 // bits per second

	minimumBandwidth = 1000000
)

// Configuration - client_rpc section of the configuration file
type Configuration struct {
	Listen             []string `gluamapper:"listen" json:"listen"`
	MaximumConnections uint64   `gluamapper:"maximum_connections" json:"maximum_connections"`
	Bandwidth          float64  `gluamapper:"bandwidth" json:"bandwidth"`
}

// DefaultConfiguration - values used for missing keys
func DefaultConfiguration() Configuration {
	return Configuration{
		Listen:             []string{DefaultListen},
		MaximumConnections: DefaultMaximumConnections,
		Bandwidth:          DefaultBandwidth,
	}
}

func (c *Configuration) check() error {
	if 0 == len(c.Listen) {
		return fault.MissingParameters
	}
	if 0 == c.MaximumConnections {
		return fault.InvalidCount
	}
	if c.Bandwidth < minimumBandwidth {
		return fault.InvalidCount
	}
	for _, listen := range c.Listen {
		if _, _, err := peer.ParseListen(listen); nil != err {
			return err
		}
	}
	return nil
}
