// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"net"
	"strings"
	"time"

	"github.com/bitmark-inc/blockd/fault"
)

// defaults
const (
	DefaultListen             = "127.0.0.1:7878"
	DefaultMaximumConnections = 100
	DefaultReadTimeout        = 120 // seconds
	DefaultFramesPerSecond    = 50
	DefaultConnectInterval    = 300 // seconds
	DefaultMaximumPeers       = 1000
)

// Configuration - peering section of the configuration file
type Configuration struct {
	Listen             []string `gluamapper:"listen" json:"listen"`
	Announce           []string `gluamapper:"announce" json:"announce"`
	Connect            []string `gluamapper:"connect" json:"connect"`
	StaticPeersFile    string   `gluamapper:"static_peers_file" json:"static_peers_file"`
	MaximumConnections uint64   `gluamapper:"maximum_connections" json:"maximum_connections"`
	ReadTimeout        int      `gluamapper:"read_timeout" json:"read_timeout"`
	FramesPerSecond    float64  `gluamapper:"frames_per_second" json:"frames_per_second"`
	ConnectInterval    int      `gluamapper:"connect_interval" json:"connect_interval"`
	MaximumPeers       int      `gluamapper:"maximum_peers" json:"maximum_peers"`
}

// DefaultConfiguration - values used for missing keys
func DefaultConfiguration() Configuration {
	return Configuration{
		Listen:             []string{DefaultListen},
		MaximumConnections: DefaultMaximumConnections,
		ReadTimeout:        DefaultReadTimeout,
		FramesPerSecond:    DefaultFramesPerSecond,
		ConnectInterval:    DefaultConnectInterval,
		MaximumPeers:       DefaultMaximumPeers,
	}
}

func (c *Configuration) readTimeout() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

func (c *Configuration) connectInterval() time.Duration {
	return time.Duration(c.ConnectInterval) * time.Second
}

// check - reject unusable values
func (c *Configuration) check() error {
	if 0 == len(c.Listen) {
		return fault.MissingParameters
	}
	if 0 == c.MaximumConnections {
		return fault.InvalidCount
	}
	if c.ReadTimeout <= 0 || c.FramesPerSecond <= 0 || c.ConnectInterval <= 0 || c.MaximumPeers <= 0 {
		return fault.InvalidCount
	}
	for _, listen := range c.Listen {
		if _, _, err := ParseListen(listen); nil != err {
			return err
		}
	}
	return nil
}

// ParseListen - convert a listen string to network and address
//
//   "*:PORT"       listen on all IPv4 and IPv6 addresses
//   "[IPv6]:PORT"  IPv6 only
//   "IPv4:PORT"    IPv4 only
func ParseListen(listen string) (string, string, error) {
	host, port, err := net.SplitHostPort(listen)
	if nil != err {
		return "", "", fault.InvalidIPAddress
	}
	if "" == port {
		return "", "", fault.InvalidPort
	}

	if "*" == host {
		return "tcp", net.JoinHostPort("::", port), nil
	}

	ip := net.ParseIP(host)
	if nil == ip {
		return "", "", fault.InvalidIPAddress
	}
	if strings.Contains(host, ":") {
		return "tcp6", listen, nil
	}
	return "tcp4", listen, nil
}
