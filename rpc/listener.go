// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/blockd/counter"
	"github.com/bitmark-inc/blockd/peer"
)

const minimumBurst = 4096

type listener struct {
	log                *logger.L
	server             *rpc.Server
	count              *counter.Counter
	maximumConnections uint64
	bytesPerSecond     rate.Limit
	burst              int

	listeners []net.Listener

	sync.Mutex
	connections map[net.Conn]struct{}
	handlers    sync.WaitGroup
}

func newListener(configuration *Configuration, server *rpc.Server, count *counter.Counter, log *logger.L) (*listener, error) {
	bytesPerSecond := configuration.Bandwidth / 8
	burst := int(bytesPerSecond)
	if burst < minimumBurst {
		burst = minimumBurst
	}

	lstn := &listener{
		log:                log,
		server:             server,
		count:              count,
		maximumConnections: configuration.MaximumConnections,
		bytesPerSecond:     rate.Limit(bytesPerSecond),
		burst:              burst,
		connections:        make(map[net.Conn]struct{}),
	}

	for _, listen := range configuration.Listen {
		network, address, err := peer.ParseListen(listen)
		if nil != err {
			lstn.closeListeners()
			return nil, err
		}
		l, err := net.Listen(network, address)
		if nil != err {
			log.Errorf("rpc server listen: %s  error: %s", listen, err)
			lstn.closeListeners()
			return nil, err
		}
		log.Infof("starting RPC server: %s", l.Addr())
		lstn.listeners = append(lstn.listeners, l)
	}
	return lstn, nil
}

func (lstn *listener) closeListeners() {
	for _, l := range lstn.listeners {
		_ = l.Close()
	}
}

func (lstn *listener) addresses() []net.Addr {
	addrs := make([]net.Addr, len(lstn.listeners))
	for i, l := range lstn.listeners {
		addrs[i] = l.Addr()
	}
	return addrs
}

func (lstn *listener) Run(args interface{}, shutdown <-chan struct{}) {
	log := lstn.log

	log.Info("starting…")

	accepting := sync.WaitGroup{}
	for _, l := range lstn.listeners {
		accepting.Add(1)
		go func(l net.Listener) {
			defer accepting.Done()
			lstn.accept(l)
		}(l)
	}

	<-shutdown

	lstn.closeListeners()
	accepting.Wait()

	lstn.Lock()
	for conn := range lstn.connections {
		_ = conn.Close()
	}
	lstn.Unlock()
	lstn.handlers.Wait()

	log.Info("stopped")
}

func (lstn *listener) accept(l net.Listener) {
	log := lstn.log
	for {
		conn, err := l.Accept()
		if nil != err {
			log.Infof("rpc accept on: %s  terminated: %s", l.Addr(), err)
			return
		}

		if !lstn.count.IncrementIfBelow(lstn.maximumConnections) {
			log.Warnf("rpc refused: %s  too many connections", conn.RemoteAddr())
			_ = conn.Close()
			continue
		}

		lstn.Lock()
		lstn.connections[conn] = struct{}{}
		lstn.handlers.Add(1)
		lstn.Unlock()

		go func() {
			defer lstn.handlers.Done()

			throttled := &throttledConn{
				Conn:    conn,
				limiter: rate.NewLimiter(lstn.bytesPerSecond, lstn.burst),
				burst:   lstn.burst,
			}
			lstn.server.ServeCodec(jsonrpc.NewServerCodec(throttled))

			lstn.Lock()
			delete(lstn.connections, conn)
			lstn.Unlock()
			_ = conn.Close()
			lstn.count.Decrement()
		}()
	}
}

// limit the bytes read per second from a client
type throttledConn struct {
	net.Conn
	limiter *rate.Limiter
	burst   int
}

func (c *throttledConn) Read(p []byte) (int, error) {
	if len(p) > c.burst {
		p = p[:c.burst]
	}
	n, err := c.Conn.Read(p)
	if n > 0 {
		if r := c.limiter.ReserveN(time.Now(), n); r.OK() {
			time.Sleep(r.Delay())
		}
	}
	return n, err
}
