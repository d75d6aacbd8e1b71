// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"io"
	"net"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/blockd/counter"
	"github.com/bitmark-inc/blockd/protocol"
	"github.com/bitmark-inc/blockd/ratelimit"
	"github.com/bitmark-inc/blockd/wire"
)

const writeTimeout = 10 * time.Second

// Statistics - connection counters
type Statistics struct {
	Connections    counter.Counter `json:"connections"` // currently open
	Accepted       counter.Counter `json:"accepted"`
	Refused        counter.Counter `json:"refused"`
	Frames         counter.Counter `json:"frames"`
	FramesRejected counter.Counter `json:"framesRejected"`
}

type listener struct {
	log                *logger.L
	dispatcher         Dispatcher
	stats              *Statistics
	maximumConnections uint64
	readTimeout        time.Duration
	framesPerSecond    rate.Limit

	listeners []net.Listener

	sync.Mutex
	connections map[net.Conn]struct{}
	handlers    sync.WaitGroup
}

// bind all addresses so that errors are reported before start up completes
func newListener(configuration *Configuration, dispatcher Dispatcher, stats *Statistics, log *logger.L) (*listener, error) {
	lstn := &listener{
		log:                log,
		dispatcher:         dispatcher,
		stats:              stats,
		maximumConnections: configuration.MaximumConnections,
		readTimeout:        configuration.readTimeout(),
		framesPerSecond:    rate.Limit(configuration.FramesPerSecond),
		connections:        make(map[net.Conn]struct{}),
	}

	for _, listen := range configuration.Listen {
		network, address, err := ParseListen(listen)
		if nil != err {
			lstn.closeListeners()
			return nil, err
		}
		l, err := net.Listen(network, address)
		if nil != err {
			log.Errorf("listen: %s  error: %s", listen, err)
			lstn.closeListeners()
			return nil, err
		}
		log.Infof("listening on: %s", l.Addr())
		lstn.listeners = append(lstn.listeners, l)
	}
	return lstn, nil
}

func (lstn *listener) closeListeners() {
	for _, l := range lstn.listeners {
		_ = l.Close()
	}
}

// addresses actually bound, useful when a port of zero was configured
func (lstn *listener) addresses() []net.Addr {
	addrs := make([]net.Addr, len(lstn.listeners))
	for i, l := range lstn.listeners {
		addrs[i] = l.Addr()
	}
	return addrs
}

// accept on every address until shutdown
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
	log.Info("initiate shutdown")

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
			log.Infof("accept on: %s  terminated: %s", l.Addr(), err)
			return
		}

		if !lstn.stats.Connections.IncrementIfBelow(lstn.maximumConnections) {
			lstn.stats.Refused.Increment()
			log.Warnf("refused: %s  too many connections", conn.RemoteAddr())
			_ = conn.Close()
			continue
		}
		lstn.stats.Accepted.Increment()

		lstn.Lock()
		lstn.connections[conn] = struct{}{}
		lstn.handlers.Add(1)
		lstn.Unlock()

		go func() {
			defer lstn.handlers.Done()
			lstn.serve(conn)

			lstn.Lock()
			delete(lstn.connections, conn)
			lstn.Unlock()
			_ = conn.Close()
			lstn.stats.Connections.Decrement()
		}()
	}
}

// process frames in arrival order until the connection fails
func (lstn *listener) serve(conn net.Conn) {
	log := lstn.log
	remote := conn.RemoteAddr().String()

	log.Debugf("connection from: %s", remote)

	limiter := rate.NewLimiter(lstn.framesPerSecond, 1)
	for {
		if err := conn.SetReadDeadline(time.Now().Add(lstn.readTimeout)); nil != err {
			return
		}

		frame, err := wire.ReadFrame(conn)
		if wire.IsHeaderFault(err) {
			// payload was not consumed so the stream cannot continue
			lstn.stats.FramesRejected.Increment()
			log.Warnf("from: %s  type: %d  length: %d  rejected: %s", remote, frame.Type, frame.Length, err)
			return
		}
		if nil != err {
			if io.EOF != err {
				log.Debugf("from: %s  read error: %s", remote, err)
			}
			return
		}
		lstn.stats.Frames.Increment()

		if err := ratelimit.Limit(limiter); nil != err {
			return
		}

		reply, err := lstn.dispatcher.Dispatch(frame.Type, frame.Payload)
		if nil != err {
			lstn.stats.FramesRejected.Increment()
			continue
		}
		if nil == reply {
			continue
		}

		if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); nil != err {
			return
		}
		if err := wire.WriteFrame(conn, reply.Type, reply.Payload); nil != err {
			log.Debugf("to: %s  write error: %s", remote, err)
			return
		}
	}
}

// Dispatcher - handles frame payloads
type Dispatcher interface {
	Dispatch(messageType uint8, payload []byte) (*protocol.Reply, error)
	Advertisement() ([]byte, error)
}
