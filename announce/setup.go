// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package announce

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/blockd/background"
	"github.com/bitmark-inc/blockd/fault"
	"github.com/bitmark-inc/blockd/protocol"
)

const (
	expiryInterval = 10 * time.Minute
	peerExpiry     = 60 * time.Minute
)

// removes peers that have not been seen for a while
type expirer struct {
	log   *logger.L
	table *Table
}

func (e *expirer) Run(args interface{}, shutdown <-chan struct{}) {
	ticker := time.NewTicker(expiryInterval)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			e.table.Expire(peerExpiry)
		}
	}
}

// Start - set the static peers and run the background processes
//
// staticFile may be empty, otherwise it is watched for changes
func (t *Table) Start(fixed []protocol.Node, staticFile string) error {
	t.Lock()
	started := nil != t.background
	t.Unlock()
	if started {
		return fault.AlreadyInitialised
	}

	t.log.Info("starting…")

	processes := background.Processes{
		&expirer{log: t.log, table: t},
	}

	if "" == staticFile {
		t.SetStatic(fixed)
	} else {
		w, err := newStaticWatcher(t, fixed, staticFile)
		if nil != err {
			return err
		}
		w.reload()
		processes = append(processes, w)
	}

	b := background.Start(processes, nil)

	t.Lock()
	t.background = b
	t.Unlock()
	return nil
}

// Stop - stop the background processes
func (t *Table) Stop() error {
	t.Lock()
	b := t.background
	t.background = nil
	t.Unlock()

	if nil == b {
		return fault.NotInitialised
	}

	t.log.Info("shutting down…")
	b.Stop()
	t.log.Info("finished")
	t.log.Flush()
	return nil
}
