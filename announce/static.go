// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package announce

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/blockd/protocol"
)

// ParseStatic - read "host:port" lines, blank lines and text after
// '#' are ignored; malformed lines are logged and skipped
func ParseStatic(r io.Reader, log *logger.L) ([]protocol.Node, error) {
	nodes := make([]protocol.Node, 0)

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n += 1
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if "" == line {
			continue
		}
		node, err := protocol.NodeFromString(line)
		if nil != err {
			log.Warnf("static peers line: %d  %q  error: %s", n, line, err)
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes, scanner.Err()
}

// ReadStatic - parse a static peers file
func ReadStatic(fileName string, log *logger.L) ([]protocol.Node, error) {
	f, err := os.Open(fileName)
	if nil != err {
		return nil, err
	}
	defer f.Close()
	return ParseStatic(f, log)
}

// reloads the static peers file whenever it changes
type staticWatcher struct {
	log      *logger.L
	table    *Table
	fixed    []protocol.Node // from configuration, always static
	fileName string
	watcher  *fsnotify.Watcher
}

func newStaticWatcher(table *Table, fixed []protocol.Node, fileName string) (*staticWatcher, error) {
	fileName, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}

	// watch the directory so replacing the file is also seen
	if err := watcher.Add(filepath.Dir(fileName)); nil != err {
		watcher.Close()
		return nil, err
	}

	return &staticWatcher{
		log:      table.log,
		table:    table,
		fixed:    fixed,
		fileName: fileName,
		watcher:  watcher,
	}, nil
}

// load the file and replace the static set
func (w *staticWatcher) reload() {
	nodes, err := ReadStatic(w.fileName, w.log)
	if nil != err && !os.IsNotExist(err) {
		w.log.Errorf("read static peers: %s  error: %s", w.fileName, err)
		return
	}
	w.table.SetStatic(append(append([]protocol.Node{}, w.fixed...), nodes...))
}

func (w *staticWatcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	base := filepath.Base(w.fileName)

	log.Infof("watching: %s", w.fileName)
loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			log.Debugf("file event: %v", event)
			if 0 != event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watcher error: %s", err)
		}
	}
	w.watcher.Close()
}
