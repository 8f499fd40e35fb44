// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

// Package swevent is a lightweight, single-threaded event dispatcher that
// multiplexes socket/file-descriptor readiness, millisecond-resolution
// recurring timers, and OS signals onto one readiness-polling syscall, with
// prepare/check lifecycle hooks for cooperative integration with other
// loops. It never parses or interprets byte streams itself — callers read
// and write their own fds once notified of readiness.
package swevent

import (
	"os"

	"github.com/shuisheng-wu/go-swevent/internal/backend"
	"github.com/shuisheng-wu/go-swevent/internal/selfpipe"
	"github.com/shuisheng-wu/go-swevent/internal/timerheap"
)

// Context owns every registered timer, I/O entry, signal entry, and hook,
// plus the backend handle and signal self-pipe. Every method on Context
// must be called from the single thread driving its Loop, except
// SignalAdd/SignalDel's interaction with the process-wide signal slot,
// which is safe from any thread (spec §5).
type Context struct {
	opts options

	backend backend.Backend
	io      *ioTable
	timers  timerheap.Heap

	prepares hookList
	checks   hookList

	signalPipe  *selfpipe.Pipe
	signalCh    chan os.Signal
	signalDone  chan struct{}
	signalTable [maxSignals]*signalEntry

	now     int64
	running bool
	closed  bool
}

// New constructs a Context, applying opts over the teacher-style defaults
// (see options.go). Construction failures (backend creation) are the
// "fatal invariant break" class from spec §7, but are returned here rather
// than exiting the process, since Go callers expect constructors to report
// errors rather than terminate on their behalf. New does not create the
// signal self-pipe; the first successful SignalAdd creates it, and reports
// any failure to do so as its own error.
func New(opts ...Option) (*Context, error) {
	var o options
	o.setDefault()
	for _, opt := range opts {
		opt.f(&o)
	}

	b, err := newBackend(&o)
	if err != nil {
		return nil, err
	}

	c := &Context{
		opts:    o,
		backend: b,
		io:      newIOTable(o.ioTableCapacity),
		running: true,
	}
	return c, nil
}

// Free releases every resource the Context owns: still-registered timers
// and hooks, the self-pipe, the backend handle, and — if this context
// holds the global signal slot — every signal disposition it installed.
// Per spec §3, a freed Context must not be used again.
func (c *Context) Free() error {
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	c.closeSignals()
	c.prepares = hookList{}
	c.checks = hookList{}
	c.timers = timerheap.Heap{}
	c.io = newIOTable(0)
	return c.backend.Close()
}
