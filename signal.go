// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

package swevent

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/atomic"

	"github.com/shuisheng-wu/go-swevent/internal/backend"
	"github.com/shuisheng-wu/go-swevent/internal/selfpipe"
	"github.com/shuisheng-wu/go-swevent/log"
	"github.com/shuisheng-wu/go-swevent/metrics"
)

// maxSignals bounds the signal table to NSIG, per spec §3/§6.
const maxSignals = 64

// SignalCallback is invoked from the loop thread when signo is delivered,
// never from the OS signal-handling path itself — see the self-pipe note
// on Context.signalPump below.
type SignalCallback func(signo int, arg interface{})

type signalEntry struct {
	cb  SignalCallback
	arg interface{}
}

// globalSignalContext is the process-wide "current context" slot from
// spec §4.3: at most one Context may own it at a time, guarded by
// compare-and-swap so concurrent claims from different threads resolve to
// exactly one winner (spec §9's open question on concurrent-claim races).
var globalSignalContext atomic.Pointer[Context]

// signalPump is the Go-idiomatic stand-in for the original's raw OS signal
// handler (sw_ev_signal_handler_). Go does not let user code install a
// signal handler directly; os/signal.Notify already does the
// async-signal-safe forwarding into a channel on the runtime's behalf. This
// goroutine's only job is to turn each channel receive into the single
// non-blocking self-pipe byte write the original handler performs, so the
// rest of the dispatcher (table lookup, callback invocation) still happens
// synchronously on the loop thread via the ordinary I/O phase.
func (c *Context) signalPump() {
	for {
		select {
		case sig, ok := <-c.signalCh:
			if !ok {
				return
			}
			selfpipe.Notify(c.signalPipe.Write, byte(sig.(syscall.Signal)&0xff))
		case <-c.signalDone:
			return
		}
	}
}

func (c *Context) onSignalReadable(fd int, mask backend.Mask, arg interface{}) {
	n, err := selfpipe.Drain(c.signalPipe.Read, func(b byte) {
		signo := int(b)
		if signo >= maxSignals {
			return
		}
		e := c.signalTable[signo]
		if e == nil {
			return
		}
		metrics.Add(metrics.SignalsDelivered, 1)
		e.cb(signo, e.arg)
	})
	if err != nil {
		// Unexpected EOF or a read error other than EAGAIN/EINTR is a
		// fatal invariant break per spec §7.
		log.Emit(log.LevelError, "swevent: signal self-pipe read failed: %v", err)
		log.Fatalf("swevent: signal self-pipe read failed: %v", err)
	}
	_ = n
}

// SignalAdd installs cb for signo, claiming the process-wide signal slot
// for c if it is unclaimed. Fails with ErrSignalSlotTaken if a different
// Context already owns it, per spec §4.3/§8.
func (c *Context) SignalAdd(signo int, cb SignalCallback, arg interface{}) error {
	if signo < 0 || signo >= maxSignals || cb == nil {
		return ErrInvalidArgument
	}
	if !globalSignalContext.CompareAndSwap(nil, c) && globalSignalContext.Load() != c {
		return ErrSignalSlotTaken
	}
	if c.signalPipe == nil {
		pipe, err := selfpipe.New()
		if err != nil {
			return err
		}
		c.signalPipe = pipe
		c.signalCh = make(chan os.Signal, 16)
		c.signalDone = make(chan struct{})
		go c.signalPump()
		if err := c.IOAdd(pipe.Read, backend.Read, c.onSignalReadable, nil); err != nil {
			return err
		}
	}
	c.signalTable[signo] = &signalEntry{cb: cb, arg: arg}
	signal.Notify(c.signalCh, syscall.Signal(signo))
	return nil
}

// SignalDel clears the callback for signo and restores its OS default
// disposition. Requires c to currently own the global signal slot.
func (c *Context) SignalDel(signo int) error {
	if signo < 0 || signo >= maxSignals {
		return ErrInvalidArgument
	}
	if globalSignalContext.Load() != c {
		return ErrSignalSlotTaken
	}
	if c.signalTable[signo] == nil {
		return ErrNotFound
	}
	signal.Reset(syscall.Signal(signo))
	c.signalTable[signo] = nil
	return nil
}

// closeSignals tears down the self-pipe, stops the forwarding goroutine,
// restores default dispositions for every signal this context installed,
// and releases the global slot — but only if c currently owns it, per
// spec §3's Context destruction invariant.
func (c *Context) closeSignals() {
	if c.signalPipe == nil {
		return
	}
	close(c.signalDone)
	if globalSignalContext.Load() == c {
		for signo, e := range c.signalTable {
			if e == nil {
				continue
			}
			signal.Reset(syscall.Signal(signo))
			c.signalTable[signo] = nil
		}
		globalSignalContext.CompareAndSwap(c, nil)
	}
	signal.Stop(c.signalCh)
	c.signalPipe.Close()
}
