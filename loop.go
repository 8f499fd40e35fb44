// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

package swevent

import (
	"github.com/shuisheng-wu/go-swevent/internal/clock"
	"github.com/shuisheng-wu/go-swevent/log"
	"github.com/shuisheng-wu/go-swevent/metrics"
)

// maxWaitMS bounds a single backend Wait call, per spec §4.5/§6/§8 — large
// enough that a caller with no timers still wakes at least once within
// half an hour, never so large the loop appears hung.
const maxWaitMS = 1_800_000

// Loop drives iterations until LoopExit is called or the backend's Wait
// fails persistently. The running-flag transition is observed only at the
// top of each iteration (spec §4.5's state machine), never pre-empting a
// callback already in flight.
func (c *Context) Loop() error {
	for c.running {
		if err := c.iterate(); err != nil {
			return err
		}
	}
	return nil
}

// LoopExit requests that Loop return after the current iteration finishes.
// Safe to call from within any callback running on the loop thread.
func (c *Context) LoopExit() {
	c.running = false
}

func (c *Context) iterate() error {
	c.now = clock.NowMS()

	c.fireExpiredTimers()

	waitMS := c.computeWaitMS()

	c.prepares.invoke()
	metrics.Add(metrics.PrepareCalls, uint64(c.prepares.n))

	ready, err := c.backend.Wait(int(waitMS))
	metrics.Add(metrics.WaitCalls, 1)
	if err != nil {
		log.Emit(log.LevelError, "swevent: backend wait failed: %v", err)
		return ErrLoopFailed
	}
	if len(ready) == 0 {
		metrics.Add(metrics.WaitTimeouts, 1)
	}
	metrics.Add(metrics.WaitEvents, uint64(len(ready)))

	for _, r := range ready {
		// Re-check the table rather than dispatching straight from the
		// backend's event array: a callback earlier in this same batch
		// may have deleted r.FD, and the table is the source of truth
		// for whether it is still live (spec §4.2/§4.5 step 6, §8
		// scenario 4).
		entry, ok := c.io.get(r.FD)
		if !ok || entry.callback == nil {
			continue
		}
		entry.callback(r.FD, r.Mask, entry.arg)
		metrics.Add(metrics.IOCallbacks, 1)
	}

	c.checks.invoke()
	metrics.Add(metrics.CheckCalls, uint64(c.checks.n))

	return nil
}

// fireExpiredTimers pops every timer whose deadline has passed, reschedules
// it before invoking its callback (so a callback that deletes its own
// timer sees a consistent heap), and re-reads the top after each firing
// since the callback may mutate the heap arbitrarily.
func (c *Context) fireExpiredTimers() {
	for {
		top := c.timers.Top()
		if top == nil || top.NextExpire > c.now {
			return
		}
		c.timers.Pop()
		top.NextExpire += int64(top.Interval)
		c.timers.Push(top)
		top.Callback(top.Arg)
		metrics.Add(metrics.TimersFired, 1)
	}
}

// computeWaitMS returns the distance to the new top timer's deadline,
// clamped to (0, maxWaitMS]; no timers, or a non-positive distance,
// clamps to maxWaitMS to avoid a busy-spin wakeup (spec §4.5 step 3).
func (c *Context) computeWaitMS() int64 {
	top := c.timers.Top()
	if top == nil {
		return maxWaitMS
	}
	d := top.NextExpire - c.now
	if d <= 0 || d > maxWaitMS {
		return maxWaitMS
	}
	return d
}
