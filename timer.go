// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

package swevent

import (
	"github.com/shuisheng-wu/go-swevent/internal/clock"
	"github.com/shuisheng-wu/go-swevent/internal/timerheap"
)

// TimerCallback is invoked on every firing of the timer it was registered
// with, reschedule-before-call (see loop.go's timer phase).
type TimerCallback func(handle *Timer, arg interface{})

// Timer is the opaque handle returned by TimerAdd. The caller must not
// dereference its fields; it exists only to be passed back to TimerDel.
type Timer struct {
	entry *timerheap.Entry
	cb    TimerCallback
	arg   interface{}
}

// TimerAdd schedules cb to run every timeoutMS milliseconds, first firing
// timeoutMS from now. timeoutMS must be > 0, per spec §6/§8.
func (c *Context) TimerAdd(timeoutMS int32, cb TimerCallback, arg interface{}) (*Timer, error) {
	if timeoutMS <= 0 || cb == nil {
		return nil, ErrInvalidArgument
	}
	t := &Timer{cb: cb, arg: arg}
	entry := &timerheap.Entry{
		NextExpire: clock.NowMS() + int64(timeoutMS),
		Interval:   timeoutMS,
		Index:      timerheap.NoIndex,
	}
	entry.Arg = t
	entry.Callback = func(arg interface{}) {
		handle := arg.(*Timer)
		handle.cb(handle, handle.arg)
	}
	t.entry = entry
	c.timers.Push(entry)
	return t, nil
}

// TimerDel cancels t. Safe to call from within t's own callback (the
// dispatch-time heap consistency is guaranteed by loop.go's reschedule-
// before-call ordering). Deleting an already-deleted timer returns
// ErrNotFound and leaves the heap untouched.
func (c *Context) TimerDel(t *Timer) error {
	if t == nil || t.entry == nil {
		return ErrInvalidArgument
	}
	if !c.timers.Erase(t.entry) {
		return ErrNotFound
	}
	return nil
}
