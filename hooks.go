// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

package swevent

// HookCallback is invoked for a prepare or check hook in registration
// order, once per loop iteration.
type HookCallback func(handle *Hook, arg interface{})

// Hook is the opaque handle returned by PrepareAdd/CheckAdd.
type Hook struct {
	cb  HookCallback
	arg interface{}
}

// maxHooks bounds each of the prepare and check sequences to 10 entries,
// per spec §4.4/§6.
const maxHooks = 10

type hookList struct {
	hooks [maxHooks]*Hook
	n     int
}

func (l *hookList) add(cb HookCallback, arg interface{}) (*Hook, error) {
	if cb == nil {
		return nil, ErrInvalidArgument
	}
	if l.n >= maxHooks {
		return nil, ErrCapacityExceeded
	}
	h := &Hook{cb: cb, arg: arg}
	l.hooks[l.n] = h
	l.n++
	return h, nil
}

// del performs a linear scan and left-compacts the remaining entries,
// preserving registration order, per spec §4.4. A handle not currently
// present (already deleted) is a silent no-op, matching the source's
// "walk the array; if not found, do nothing" contract (see spec §9's
// open question on this, resolved in DESIGN.md).
func (l *hookList) del(h *Hook) {
	for i := 0; i < l.n; i++ {
		if l.hooks[i] != h {
			continue
		}
		copy(l.hooks[i:l.n-1], l.hooks[i+1:l.n])
		l.hooks[l.n-1] = nil
		l.n--
		return
	}
}

func (l *hookList) invoke() {
	for i := 0; i < l.n; i++ {
		h := l.hooks[i]
		h.cb(h, h.arg)
	}
}

// PrepareAdd registers cb to run once per loop iteration, after the timer
// phase and before the backend wait. Returns ErrCapacityExceeded past the
// 10-hook cap.
func (c *Context) PrepareAdd(cb HookCallback, arg interface{}) (*Hook, error) {
	return c.prepares.add(cb, arg)
}

// PrepareDel removes a prepare hook. A no-op if h is not currently
// registered.
func (c *Context) PrepareDel(h *Hook) {
	c.prepares.del(h)
}

// CheckAdd registers cb to run once per loop iteration, after I/O dispatch.
// Returns ErrCapacityExceeded past the 10-hook cap.
func (c *Context) CheckAdd(cb HookCallback, arg interface{}) (*Hook, error) {
	return c.checks.add(cb, arg)
}

// CheckDel removes a check hook. A no-op if h is not currently registered.
func (c *Context) CheckDel(h *Hook) {
	c.checks.del(h)
}
