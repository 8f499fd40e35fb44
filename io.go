// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

package swevent

import "github.com/shuisheng-wu/go-swevent/internal/backend"

// IOCallback is invoked when fd becomes ready for one or more of the bits
// in mask. May freely add/delete any event, including itself or fds about
// to be dispatched later in the same batch (see loop.go step 6).
type IOCallback func(fd int, mask backend.Mask, arg interface{})

// ioEntry is one row of the dense, fd-indexed table described in spec §3.
// mask == 0 means the row is inactive; callback/arg are cleared.
type ioEntry struct {
	callback IOCallback
	arg      interface{}
	mask     backend.Mask
}

// ioTable is the dispatcher's source of truth for "what the caller wanted"
// per fd, independent of whatever the kernel backend currently reports.
type ioTable struct {
	rows []ioEntry
}

func newIOTable(capacity int) *ioTable {
	if capacity <= 0 {
		capacity = defaultIOTableCapacity
	}
	return &ioTable{rows: make([]ioEntry, capacity)}
}

// grow doubles the table until fd fits, preserving every existing row.
// Rows hold a func and an interface{}, so growth goes through plain
// make([]ioEntry, ...), not the byte-oriented memAlloc/memRealloc hooks in
// memalloc.go (reinterpreting raw bytes as a slice of pointer-containing
// structs would leave the GC unable to track those pointers correctly).
// AllocBuffer/FreeBuffer expose those hooks instead for a caller's own
// read/write scratch buffers.
func (t *ioTable) grow(fd int) {
	if fd < len(t.rows) {
		return
	}
	size := len(t.rows)
	if size == 0 {
		size = 1
	}
	for size <= fd {
		size *= 2
	}
	grown := make([]ioEntry, size)
	copy(grown, t.rows)
	t.rows = grown
}

func (t *ioTable) get(fd int) (ioEntry, bool) {
	if fd < 0 || fd >= len(t.rows) {
		return ioEntry{}, false
	}
	return t.rows[fd], t.rows[fd].mask != 0
}

func (t *ioTable) set(fd int, e ioEntry) {
	t.grow(fd)
	t.rows[fd] = e
}

func (t *ioTable) clear(fd int) {
	if fd >= 0 && fd < len(t.rows) {
		t.rows[fd] = ioEntry{}
	}
}

// IOAdd registers interest in mask for fd, OR-ed onto any existing
// interest. The callback/arg pair is overwritten on every call — a single
// pair applies to both readability and writability for that fd, per
// spec §4.2.
func (c *Context) IOAdd(fd int, mask backend.Mask, cb IOCallback, arg interface{}) error {
	if fd < 0 || mask&(backend.Read|backend.Write) == 0 || cb == nil {
		return ErrInvalidArgument
	}
	cur, _ := c.io.get(fd)
	now := cur.mask | (mask & (backend.Read | backend.Write))
	if err := c.backend.Add(fd, mask); err != nil {
		return err
	}
	c.io.set(fd, ioEntry{callback: cb, arg: arg, mask: now})
	return nil
}

// IODel clears the named bits for fd. If the remaining mask is zero the
// row is cleared and the kernel registration removed. Deleting interest
// the table never had is a no-op success, per spec §4.2.
func (c *Context) IODel(fd int, mask backend.Mask) error {
	if fd < 0 || mask&(backend.Read|backend.Write) == 0 {
		return ErrInvalidArgument
	}
	cur, ok := c.io.get(fd)
	if !ok {
		return nil
	}
	if err := c.backend.Del(fd, mask); err != nil {
		return err
	}
	now := cur.mask &^ mask
	if now == 0 {
		c.io.clear(fd)
		return nil
	}
	cur.mask = now
	c.io.set(fd, cur)
	return nil
}
