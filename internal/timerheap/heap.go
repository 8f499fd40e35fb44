// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

// Package timerheap implements the min-heap used to schedule recurring
// timers by next-expiry time. Each Entry carries its own heap index so a
// callback can cancel any timer, including its own, in O(log n) without a
// linear scan.
package timerheap

// NoIndex marks an Entry that is not currently stored in any heap.
const NoIndex = ^uint32(0)

// Entry is one scheduled timer. NextExpire is in milliseconds; Interval is
// the reschedule delta applied every time the timer fires. Index is
// maintained exclusively by Heap and must not be written by callers.
type Entry struct {
	NextExpire int64
	Interval   int32
	Index      uint32

	Callback func(arg interface{})
	Arg      interface{}
}

func newEntryIndex(e *Entry) {
	e.Index = NoIndex
}

// Heap is a binary min-heap keyed by Entry.NextExpire, mirroring
// sw_timer_heap_t from the original source.
type Heap struct {
	entries []*Entry
}

// Len returns the number of timers currently scheduled.
func (h *Heap) Len() int {
	return len(h.entries)
}

// Top returns the earliest-deadline entry, or nil if the heap is empty.
func (h *Heap) Top() *Entry {
	if len(h.entries) == 0 {
		return nil
	}
	return h.entries[0]
}

// Push inserts e and restores the heap property. Capacity growth is handled
// by the underlying slice (doubling from zero, matching the original's
// reserve-from-8 behavior closely enough that callers never observe a
// difference).
func (h *Heap) Push(e *Entry) {
	newEntryIndex(e)
	h.entries = append(h.entries, nil)
	h.shiftUp(uint32(len(h.entries)-1), e)
}

// Pop removes and returns the root entry, or nil if the heap is empty.
func (h *Heap) Pop() *Entry {
	if len(h.entries) == 0 {
		return nil
	}
	e := h.entries[0]
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	if len(h.entries) > 0 {
		h.shiftDown(0, last)
	}
	e.Index = NoIndex
	return e
}

// Erase removes e from the heap using its stored index, in O(log n).
// Erasing an entry whose Index is already NoIndex is a no-op that reports
// failure, matching sw_timer_heap_erase's idempotence contract.
func (h *Heap) Erase(e *Entry) bool {
	if e.Index == NoIndex {
		return false
	}
	size := uint32(len(h.entries))
	last := h.entries[size-1]
	h.entries = h.entries[:size-1]
	idx := e.Index
	e.Index = NoIndex
	if idx == size-1 {
		// e was the last element; nothing left to re-seat.
		return true
	}
	parent := (idx - 1) / 2
	if idx > 0 && greater(h.entries[parent], last) {
		h.shiftUp(idx, last)
	} else {
		h.shiftDown(idx, last)
	}
	return true
}

func greater(left, right *Entry) bool {
	return left.NextExpire > right.NextExpire
}

func (h *Heap) shiftUp(holeIndex uint32, e *Entry) {
	for holeIndex > 0 {
		parent := (holeIndex - 1) / 2
		if !greater(h.entries[parent], e) {
			break
		}
		h.entries[holeIndex] = h.entries[parent]
		h.entries[holeIndex].Index = holeIndex
		holeIndex = parent
	}
	h.entries[holeIndex] = e
	e.Index = holeIndex
}

func (h *Heap) shiftDown(holeIndex uint32, e *Entry) {
	size := uint32(len(h.entries))
	minChild := 2 * (holeIndex + 1)
	for minChild <= size {
		if minChild == size || greater(h.entries[minChild], h.entries[minChild-1]) {
			minChild--
		}
		if !greater(e, h.entries[minChild]) {
			break
		}
		h.entries[holeIndex] = h.entries[minChild]
		h.entries[holeIndex].Index = holeIndex
		holeIndex = minChild
		minChild = 2 * (holeIndex + 1)
	}
	h.shiftUp(holeIndex, e)
}
