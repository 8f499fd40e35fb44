// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

package swevent

// AllocFunc, FreeFunc and ReallocFunc are the three replaceable allocator
// slots named in spec §6, exposed to callers via AllocBuffer/FreeBuffer
// below so an IOCallback's own read buffer can be drawn from a
// caller-installed pool, matching the original's sw_ev_malloc/sw_ev_free/
// sw_ev_realloc indirection. The dispatcher itself allocates nothing
// through these slots. Go's GC makes Free largely vestigial for anything
// the runtime already tracks, but a caller is free to back these with a
// real pool.
type AllocFunc func(size int) []byte

// FreeFunc releases a slice previously returned by an AllocFunc.
type FreeFunc func(buf []byte)

// ReallocFunc grows or shrinks buf to newSize, preserving its prefix.
type ReallocFunc func(buf []byte, newSize int) []byte

var (
	memAlloc   AllocFunc   = defaultAlloc
	memFree    FreeFunc    = defaultFree
	memRealloc ReallocFunc = defaultRealloc
)

func defaultAlloc(size int) []byte { return make([]byte, size) }

func defaultFree(buf []byte) {}

func defaultRealloc(buf []byte, newSize int) []byte {
	if newSize <= cap(buf) {
		return buf[:newSize]
	}
	grown := make([]byte, newSize)
	copy(grown, buf)
	return grown
}

// SetMemoryFuncs installs the three allocator slots backing AllocBuffer/
// FreeBuffer/ReallocBuffer. The I/O table's doubling growth does not use
// them (see io.go). Any nil
// argument leaves the corresponding slot at its current value (the default
// on first call).
func SetMemoryFuncs(alloc AllocFunc, free FreeFunc, realloc ReallocFunc) {
	if alloc != nil {
		memAlloc = alloc
	}
	if free != nil {
		memFree = free
	}
	if realloc != nil {
		memRealloc = realloc
	}
}

// AllocBuffer returns a buffer of size bytes from the currently installed
// allocator, the default being a plain make([]byte, size).
func AllocBuffer(size int) []byte {
	return memAlloc(size)
}

// FreeBuffer returns buf to the currently installed allocator. Safe to call
// even when no custom allocator was installed; the default is a no-op.
func FreeBuffer(buf []byte) {
	memFree(buf)
}

// ReallocBuffer grows or shrinks buf to newSize using the currently
// installed reallocator, preserving its prefix.
func ReallocBuffer(buf []byte, newSize int) []byte {
	return memRealloc(buf, newSize)
}
