// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

// Package backend abstracts the three readiness-polling syscalls (epoll,
// kqueue, select) behind one interface: add/remove per-fd interest and wait
// with a millisecond timeout for a batch of {fd, mask} readiness pairs. The
// caller's I/O table remains the source of truth for "what was wanted" —
// a Backend only ever reports what the kernel observed, which the caller
// must re-check against its own table before dispatching (see loop.go).
package backend

import (
	"errors"
	"fmt"
)

// Validation errors returned by the Backend implementations' Add/Del:
// errInvalidFD and errInvalidMask by every variant (spec.md §7's "invalid
// argument" kind), errSelectCapacity by the select variant's Add only
// (the "capacity exhausted" kind).
var (
	errInvalidFD       = errors.New("backend: negative file descriptor")
	errInvalidMask     = errors.New("backend: mask has no recognized bits")
	errSelectCapacity  = errors.New("backend: fd exceeds select's FD_SETSIZE capacity")
)

// Mask is the bitwise-or of READ/WRITE interest, matching spec.md's
// SW_EV_READ/SW_EV_WRITE constants.
type Mask uint8

// Event type bits.
const (
	Read  Mask = 0x01
	Write Mask = 0x02
)

func (m Mask) String() string {
	switch m {
	case 0:
		return "none"
	case Read:
		return "READ"
	case Write:
		return "WRITE"
	case Read | Write:
		return "READ|WRITE"
	default:
		return fmt.Sprintf("Mask(%d)", m)
	}
}

// Name identifies which concrete Backend implementation is in use.
type Name string

// The three backend variants named in spec.md §4.2.
const (
	Epoll  Name = "epoll"
	Kqueue Name = "kqueue"
	Select Name = "select"
)

// Ready is one {fd, mask} readiness pair returned by Wait, coalesced so that
// a given fd appears at most once per call with the union of its ready bits.
type Ready struct {
	FD   int
	Mask Mask
}

// Backend is the polymorphic readiness-polling capability set described in
// spec.md §4.2: add-interest, remove-interest, wait-for-readiness.
type Backend interface {
	// Name reports which concrete variant this is, for diagnostics and
	// backend-equivalence testing.
	Name() Name

	// Add registers interest in mask for fd, OR-ed onto any interest
	// already registered for that fd. Fails if fd < 0 or mask has no
	// recognized bits, or the backend-specific capacity is exceeded.
	Add(fd int, mask Mask) error

	// Del clears the named bits for fd. If the remaining interest is
	// zero the kernel registration is removed entirely. Deleting
	// interest the backend never had for fd is a no-op success.
	Del(fd int, mask Mask) error

	// Wait blocks for at most timeoutMS milliseconds (clamped by the
	// caller per spec.md §4.5 step 3) and returns the coalesced set of
	// ready {fd, mask} pairs. EINTR is swallowed and reported as zero
	// events, never as an error.
	Wait(timeoutMS int) ([]Ready, error)

	// Close releases the backend's kernel resources. Not safe to call
	// concurrently with Wait.
	Close() error
}
