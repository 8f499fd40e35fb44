// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

//go:build linux || freebsd || dragonfly || darwin
// +build linux freebsd dragonfly darwin

package backend

import (
	"os"
	"sort"
	"unsafe"

	"golang.org/x/sys/unix"
)

// fdSetSize is the number of bits in unix.FdSet, i.e. FD_SETSIZE. It bounds
// the largest fd the select backend can register, mirroring the original's
// Windows fd_set path (sw_event_internal.h's read_set/write_set/except_set).
var fdSetSize = int(unsafe.Sizeof(unix.FdSet{})) * 8

// NewSelect creates the level-triggered select-style backend.
func NewSelect() Backend {
	return &selectBackend{interest: make(map[int]Mask)}
}

type selectBackend struct {
	interest map[int]Mask
	maxFD    int
}

func (s *selectBackend) Name() Name { return Select }

func (s *selectBackend) Add(fd int, mask Mask) error {
	if fd < 0 {
		return errInvalidFD
	}
	if fd >= fdSetSize {
		return errSelectCapacity
	}
	mask &= Read | Write
	if mask == 0 {
		return errInvalidMask
	}
	s.interest[fd] |= mask
	if fd > s.maxFD {
		s.maxFD = fd
	}
	return nil
}

func (s *selectBackend) Del(fd int, mask Mask) error {
	if fd < 0 {
		return errInvalidFD
	}
	mask &= Read | Write
	if mask == 0 {
		return errInvalidMask
	}
	cur, ok := s.interest[fd]
	if !ok {
		return nil
	}
	now := cur &^ mask
	if now == 0 {
		delete(s.interest, fd)
	} else {
		s.interest[fd] = now
	}
	return nil
}

func (s *selectBackend) Wait(timeoutMS int) ([]Ready, error) {
	var readSet, writeSet, exceptSet unix.FdSet
	nfd := 0
	for fd, mask := range s.interest {
		if mask&Read != 0 {
			fdSet(&readSet, fd)
		}
		if mask&Write != 0 {
			// Except set doubles up on the write-interested fds so a
			// pending connect()/async error surfaces as WRITE readiness,
			// matching spec.md §4.2's "write set and except set -> WRITE".
			fdSet(&writeSet, fd)
			fdSet(&exceptSet, fd)
		}
		if fd+1 > nfd {
			nfd = fd + 1
		}
	}
	tv := unix.NsecToTimeval(int64(timeoutMS) * int64(1e6))
	n, err := unix.Select(nfd, &readSet, &writeSet, &exceptSet, &tv)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, os.NewSyscallError("select", err)
	}
	if n == 0 {
		return nil, nil
	}
	var ready []Ready
	for fd, mask := range s.interest {
		var got Mask
		if mask&Read != 0 && fdIsSet(&readSet, fd) {
			got |= Read
		}
		if mask&Write != 0 && (fdIsSet(&writeSet, fd) || fdIsSet(&exceptSet, fd)) {
			got |= Write
		}
		if got != 0 {
			ready = append(ready, Ready{FD: fd, Mask: got})
		}
	}
	// The snapshot loop above walks a map, so its order is otherwise
	// unstable across calls even with identical interest; sorting by fd
	// gives the select backend a deterministic, reproducible dispatch
	// order, which spec.md §8 leaves unspecified but doesn't forbid.
	sort.Slice(ready, func(i, j int) bool { return ready[i].FD < ready[j].FD })
	return ready, nil
}

func (s *selectBackend) Close() error {
	return nil
}

// fdSet/fdIsSet manipulate the fd-th bit of the native fd_set directly as
// bytes rather than assuming a particular machine-word width, since
// unix.FdSet's element type (int32 vs int64) differs across the platforms
// this backend targets. Relies on little-endian byte order, true of every
// architecture this module supports (amd64, arm64).
func fdBytes(set *unix.FdSet) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(set)), unsafe.Sizeof(*set))
}

func fdSet(set *unix.FdSet, fd int) {
	b := fdBytes(set)
	b[fd/8] |= 1 << uint(fd%8)
}

func fdIsSet(set *unix.FdSet, fd int) bool {
	b := fdBytes(set)
	return b[fd/8]&(1<<uint(fd%8)) != 0
}
