// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

//go:build linux
// +build linux

package backend

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	// alwaysArmed is always-on regardless of interest, matching the
	// original's sw_ev_io_add: "ev.events = EPOLLET | EPOLLPRI | EPOLLERR | EPOLLHUP".
	alwaysArmed = unix.EPOLLET | unix.EPOLLPRI | unix.EPOLLERR | unix.EPOLLHUP
)

// NewEpoll creates the edge-triggered epoll-style backend. batch bounds how
// many ready events a single Wait call can retrieve.
func NewEpoll(batch int) (Backend, error) {
	if batch <= 0 {
		batch = 1024
	}
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, os.NewSyscallError("epoll_create1", err)
	}
	return &epoll{
		fd:       fd,
		interest: make(map[int]Mask),
		events:   make([]unix.EpollEvent, batch),
	}, nil
}

type epoll struct {
	fd       int
	interest map[int]Mask
	events   []unix.EpollEvent
}

func (e *epoll) Name() Name { return Epoll }

func (e *epoll) Add(fd int, mask Mask) error {
	if fd < 0 {
		return errInvalidFD
	}
	mask &= Read | Write
	if mask == 0 {
		return errInvalidMask
	}
	cur, ok := e.interest[fd]
	now := cur | mask
	ev := unix.EpollEvent{Events: alwaysArmed, Fd: int32(fd)}
	if now&Read != 0 {
		ev.Events |= unix.EPOLLIN
	}
	if now&Write != 0 {
		ev.Events |= unix.EPOLLOUT
	}
	op := unix.EPOLL_CTL_ADD
	if ok {
		op = unix.EPOLL_CTL_MOD
	}
	if err := unix.EpollCtl(e.fd, op, fd, &ev); err != nil {
		return errors.Wrap(os.NewSyscallError("epoll_ctl", err), "backend: epoll add")
	}
	e.interest[fd] = now
	return nil
}

func (e *epoll) Del(fd int, mask Mask) error {
	if fd < 0 {
		return errInvalidFD
	}
	mask &= Read | Write
	if mask == 0 {
		return errInvalidMask
	}
	cur, ok := e.interest[fd]
	if !ok {
		return nil
	}
	now := cur &^ mask
	if now == 0 {
		if err := unix.EpollCtl(e.fd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
			return errors.Wrap(os.NewSyscallError("epoll_ctl", err), "backend: epoll del")
		}
		delete(e.interest, fd)
		return nil
	}
	ev := unix.EpollEvent{Events: alwaysArmed, Fd: int32(fd)}
	if now&Read != 0 {
		ev.Events |= unix.EPOLLIN
	}
	if now&Write != 0 {
		ev.Events |= unix.EPOLLOUT
	}
	if err := unix.EpollCtl(e.fd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		return errors.Wrap(os.NewSyscallError("epoll_ctl", err), "backend: epoll del")
	}
	e.interest[fd] = now
	return nil
}

func (e *epoll) Wait(timeoutMS int) ([]Ready, error) {
	n, err := unix.EpollWait(e.fd, e.events, timeoutMS)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, os.NewSyscallError("epoll_wait", err)
	}
	var ready []Ready
	seen := make(map[int]int, n)
	for i := 0; i < n; i++ {
		ev := e.events[i]
		fd := int(ev.Fd)
		var mask Mask
		if ev.Events&unix.EPOLLIN != 0 {
			mask |= Read
		}
		if ev.Events&unix.EPOLLOUT != 0 {
			mask |= Write
		}
		// Open Question #1 (DESIGN.md): PRI|ERR|HUP always collapses to
		// READ, exactly like the original, even if only WRITE was asked for.
		if ev.Events&(unix.EPOLLPRI|unix.EPOLLERR|unix.EPOLLHUP) != 0 {
			mask |= Read
		}
		if mask == 0 {
			continue
		}
		if idx, ok := seen[fd]; ok {
			ready[idx].Mask |= mask
			continue
		}
		seen[fd] = len(ready)
		ready = append(ready, Ready{FD: fd, Mask: mask})
	}
	return ready, nil
}

func (e *epoll) Close() error {
	return os.NewSyscallError("close", unix.Close(e.fd))
}
