// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

//go:build freebsd || dragonfly || darwin
// +build freebsd dragonfly darwin

package backend

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// NewKqueue creates the edge-triggered kqueue-style backend. batch bounds
// how many ready events a single Wait call can retrieve.
func NewKqueue(batch int) (Backend, error) {
	if batch <= 0 {
		batch = 1024
	}
	fd, err := unix.Kqueue()
	if err != nil {
		return nil, os.NewSyscallError("kqueue", err)
	}
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, unix.FD_CLOEXEC); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("fcntl", err)
	}
	return &kqueue{
		fd:       fd,
		interest: make(map[int]Mask),
		events:   make([]unix.Kevent_t, batch),
	}, nil
}

type kqueue struct {
	fd       int
	interest map[int]Mask
	events   []unix.Kevent_t
}

func (k *kqueue) Name() Name { return Kqueue }

func (k *kqueue) change(fd int, filter int16, flags uint16) error {
	ev := unix.Kevent_t{Ident: uint64(fd), Filter: filter, Flags: flags}
	_, err := unix.Kevent(k.fd, []unix.Kevent_t{ev}, nil, nil)
	return err
}

func (k *kqueue) Add(fd int, mask Mask) error {
	if fd < 0 {
		return errInvalidFD
	}
	mask &= Read | Write
	if mask == 0 {
		return errInvalidMask
	}
	cur := k.interest[fd]
	toAdd := mask &^ cur
	if toAdd&Read != 0 {
		if err := k.change(fd, unix.EVFILT_READ, unix.EV_ADD|unix.EV_ENABLE); err != nil {
			return errors.Wrap(os.NewSyscallError("kevent", err), "backend: kqueue add read")
		}
	}
	if toAdd&Write != 0 {
		if err := k.change(fd, unix.EVFILT_WRITE, unix.EV_ADD|unix.EV_ENABLE); err != nil {
			return errors.Wrap(os.NewSyscallError("kevent", err), "backend: kqueue add write")
		}
	}
	k.interest[fd] = cur | mask
	return nil
}

func (k *kqueue) Del(fd int, mask Mask) error {
	if fd < 0 {
		return errInvalidFD
	}
	mask &= Read | Write
	if mask == 0 {
		return errInvalidMask
	}
	cur, ok := k.interest[fd]
	if !ok {
		return nil
	}
	toDel := mask & cur
	if toDel&Read != 0 {
		if err := k.change(fd, unix.EVFILT_READ, unix.EV_DELETE); err != nil {
			return errors.Wrap(os.NewSyscallError("kevent", err), "backend: kqueue del read")
		}
	}
	if toDel&Write != 0 {
		if err := k.change(fd, unix.EVFILT_WRITE, unix.EV_DELETE); err != nil {
			return errors.Wrap(os.NewSyscallError("kevent", err), "backend: kqueue del write")
		}
	}
	now := cur &^ mask
	if now == 0 {
		delete(k.interest, fd)
	} else {
		k.interest[fd] = now
	}
	return nil
}

func (k *kqueue) Wait(timeoutMS int) ([]Ready, error) {
	ts := unix.NsecToTimespec(int64(timeoutMS) * int64(1e6))
	n, err := unix.Kevent(k.fd, nil, k.events, &ts)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, os.NewSyscallError("kevent", err)
	}
	var ready []Ready
	seen := make(map[int]int, n)
	for i := 0; i < n; i++ {
		ev := k.events[i]
		fd := int(ev.Ident)
		var mask Mask
		switch ev.Filter {
		case unix.EVFILT_READ:
			mask = Read
		case unix.EVFILT_WRITE:
			mask = Write
		default:
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

func (k *kqueue) Close() error {
	return os.NewSyscallError("close", unix.Close(k.fd))
}
