// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

// Package netutil provides the small set of raw-fd helpers the dispatcher
// needs: pulling a syscall fd out of a net.Conn/Listener and putting a raw fd
// into non-blocking mode. It does not read or write bytes on anyone's behalf.
package netutil

import (
	"errors"
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// GetFD returns the integer Unix file descriptor referencing socket.
func GetFD(socket interface{}) (int, error) {
	conn, ok := socket.(syscall.Conn)
	if !ok {
		return -1, fmt.Errorf("type %T doesn't implement syscall.Conn interface", socket)
	}
	rawConn, err := conn.SyscallConn()
	if err != nil {
		return -1, fmt.Errorf("get raw connection fail %w", err)
	}
	fd := -1
	err = rawConn.Control(func(sysfd uintptr) {
		fd = int(sysfd)
	})
	if fd == -1 {
		return -1, errors.New("invalid file descriptor")
	}
	return fd, err
}

// SetNonblock puts fd into non-blocking mode, mirroring the original's
// sw_ev_setnonblock_ (fcntl F_GETFL/F_SETFL O_NONBLOCK).
func SetNonblock(fd int) error {
	return unix.SetNonblock(fd, true)
}
