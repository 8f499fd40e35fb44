// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

package selfpipe

import (
	"net"

	"golang.org/x/sys/unix"

	"github.com/shuisheng-wu/go-swevent/internal/netutil"
)

func listenLoopback() (net.Listener, error) {
	return net.Listen("tcp", "127.0.0.1:0")
}

// dupFD pulls the raw fd out of conn and duplicates it, then closes conn's
// Go-level wrapper so its finalizer doesn't later close the fd out from
// under us.
func dupFD(conn net.Conn) (int, error) {
	fd, err := netutil.GetFD(conn)
	if err != nil {
		conn.Close()
		return -1, err
	}
	dup, err := unix.Dup(fd)
	conn.Close()
	if err != nil {
		return -1, err
	}
	return dup, nil
}

func dialLoopback(addr string) (int, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return -1, err
	}
	return dupFD(conn)
}

func acceptLoopback(ln net.Listener) (int, error) {
	conn, err := ln.Accept()
	if err != nil {
		return -1, err
	}
	return dupFD(conn)
}
