// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

//go:build linux || freebsd || dragonfly || darwin
// +build linux freebsd dragonfly darwin

package netutil_test

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/shuisheng-wu/go-swevent/internal/netutil"
)

func TestGetFD(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.Nil(t, err)
	defer ln.Close()

	fd, err := netutil.GetFD(ln)
	assert.Nil(t, err)
	assert.True(t, fd >= 0)

	_, err = netutil.GetFD(ln.Addr())
	assert.NotNil(t, err)
}

func TestGetFDAfterClose(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.Nil(t, err)
	ln.Close()
	_, err = netutil.GetFD(ln)
	assert.NotNil(t, err)
}

func TestSetNonblock(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.Nil(t, err)
	defer ln.Close()
	fd, err := netutil.GetFD(ln)
	require.Nil(t, err)
	assert.Nil(t, netutil.SetNonblock(fd))
}

func TestAccept(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.Nil(t, err)
	defer ln.Close()
	fd, err := netutil.GetFD(ln)
	require.Nil(t, err)

	addr := ln.Addr()
	go func() {
		conn, err := net.Dial("tcp4", addr.String())
		require.Nil(t, err)
		defer conn.Close()
	}()

	time.Sleep(100 * time.Millisecond)
	afd, _, err := netutil.Accept(fd)
	assert.Nil(t, err)
	defer unix.Close(afd)

	_, _, err = netutil.Accept(-1)
	assert.NotNil(t, err)
}
