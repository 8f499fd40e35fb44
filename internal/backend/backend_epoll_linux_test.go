// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

//go:build linux
// +build linux

package backend_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuisheng-wu/go-swevent/internal/backend"
)

func TestEpollReadReady(t *testing.T) {
	r, w, err := os.Pipe()
	require.Nil(t, err)
	defer r.Close()
	defer w.Close()

	b, err := backend.NewEpoll(16)
	require.Nil(t, err)
	defer b.Close()
	assert.Equal(t, backend.Epoll, b.Name())

	rfd := int(r.Fd())
	require.Nil(t, b.Add(rfd, backend.Read))

	ready, err := b.Wait(50)
	require.Nil(t, err)
	assert.Empty(t, ready)

	_, err = w.Write([]byte("hi"))
	require.Nil(t, err)

	ready, err = b.Wait(1000)
	require.Nil(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, rfd, ready[0].FD)
	assert.Equal(t, backend.Read, ready[0].Mask&backend.Read)
}

func TestEpollAddDelUnion(t *testing.T) {
	r, w, err := os.Pipe()
	require.Nil(t, err)
	defer r.Close()
	defer w.Close()

	b, err := backend.NewEpoll(16)
	require.Nil(t, err)
	defer b.Close()

	rfd := int(r.Fd())
	require.Nil(t, b.Add(rfd, backend.Read))
	require.Nil(t, b.Add(rfd, backend.Write)) // should MOD, not replace.
	require.Nil(t, b.Del(rfd, backend.Write))
	// Read interest should survive the Del of Write.
	_, err = w.Write([]byte("x"))
	require.Nil(t, err)
	ready, err := b.Wait(1000)
	require.Nil(t, err)
	require.Len(t, ready, 1)
	assert.NotZero(t, ready[0].Mask&backend.Read)

	require.Nil(t, b.Del(rfd, backend.Read))
	require.Nil(t, b.Del(rfd, backend.Read)) // no-op, already gone.
}

func TestEpollInvalidArgs(t *testing.T) {
	b, err := backend.NewEpoll(16)
	require.Nil(t, err)
	defer b.Close()

	assert.NotNil(t, b.Add(-1, backend.Read))
	assert.NotNil(t, b.Add(0, 0))
}

func TestEpollWaitTimeout(t *testing.T) {
	b, err := backend.NewEpoll(16)
	require.Nil(t, err)
	defer b.Close()

	start := time.Now()
	ready, err := b.Wait(50)
	require.Nil(t, err)
	assert.Empty(t, ready)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}
