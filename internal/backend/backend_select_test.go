// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

//go:build linux || freebsd || dragonfly || darwin
// +build linux freebsd dragonfly darwin

package backend_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuisheng-wu/go-swevent/internal/backend"
)

func TestSelectReadReady(t *testing.T) {
	r, w, err := os.Pipe()
	require.Nil(t, err)
	defer r.Close()
	defer w.Close()

	b := backend.NewSelect()
	defer b.Close()
	assert.Equal(t, backend.Select, b.Name())

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
	assert.Equal(t, backend.Read, ready[0].Mask)
}

func TestSelectWriteReady(t *testing.T) {
	r, w, err := os.Pipe()
	require.Nil(t, err)
	defer r.Close()
	defer w.Close()

	b := backend.NewSelect()
	defer b.Close()

	wfd := int(w.Fd())
	require.Nil(t, b.Add(wfd, backend.Write))

	ready, err := b.Wait(1000)
	require.Nil(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, wfd, ready[0].FD)
	assert.Equal(t, backend.Write, ready[0].Mask)
}

func TestSelectDelStopsReporting(t *testing.T) {
	r, w, err := os.Pipe()
	require.Nil(t, err)
	defer r.Close()
	defer w.Close()

	b := backend.NewSelect()
	defer b.Close()

	rfd := int(r.Fd())
	require.Nil(t, b.Add(rfd, backend.Read))
	require.Nil(t, b.Del(rfd, backend.Read))
	require.Nil(t, b.Del(rfd, backend.Read)) // no-op, already gone.

	_, err = w.Write([]byte("x"))
	require.Nil(t, err)

	ready, err := b.Wait(50)
	require.Nil(t, err)
	assert.Empty(t, ready)
}

func TestSelectWaitTimeout(t *testing.T) {
	b := backend.NewSelect()
	defer b.Close()

	start := time.Now()
	ready, err := b.Wait(50)
	require.Nil(t, err)
	assert.Empty(t, ready)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestSelectInvalidArgs(t *testing.T) {
	b := backend.NewSelect()
	defer b.Close()

	assert.NotNil(t, b.Add(-1, backend.Read))
	assert.NotNil(t, b.Add(0, 0))
}

func TestSelectCapacityExceeded(t *testing.T) {
	b := backend.NewSelect()
	defer b.Close()

	err := b.Add(1<<20, backend.Read)
	assert.NotNil(t, err)
}
