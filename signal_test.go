// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

package swevent

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalDeliveryCounterSelfDeletes(t *testing.T) {
	c, err := New(WithBackend(BackendSelect))
	require.Nil(t, err)
	defer c.Free()

	remaining := 3
	require.Nil(t, c.SignalAdd(int(syscall.SIGUSR1), func(signo int, arg interface{}) {
		remaining--
		if remaining == 0 {
			assert.Nil(t, c.SignalDel(signo))
			c.LoopExit()
		}
	}, nil))

	done := make(chan error, 1)
	go func() { done <- c.Loop() }()

	for i := 0; i < 3; i++ {
		time.Sleep(10 * time.Millisecond)
		require.Nil(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))
	}

	select {
	case err := <-done:
		require.Nil(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("loop did not exit in time")
	}
	assert.Equal(t, 0, remaining)
}

func TestSignalSlotExclusiveAcrossContexts(t *testing.T) {
	c1, err := New(WithBackend(BackendSelect))
	require.Nil(t, err)
	defer c1.Free()
	c2, err := New(WithBackend(BackendSelect))
	require.Nil(t, err)
	defer c2.Free()

	require.Nil(t, c1.SignalAdd(int(syscall.SIGUSR2), func(int, interface{}) {}, nil))
	err = c2.SignalAdd(int(syscall.SIGUSR2), func(int, interface{}) {}, nil)
	assert.Equal(t, ErrSignalSlotTaken, err)
}

func TestSignalAddInvalidSigno(t *testing.T) {
	c, err := New(WithBackend(BackendSelect))
	require.Nil(t, err)
	defer c.Free()

	assert.Equal(t, ErrInvalidArgument, c.SignalAdd(-1, func(int, interface{}) {}, nil))
	assert.Equal(t, ErrInvalidArgument, c.SignalAdd(maxSignals, func(int, interface{}) {}, nil))
}

func TestSignalDelUnregisteredIsNotFound(t *testing.T) {
	c, err := New(WithBackend(BackendSelect))
	require.Nil(t, err)
	defer c.Free()

	require.Nil(t, c.SignalAdd(int(syscall.SIGUSR1), func(int, interface{}) {}, nil))
	assert.Equal(t, ErrNotFound, c.SignalDel(int(syscall.SIGUSR2)))
}
