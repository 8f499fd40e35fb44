// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

package swevent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHookRegistrationOrder(t *testing.T) {
	c, err := New(WithBackend(BackendSelect))
	require.Nil(t, err)
	defer c.Free()

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		_, err := c.PrepareAdd(func(*Hook, interface{}) { order = append(order, i) }, nil)
		require.Nil(t, err)
	}
	c.prepares.invoke()
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestHookCapacityExceeded(t *testing.T) {
	c, err := New(WithBackend(BackendSelect))
	require.Nil(t, err)
	defer c.Free()

	for i := 0; i < maxHooks; i++ {
		_, err := c.CheckAdd(func(*Hook, interface{}) {}, nil)
		require.Nil(t, err)
	}
	_, err = c.CheckAdd(func(*Hook, interface{}) {}, nil)
	assert.Equal(t, ErrCapacityExceeded, err)
}

func TestHookDelCompactsPreservingOrder(t *testing.T) {
	c, err := New(WithBackend(BackendSelect))
	require.Nil(t, err)
	defer c.Free()

	var handles []*Hook
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		h, err := c.PrepareAdd(func(*Hook, interface{}) { order = append(order, i) }, nil)
		require.Nil(t, err)
		handles = append(handles, h)
	}
	c.PrepareDel(handles[1])
	c.prepares.invoke()
	assert.Equal(t, []int{0, 2}, order)
}

func TestHookDelUnregisteredIsNoop(t *testing.T) {
	c, err := New(WithBackend(BackendSelect))
	require.Nil(t, err)
	defer c.Free()

	h := &Hook{}
	assert.NotPanics(t, func() { c.PrepareDel(h) })
}
