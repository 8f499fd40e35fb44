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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuisheng-wu/go-swevent/internal/backend"
)

// TestBackendEquivalence exercises epoll and select against the same pipe and
// requires both to report the same {fd, mask} for identical interest, per
// the "backend switch equivalence" scenario.
func TestBackendEquivalence(t *testing.T) {
	backends := map[backend.Name]func() (backend.Backend, error){
		backend.Epoll: func() (backend.Backend, error) { return backend.NewEpoll(16) },
		backend.Select: func() (backend.Backend, error) { return backend.NewSelect(), nil },
	}

	for name, ctor := range backends {
		name, ctor := name, ctor
		t.Run(string(name), func(t *testing.T) {
			r, w, err := os.Pipe()
			require.Nil(t, err)
			defer r.Close()
			defer w.Close()

			b, err := ctor()
			require.Nil(t, err)
			defer b.Close()

			rfd := int(r.Fd())
			require.Nil(t, b.Add(rfd, backend.Read))

			ready, err := b.Wait(50)
			require.Nil(t, err)
			assert.Empty(t, ready)

			_, err = w.Write([]byte("x"))
			require.Nil(t, err)

			ready, err = b.Wait(1000)
			require.Nil(t, err)
			require.Len(t, ready, 1)
			assert.Equal(t, rfd, ready[0].FD)
			assert.NotZero(t, ready[0].Mask&backend.Read)
		})
	}
}
