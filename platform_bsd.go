// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

//go:build freebsd || dragonfly || darwin
// +build freebsd dragonfly darwin

package swevent

import "github.com/shuisheng-wu/go-swevent/internal/backend"

func newEpollBackend(batch int) (backend.Backend, error) {
	return nil, ErrInvalidArgument
}

func newKqueueBackend(batch int) (backend.Backend, error) { return backend.NewKqueue(batch) }

func newAutoBackend(batch int) (backend.Backend, error) { return backend.NewKqueue(batch) }
