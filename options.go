// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

package swevent

import "github.com/shuisheng-wu/go-swevent/internal/backend"

// BackendKind selects which concrete readiness-polling backend a Context
// uses, mirroring spec §4.2's three variants. The zero value means
// "auto-detect for this OS".
type BackendKind int

// The three variants named in spec §4.2, plus the auto-detect default.
const (
	BackendAuto BackendKind = iota
	BackendEpoll
	BackendKqueue
	BackendSelect
)

// Option configures a Context at construction time, following the
// teacher's functional-options shape (Option{f func(*options)}).
type Option struct {
	f func(*options)
}

type options struct {
	ioTableCapacity int
	backend         BackendKind
	waitBatch       int
}

const (
	defaultIOTableCapacity = 64
	defaultWaitBatch       = 1024
)

func (o *options) setDefault() {
	o.ioTableCapacity = defaultIOTableCapacity
	o.backend = BackendAuto
	o.waitBatch = defaultWaitBatch
}

// WithIOTableCapacity sets the initial size of the dense, fd-indexed
// IOEntry table (spec §3). The table still doubles on demand; this only
// avoids early reallocation for a caller that knows its expected fd range.
func WithIOTableCapacity(n int) Option {
	return Option{func(o *options) {
		if n > 0 {
			o.ioTableCapacity = n
		}
	}}
}

// WithBackend pins the readiness-polling backend instead of auto-detecting
// one for the current OS. Passing a kind unavailable on this platform
// surfaces as an error from New.
func WithBackend(kind BackendKind) Option {
	return Option{func(o *options) {
		o.backend = kind
	}}
}

// WithWaitBatch sets how many ready {fd, mask} pairs a single backend Wait
// call may retrieve, the Go equivalent of the original's fixed-size
// epoll_wait/kevent event array.
func WithWaitBatch(n int) Option {
	return Option{func(o *options) {
		if n > 0 {
			o.waitBatch = n
		}
	}}
}

// newBackend constructs the concrete Backend selected by opts, resolving
// BackendAuto per-OS via the build-tag-gated newAutoBackend in
// platform_linux.go / platform_bsd.go.
func newBackend(o *options) (backend.Backend, error) {
	switch o.backend {
	case BackendEpoll:
		return newEpollBackend(o.waitBatch)
	case BackendKqueue:
		return newKqueueBackend(o.waitBatch)
	case BackendSelect:
		return backend.NewSelect(), nil
	default:
		return newAutoBackend(o.waitBatch)
	}
}
