// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

package swevent

import "errors"

// Sentinel errors returned by the public API, matching spec §7's taxonomy of
// kinds rather than introducing one type per call site.
var (
	// ErrInvalidArgument covers negative fds, unrecognized mask bits,
	// out-of-range signal numbers, and non-positive timer timeouts.
	ErrInvalidArgument = errors.New("swevent: invalid argument")

	// ErrCapacityExceeded is returned by PrepareAdd/CheckAdd when the hook
	// array is full. A backend-specific fd limit is reported by IOAdd as
	// the backend's own error, not as ErrCapacityExceeded.
	ErrCapacityExceeded = errors.New("swevent: capacity exceeded")

	// ErrSignalSlotTaken is returned by SignalAdd when a different
	// Context already owns the process-wide signal slot.
	ErrSignalSlotTaken = errors.New("swevent: signal slot owned by a different context")

	// ErrNotFound is returned by a delete call whose handle is not
	// currently registered (already deleted, or never existed).
	ErrNotFound = errors.New("swevent: handle not found")

	// ErrLoopFailed is returned by Loop when the backend's Wait call
	// fails persistently (not EINTR/EAGAIN).
	ErrLoopFailed = errors.New("swevent: backend wait failed")

	// ErrClosed is returned by Free when the Context has already been
	// freed. Other Context methods do not check for a freed Context.
	ErrClosed = errors.New("swevent: context is closed")
)
