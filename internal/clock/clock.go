// Tencent is pleased to support the open source community by making tnet available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

// Package clock provides the millisecond-resolution time source the loop
// snapshots once per iteration.
package clock

import "time"

// NowMS returns milliseconds since the Unix epoch, the equivalent of the
// original's sw_ev_gettime_ms (gettimeofday truncated to milliseconds).
func NowMS() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}
