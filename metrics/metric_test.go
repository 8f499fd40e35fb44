// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tnet source code is licensed under the Apache 2.0 License,
// A copy of the Apache 2.0 License can be found in the LICENSE file.

package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shuisheng-wu/go-swevent/metrics"
)

func TestMetrics(t *testing.T) {
	metrics.Add(metrics.WaitCalls, 1)
	assert.Equal(t, uint64(1), metrics.Get(metrics.WaitCalls))
	metrics.Add(metrics.WaitCalls, 1)
	assert.Equal(t, uint64(2), metrics.Get(metrics.WaitCalls))
	metrics.Add(metrics.Max+1, 1)
	metrics.Add(metrics.WaitTimeouts, 8)
	metrics.Add(metrics.WaitEvents, 99)
	metrics.Add(metrics.TimersFired, 191)
	metrics.Add(metrics.SignalsDelivered, 1191)
	metrics.Add(metrics.PrepareCalls, 191)
	metrics.Add(metrics.CheckCalls, 191)
	metrics.Add(metrics.IOCallbacks, 1191)
	assert.Equal(t, uint64(0), metrics.Get(metrics.Max+1))
	metrics.ShowMetrics()
	metrics.ShowMetricsOfPeriod(time.Millisecond)
}
