//
//
// Tencent is pleased to support the open source community by making tRPC available.
//
// Copyright (C) 2023 THL A29 Limited, a Tencent company.
// All rights reserved.
//
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the  Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.
//
//

// Package metrics provides dispatcher runtime monitoring data, such as how
// many events a wait call returned and how often timers/signals fired,
// useful for tuning ready-batch sizes and diagnosing busy-spin.
package metrics

import (
	"fmt"
	"time"

	"go.uber.org/atomic"
)

// All metrics definitions.
const (
	// WaitCalls counts Backend.Wait invocations.
	WaitCalls = iota
	// WaitTimeouts counts Wait calls that returned zero events.
	WaitTimeouts
	// WaitEvents counts the total number of {fd, mask} pairs Wait has
	// returned across all calls.
	WaitEvents
	// TimersFired counts timer callback invocations.
	TimersFired
	// SignalsDelivered counts signal callback invocations.
	SignalsDelivered
	// PrepareCalls counts prepare hook invocations.
	PrepareCalls
	// CheckCalls counts check hook invocations.
	CheckCalls
	// IOCallbacks counts I/O callback invocations.
	IOCallbacks
	Max
)

var metricsTable [Max]atomic.Uint64

// Add adds delta to the named counter.
func Add(name int, delta uint64) {
	if name >= Max {
		return
	}
	metricsTable[name].Add(delta)
}

// Get returns one metric counter.
func Get(name int) uint64 {
	if name >= Max {
		return 0
	}
	return metricsTable[name].Load()
}

// GetAll returns every metric counter.
func GetAll() [Max]uint64 {
	var m [Max]uint64
	for i := range metricsTable {
		m[i] = metricsTable[i].Load()
	}
	return m
}

// ShowMetricsOfPeriod shows metric info of duration d from now on. It
// blocks for d, then prints the delta.
func ShowMetricsOfPeriod(d time.Duration) {
	old := GetAll()
	<-time.After(d)
	cur := GetAll()
	var m [Max]uint64
	for i := range metricsTable {
		m[i] = cur[i] - old[i]
	}
	show(m)
}

// ShowMetrics shows current metric info on the console.
func ShowMetrics() {
	show(GetAll())
}

func show(m [Max]uint64) {
	fmt.Println("######### swevent metrics (", time.Now().Format("2006-01-02 15:04:05"), ") ###########")
	fmt.Printf("%-40s: %d\n", "# wait calls", m[WaitCalls])
	fmt.Printf("%-40s: %d\n", "# wait calls with zero events", m[WaitTimeouts])
	fmt.Printf("%-40s: %d\n", "# total ready events", m[WaitEvents])
	if m[WaitCalls] > 0 {
		fmt.Printf("%-40s: %.2f\n", "# average events per wait", float64(m[WaitEvents])/float64(m[WaitCalls]))
	}
	fmt.Printf("%-40s: %d\n", "# timer callbacks fired", m[TimersFired])
	fmt.Printf("%-40s: %d\n", "# signal callbacks fired", m[SignalsDelivered])
	fmt.Printf("%-40s: %d\n", "# prepare hook calls", m[PrepareCalls])
	fmt.Printf("%-40s: %d\n", "# check hook calls", m[CheckCalls])
	fmt.Printf("%-40s: %d\n", "# io callbacks fired", m[IOCallbacks])
	fmt.Printf("\n")
}
