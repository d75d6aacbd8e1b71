// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/blockd/fault"
	"github.com/bitmark-inc/blockd/ratelimit"
)

func TestLimit(t *testing.T) {
	limiter := rate.NewLimiter(100, 1)

	start := time.Now()
	for i := 0; i < 5; i += 1 {
		assert.NoError(t, ratelimit.Limit(limiter), "limit %d", i)
	}
	assert.True(t, time.Since(start) >= 30*time.Millisecond, "calls were delayed")
}

func TestLimitN(t *testing.T) {
	limiter := rate.NewLimiter(1000, 10)

	assert.NoError(t, ratelimit.LimitN(limiter, 5, 10), "valid count")
	assert.Equal(t, fault.InvalidCount, ratelimit.LimitN(limiter, 0, 10), "zero count")
	assert.Equal(t, fault.InvalidCount, ratelimit.LimitN(limiter, 11, 10), "over maximum")

	small := rate.NewLimiter(1, 2)
	assert.Equal(t, fault.RateLimiting, ratelimit.LimitN(small, 3, 10), "more than the burst")
}
