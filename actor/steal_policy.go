// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

import (
	"time"

	"github.com/tochemey/coactor/internal/scheduler"
)

// StealTier is one stage of the idle loop of a scheduler worker.
// A worker polls its own queue Attempts times, tries to steal from a peer
// every StealInterval polls and sleeps Sleep between polls.
type StealTier struct {
	Attempts      int
	StealInterval int
	Sleep         time.Duration
}

// StealPolicy is the idle strategy of the scheduler workers. Workers start
// aggressive and degrade to moderate then relaxed the longer they find no
// work. The relaxed tier lasts until work shows up.
type StealPolicy struct {
	Aggressive StealTier
	Moderate   StealTier
	Relaxed    StealTier
}

// DefaultStealPolicy returns the default idle strategy
func DefaultStealPolicy() StealPolicy {
	policy := scheduler.DefaultPolicy()
	return StealPolicy{
		Aggressive: StealTier(policy.Aggressive),
		Moderate:   StealTier(policy.Moderate),
		Relaxed:    StealTier(policy.Relaxed),
	}
}

func (p StealPolicy) toScheduler() scheduler.Policy {
	return scheduler.Policy{
		Aggressive: scheduler.Tier(p.Aggressive),
		Moderate:   scheduler.Tier(p.Moderate),
		Relaxed:    scheduler.Tier(p.Relaxed),
	}
}
