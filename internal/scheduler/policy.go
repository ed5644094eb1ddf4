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

package scheduler

import (
	"time"

	"github.com/tochemey/coactor/internal/validation"
)

// Tier describes one stage of the idle loop of a worker.
// A worker polls its own deque Attempts times, tries to steal every
// StealInterval polls and sleeps Sleep between polls.
type Tier struct {
	Attempts      int
	StealInterval int
	Sleep         time.Duration
}

// Policy is the three-tier idle strategy of the workers. Workers start
// aggressive, degrade to moderate then relaxed the longer they find no work.
// The relaxed tier runs until work shows up; its Attempts is ignored.
type Policy struct {
	Aggressive Tier
	Moderate   Tier
	Relaxed    Tier
}

// DefaultPolicy returns the default steal policy
func DefaultPolicy() Policy {
	return Policy{
		Aggressive: Tier{Attempts: 100, StealInterval: 10},
		Moderate:   Tier{Attempts: 500, StealInterval: 5, Sleep: 50 * time.Microsecond},
		Relaxed:    Tier{StealInterval: 1, Sleep: 10 * time.Millisecond},
	}
}

// Validate checks the policy
func (p Policy) Validate() error {
	return validation.New().
		AddAssertion(p.Aggressive.Attempts >= 0, "aggressive attempts must not be negative").
		AddAssertion(p.Moderate.Attempts >= 0, "moderate attempts must not be negative").
		AddAssertion(p.Aggressive.StealInterval > 0, "aggressive steal interval must be greater than zero").
		AddAssertion(p.Moderate.StealInterval > 0, "moderate steal interval must be greater than zero").
		AddAssertion(p.Relaxed.StealInterval > 0, "relaxed steal interval must be greater than zero").
		AddValidator(validation.NewPositiveDurationValidator("relaxed sleep", p.Relaxed.Sleep)).
		Validate()
}

func (p Policy) tiers() []Tier {
	return []Tier{p.Aggressive, p.Moderate, p.Relaxed}
}
