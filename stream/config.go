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

package stream

import (
	"math"
	"time"

	"github.com/tochemey/coactor/internal/validation"
)

const (
	// DefaultCreditRoundInterval is the period between two credit rounds
	DefaultCreditRoundInterval = 10 * time.Millisecond
	// DefaultMaxBatchDelay is how long a partial batch may wait before it is flushed
	DefaultMaxBatchDelay = 5 * time.Millisecond
	// DefaultDesiredBatchComplexity is the processing time a consumer aims at per batch
	DefaultDesiredBatchComplexity = 50 * time.Microsecond
	// DefaultInitialCredit is granted on a new inbound path before any measurement
	DefaultInitialCredit = 50
	// DefaultMaxCredit caps the credit a single path may hold
	DefaultMaxCredit = 1000
	// DefaultMaxBufferedItems caps the outbound buffer of sources and stages
	DefaultMaxBufferedItems = 256
	// DefaultSmoothingFactor is the weight of the newest sample in the moving average
	DefaultSmoothingFactor = 0.25
)

// Config holds the credit policy of a stream manager
type Config struct {
	CreditRoundInterval    time.Duration
	MaxBatchDelay          time.Duration
	DesiredBatchComplexity time.Duration
	InitialCredit          int
	MaxCredit              int
	MaxBufferedItems       int
	SmoothingFactor        float64
}

// DefaultConfig returns the default credit policy
func DefaultConfig() Config {
	return Config{
		CreditRoundInterval:    DefaultCreditRoundInterval,
		MaxBatchDelay:          DefaultMaxBatchDelay,
		DesiredBatchComplexity: DefaultDesiredBatchComplexity,
		InitialCredit:          DefaultInitialCredit,
		MaxCredit:              DefaultMaxCredit,
		MaxBufferedItems:       DefaultMaxBufferedItems,
		SmoothingFactor:        DefaultSmoothingFactor,
	}
}

// Validate checks the policy and reports every violation
func (c Config) Validate() error {
	return validation.New().
		AddValidator(validation.NewPositiveDurationValidator("credit round interval", c.CreditRoundInterval)).
		AddValidator(validation.NewPositiveDurationValidator("max batch delay", c.MaxBatchDelay)).
		AddValidator(validation.NewPositiveDurationValidator("desired batch complexity", c.DesiredBatchComplexity)).
		AddValidator(validation.NewRangeValidator("max credit", c.MaxCredit, 1, math.MaxInt32)).
		AddValidator(validation.NewRangeValidator("initial credit", c.InitialCredit, 1, max(c.MaxCredit, 1))).
		AddValidator(validation.NewRangeValidator("max buffered items", c.MaxBufferedItems, 1, math.MaxInt32)).
		AddAssertion(c.SmoothingFactor > 0 && c.SmoothingFactor <= 1, "smoothing factor must be within (0, 1]").
		Validate()
}

// tickInterval returns the greatest common divisor of the credit round
// interval and the batch delay
func (c Config) tickInterval() time.Duration {
	a, b := c.CreditRoundInterval, c.MaxBatchDelay
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a Manager.
	Apply(*Manager)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Manager)

// Apply applies the Manager's option
func (f OptionFunc) Apply(m *Manager) {
	f(m)
}

// WithConfig sets the credit policy
func WithConfig(config Config) Option {
	return OptionFunc(func(m *Manager) {
		m.config = config
	})
}

// WithOnDone registers a function called once when the manager is done.
// The error is nil when every path closed gracefully.
func WithOnDone(fn func(err error)) Option {
	return OptionFunc(func(m *Manager) {
		m.onDone = fn
	})
}
