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
	"github.com/tochemey/coactor/log"
)

// Option is the interface that applies a Coordinator option.
type Option interface {
	// Apply sets the Option value of a Coordinator.
	Apply(c *Coordinator)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(c *Coordinator)

// Apply applies the Coordinator's option
func (f OptionFunc) Apply(c *Coordinator) {
	f(c)
}

// WithWorkers sets the number of workers
func WithWorkers(count int) Option {
	return OptionFunc(func(c *Coordinator) {
		if count > 0 {
			c.numWorkers = count
		}
	})
}

// WithMaxThroughput bounds the number of messages a job may process per Resume
func WithMaxThroughput(max int) Option {
	return OptionFunc(func(c *Coordinator) {
		if max > 0 {
			c.maxThroughput = max
		}
	})
}

// WithPolicy sets the steal policy
func WithPolicy(policy Policy) Option {
	return OptionFunc(func(c *Coordinator) {
		c.policy = policy
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(c *Coordinator) {
		c.logger = logger
	})
}
