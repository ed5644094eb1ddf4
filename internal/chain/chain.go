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

package chain

import (
	"fmt"

	"go.uber.org/multierr"
)

type step struct {
	name string
	fn   func() error
}

// Chain runs named steps in insertion order.
// Steps are recorded by AddStep and only executed by Run.
type Chain struct {
	failFast bool
	steps    []step
}

// Option configures a Chain at creation time.
type Option func(*Chain)

// New creates a new Chain
func New(opts ...Option) *Chain {
	chain := &Chain{}
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// WithFailFast stops the chain at the first failing step.
func WithFailFast() Option {
	return func(c *Chain) { c.failFast = true }
}

// AddStep appends a step
func (c *Chain) AddStep(name string, fn func() error) *Chain {
	c.steps = append(c.steps, step{name: name, fn: fn})
	return c
}

// AddStepIf appends a step when the condition holds
func (c *Chain) AddStepIf(condition bool, name string, fn func() error) *Chain {
	if condition {
		return c.AddStep(name, fn)
	}
	return c
}

// Run executes the steps. Errors are annotated with the failing step name;
// without fail-fast every step runs and the errors are combined.
func (c *Chain) Run() error {
	var err error
	for _, s := range c.steps {
		if stepErr := s.fn(); stepErr != nil {
			stepErr = fmt.Errorf("%s: %w", s.name, stepErr)
			if c.failFast {
				return stepErr
			}
			err = multierr.Append(err, stepErr)
		}
	}
	return err
}
