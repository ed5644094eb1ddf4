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

package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestValidation(t *testing.T) {
	t.Run("With all errors", func(t *testing.T) {
		err := New().
			AddAssertion(false, "first").
			AddValidator(NewPositiveDurationValidator("interval", 0)).
			AddValidator(NewRangeValidator("factor", 2.0, 0, 1)).
			Validate()
		require.Error(t, err)
		assert.Len(t, multierr.Errors(err), 3)
	})
	t.Run("With fail fast", func(t *testing.T) {
		err := New(FailFast()).
			AddAssertion(true, "ok").
			AddValidator(NewRangeValidator("credit", -1, 0, 10)).
			AddAssertion(false, "never reached").
			Validate()
		require.EqualError(t, err, "credit must be within [0, 10], got -1")
	})
	t.Run("With valid values", func(t *testing.T) {
		err := New().
			AddValidator(NewPositiveDurationValidator("interval", time.Millisecond)).
			AddValidator(NewRangeValidator("credit", 5, 0, 10)).
			Validate()
		assert.NoError(t, err)
	})
}
