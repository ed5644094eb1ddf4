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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idJob int

func (idJob) Resume(ExecutionUnit, int) ResumeResult { return Done }

func TestDeque(t *testing.T) {
	t.Run("With owner end LIFO", func(t *testing.T) {
		d := newDeque()
		for i := 0; i < 3; i++ {
			d.pushFront(idJob(i))
		}
		assert.Equal(t, idJob(2), d.popFront())
		assert.Equal(t, idJob(1), d.popFront())
		assert.Equal(t, idJob(0), d.popFront())
		assert.Nil(t, d.popFront())
	})
	t.Run("With steal end FIFO", func(t *testing.T) {
		d := newDeque()
		for i := 0; i < 3; i++ {
			d.pushFront(idJob(i))
		}
		// the oldest local job is stolen first
		assert.Equal(t, idJob(0), d.popBack())
		d.pushBack(idJob(9))
		assert.Equal(t, idJob(9), d.popBack())
		assert.Equal(t, 2, d.len())
	})
	t.Run("With growth and shrink", func(t *testing.T) {
		d := newDeque()
		const total = 100
		for i := 0; i < total; i++ {
			d.pushBack(idJob(i))
		}
		require.Equal(t, total, d.len())
		require.GreaterOrEqual(t, len(d.items), total)

		for i := 0; i < total; i++ {
			require.Equal(t, idJob(i), d.popFront())
		}
		assert.Zero(t, d.len())
		assert.Equal(t, minDequeLen, len(d.items))
	})
}
