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

package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMpsc(t *testing.T) {
	t.Run("With Push/Pop", func(t *testing.T) {
		q := NewMpsc[int]()
		require.True(t, q.IsEmpty())
		for j := 0; j < 100; j++ {
			_, ok := q.Pop()
			require.False(t, ok)
			require.Zero(t, q.Len())

			for i := 0; i < j; i++ {
				q.Push(i)
			}

			for i := 0; i < j; i++ {
				x, ok := q.Pop()
				require.True(t, ok)
				require.Equal(t, i, x)
			}
		}
	})
	t.Run("With Peek", func(t *testing.T) {
		q := NewMpsc[string]()
		_, ok := q.Peek()
		assert.False(t, ok)

		q.Push("a")
		q.Push("b")
		head, ok := q.Peek()
		require.True(t, ok)
		assert.Equal(t, "a", head)
		assert.EqualValues(t, 2, q.Len())

		value, _ := q.Pop()
		assert.Equal(t, "a", value)
		head, _ = q.Peek()
		assert.Equal(t, "b", head)
	})
	t.Run("With concurrent producers", func(t *testing.T) {
		const producers = 8
		const perProducer = 1000

		q := NewMpsc[int]()
		var wg sync.WaitGroup
		wg.Add(producers)
		for p := 0; p < producers; p++ {
			go func(p int) {
				defer wg.Done()
				for i := 0; i < perProducer; i++ {
					q.Push(p*perProducer + i)
				}
			}(p)
		}
		wg.Wait()

		last := make(map[int]int, producers)
		count := 0
		for {
			value, ok := q.Pop()
			if !ok {
				break
			}
			producer := value / perProducer
			if prev, seen := last[producer]; seen {
				require.Greater(t, value, prev)
			}
			last[producer] = value
			count++
		}
		assert.Equal(t, producers*perProducer, count)
		assert.True(t, q.IsEmpty())
	})
}
