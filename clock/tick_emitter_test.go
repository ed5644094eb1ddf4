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

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickEmitter(t *testing.T) {
	t.Run("With invalid interval", func(t *testing.T) {
		assert.Panics(t, func() { NewTickEmitter(epoch, 0) })
	})
	t.Run("With ticks reported once", func(t *testing.T) {
		emitter := NewTickEmitter(epoch, 5*time.Millisecond)
		var ticks []uint64
		emitter.Update(epoch.Add(12*time.Millisecond), func(tick uint64) { ticks = append(ticks, tick) })
		assert.Equal(t, []uint64{1, 2}, ticks)

		ticks = nil
		emitter.Update(epoch.Add(14*time.Millisecond), func(tick uint64) { ticks = append(ticks, tick) })
		assert.Empty(t, ticks)

		emitter.Update(epoch.Add(15*time.Millisecond), func(tick uint64) { ticks = append(ticks, tick) })
		assert.Equal(t, []uint64{3}, ticks)
	})
	t.Run("With timeouts bitmask", func(t *testing.T) {
		// credit round every 2 ticks, flush every tick
		emitter := NewTickEmitter(epoch, 5*time.Millisecond)
		assert.EqualValues(t, 0b10, emitter.Timeouts(epoch.Add(5*time.Millisecond), 2, 1))
		assert.EqualValues(t, 0b11, emitter.Timeouts(epoch.Add(10*time.Millisecond), 2, 1))
		assert.EqualValues(t, 0, emitter.Timeouts(epoch.Add(12*time.Millisecond), 2, 1))
		assert.EqualValues(t, 0b11, emitter.Timeouts(epoch.Add(40*time.Millisecond), 2, 1))
		assert.EqualValues(t, 0, emitter.Timeouts(epoch.Add(45*time.Millisecond), 0))
	})
	t.Run("With next timeout", func(t *testing.T) {
		emitter := NewTickEmitter(epoch, 5*time.Millisecond)
		assert.Equal(t, epoch.Add(10*time.Millisecond), emitter.NextTimeout(epoch, 2, 4))
		assert.Equal(t, epoch.Add(20*time.Millisecond), emitter.NextTimeout(epoch.Add(12*time.Millisecond), 4))
		assert.Equal(t, epoch.Add(5*time.Millisecond), emitter.NextTimeout(epoch))
		assert.Equal(t, 5*time.Millisecond, emitter.Interval())

		emitter.Start(epoch.Add(time.Second))
		assert.Equal(t, epoch.Add(time.Second+5*time.Millisecond), emitter.NextTimeout(epoch.Add(time.Second), 1))
	})
}
