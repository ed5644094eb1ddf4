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

package workerpool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	gerrors "github.com/tochemey/coactor/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestHub(t *testing.T) {
	t.Run("With Run before Start", func(t *testing.T) {
		hub := NewHub()
		assert.ErrorIs(t, hub.Run(func() {}), gerrors.ErrSchedulerNotStarted)
	})
	t.Run("With idle workers reused", func(t *testing.T) {
		hub := NewHub()
		hub.Start()

		const tasks = 4
		release := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(tasks)
		for i := 0; i < tasks; i++ {
			require.NoError(t, hub.Run(func() {
				defer wg.Done()
				<-release
			}))
		}

		require.Eventually(t, func() bool { return hub.Spawned() == tasks }, time.Second, 5*time.Millisecond)
		close(release)
		wg.Wait()
		require.Eventually(t, func() bool { return hub.Idle() == tasks }, time.Second, 5*time.Millisecond)

		done := make(chan struct{})
		require.NoError(t, hub.Run(func() { close(done) }))
		<-done
		assert.Equal(t, tasks, hub.Spawned())

		hub.Stop()
		hub.Await()
		assert.Zero(t, hub.Spawned())
		assert.ErrorIs(t, hub.Run(func() {}), gerrors.ErrSchedulerStopped)
	})
	t.Run("With busy worker finishing after Stop", func(t *testing.T) {
		hub := NewHub()
		hub.Start()

		release := make(chan struct{})
		require.NoError(t, hub.Run(func() { <-release }))
		hub.Stop()
		close(release)
		hub.Await()
		assert.Zero(t, hub.Spawned())
	})
	t.Run("With idle workers retired", func(t *testing.T) {
		hub := NewHub(WithIdleTimeout(20 * time.Millisecond))
		hub.Start()

		require.NoError(t, hub.Run(func() {}))
		require.Eventually(t, func() bool { return hub.Spawned() == 0 }, time.Second, 10*time.Millisecond)

		// the recycled slot hosts the next worker
		done := make(chan struct{})
		require.NoError(t, hub.Run(func() { close(done) }))
		<-done

		hub.Stop()
		hub.Await()
	})
}
