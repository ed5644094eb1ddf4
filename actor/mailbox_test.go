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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/coactor/errors"
)

type weighted struct {
	size int
}

func (w weighted) Category() Category { return DownstreamControl }
func (w weighted) TaskSize() int      { return w.size }

func push(t *testing.T, mailbox *Mailbox, payload any, priority Category) {
	t.Helper()
	require.NoError(t, mailbox.Push(newEnvelope(nil, newMessageID(priority), nil, payload, priority)))
}

func drainRound(mailbox *Mailbox, quantum int) []any {
	var payloads []any
	mailbox.NextRound(quantum, func(envelope *Envelope) TaskResult {
		payloads = append(payloads, envelope.Payload())
		return TaskResume
	})
	return payloads
}

func TestMailbox(t *testing.T) {
	t.Run("With weighted round robin across categories", func(t *testing.T) {
		mailbox := NewMailbox()
		for i := range 4 {
			push(t, mailbox, i, Normal)
			push(t, mailbox, -i-1, Urgent)
		}
		require.Equal(t, 8, mailbox.Len())
		assert.Equal(t, 4, mailbox.LenOf(Urgent))

		assert.Equal(t, []any{-1, -2, 0}, drainRound(mailbox, 1))
		assert.Equal(t, []any{-3, -4, 1}, drainRound(mailbox, 1))
		assert.Equal(t, []any{2}, drainRound(mailbox, 1))
		assert.Equal(t, []any{3}, drainRound(mailbox, 1))
		assert.True(t, mailbox.IsEmpty())
		assert.Empty(t, drainRound(mailbox, 1))
	})
	t.Run("With task size accumulating deficit", func(t *testing.T) {
		mailbox := NewMailbox()
		push(t, mailbox, weighted{size: 3}, Normal)
		push(t, mailbox, "ping", Normal)
		require.Equal(t, 1, mailbox.LenOf(DownstreamControl))

		assert.Equal(t, []any{"ping"}, drainRound(mailbox, 1))
		assert.Empty(t, drainRound(mailbox, 1))
		assert.Equal(t, []any{weighted{size: 3}}, drainRound(mailbox, 1))
	})
	t.Run("With an empty queue resetting its deficit", func(t *testing.T) {
		mailbox := NewMailbox()
		push(t, mailbox, "a", Normal)
		assert.Equal(t, []any{"a"}, drainRound(mailbox, 5))
		push(t, mailbox, "b", Normal)
		push(t, mailbox, "c", Normal)
		push(t, mailbox, "d", Normal)
		assert.Equal(t, []any{"b"}, drainRound(mailbox, 1))
		assert.Equal(t, []any{"c"}, drainRound(mailbox, 1))
		assert.Equal(t, []any{"d"}, drainRound(mailbox, 1))
	})
	t.Run("With consumer stopping the round", func(t *testing.T) {
		mailbox := NewMailbox()
		push(t, mailbox, "a", Normal)
		push(t, mailbox, "b", Normal)
		consumed, stopped := mailbox.NextRound(10, func(*Envelope) TaskResult { return TaskStop })
		assert.Equal(t, 1, consumed)
		assert.True(t, stopped)
		assert.Equal(t, 1, mailbox.Len())
	})
	t.Run("With close returning remaining envelopes", func(t *testing.T) {
		mailbox := NewMailbox()
		push(t, mailbox, "normal", Normal)
		push(t, mailbox, "urgent", Urgent)
		remaining := mailbox.Close()
		require.Len(t, remaining, 2)
		assert.Equal(t, "urgent", remaining[0].Payload())
		assert.Equal(t, "normal", remaining[1].Payload())
		assert.True(t, mailbox.IsClosed())
		assert.True(t, mailbox.IsEmpty())
		assert.Nil(t, mailbox.Close())

		err := mailbox.Push(newEnvelope(nil, newMessageID(Normal), nil, "late", Normal))
		assert.ErrorIs(t, err, gerrors.ErrMailboxClosed)
	})
	t.Run("With unknown category length", func(t *testing.T) {
		assert.Zero(t, NewMailbox().LenOf(Category(9)))
	})
}

func TestMessageID(t *testing.T) {
	t.Run("With plain message", func(t *testing.T) {
		id := newMessageID(UpstreamControl)
		assert.False(t, id.IsRequest())
		assert.False(t, id.IsResponse())
		assert.Equal(t, UpstreamControl, id.Category())
	})
	t.Run("With request and response", func(t *testing.T) {
		id := newRequestID(42, Urgent)
		assert.True(t, id.IsRequest())
		assert.False(t, id.IsResponse())
		assert.EqualValues(t, 42, id.RequestID())
		assert.Equal(t, Urgent, id.Category())

		reply := id.ResponseID()
		assert.False(t, reply.IsRequest())
		assert.True(t, reply.IsResponse())
		assert.EqualValues(t, 42, reply.RequestID())
		assert.Equal(t, Urgent, reply.Category())
	})
	t.Run("With category override", func(t *testing.T) {
		id := newRequestID(requestIDMask, Normal).WithCategory(DownstreamControl)
		assert.Equal(t, DownstreamControl, id.Category())
		assert.Equal(t, requestIDMask, id.RequestID())
		assert.True(t, id.IsRequest())
	})
	t.Run("With categorized payload", func(t *testing.T) {
		envelope := newEnvelope(nil, newMessageID(Urgent), nil, weighted{size: 4}, Urgent)
		assert.Equal(t, DownstreamControl, envelope.Category())
		assert.Equal(t, 4, envelope.taskSize())
		assert.Equal(t, 1, newEnvelope(nil, newMessageID(Normal), nil, weighted{}, Normal).taskSize())
	})
	t.Run("With category names", func(t *testing.T) {
		assert.Equal(t, "urgent", Urgent.String())
		assert.Equal(t, "normal", Normal.String())
		assert.Equal(t, "upstream-control", UpstreamControl.String())
		assert.Equal(t, "downstream-control", DownstreamControl.String())
		assert.Equal(t, "unknown", Category(7).String())
	})
}
