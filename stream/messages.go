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

import "github.com/tochemey/coactor/actor"

// Slot identifies a path within one stream manager. Slots are assigned in
// increasing order and never reused. Zero is never assigned.
type Slot uint64

// Slots addresses a path on both ends: the sender's slot and the slot of the
// receiving manager.
type Slots struct {
	Sender   Slot
	Receiver Slot
}

// invert returns the slots as seen by the peer
func (s Slots) invert() Slots {
	return Slots{Sender: s.Receiver, Receiver: s.Sender}
}

// Open asks a producer to create an outbound path towards the sender.
// Receiver is zero since the producer has not assigned a slot yet.
type Open struct {
	Slots Slots
}

// AckHandshake accepts a Handshake and grants the initial credit
type AckHandshake struct {
	Slots            Slots
	Credit           int
	DesiredBatchSize int
}

// AckBatch grants credit to a producer
type AckBatch struct {
	Slots            Slots
	Credit           int
	DesiredBatchSize int
	// LastBatchID is the id of the last batch the consumer processed
	LastBatchID uint64
}

// Drop gracefully closes a path from the consumer side
type Drop struct {
	Slots Slots
}

// ForcedDrop closes a path from the consumer side with an error
type ForcedDrop struct {
	Slots  Slots
	Reason error
}

// Handshake offers an inbound path to a consumer
type Handshake struct {
	Slots Slots
}

// AckOpen accepts an Open request
type AckOpen struct {
	Slots Slots
}

// Batch carries items from a producer to a consumer
type Batch struct {
	Slots Slots
	ID    uint64
	Items []any
}

// Close gracefully closes a path from the producer side
type Close struct {
	Slots Slots
}

// ForcedClose closes a path from the producer side with an error
type ForcedClose struct {
	Slots  Slots
	Reason error
}

// enforce compilation error
var (
	_ actor.Categorized = (*Open)(nil)
	_ actor.Categorized = (*AckHandshake)(nil)
	_ actor.Categorized = (*AckBatch)(nil)
	_ actor.Categorized = (*Drop)(nil)
	_ actor.Categorized = (*ForcedDrop)(nil)
	_ actor.Categorized = (*Handshake)(nil)
	_ actor.Categorized = (*AckOpen)(nil)
	_ actor.Categorized = (*Batch)(nil)
	_ actor.Categorized = (*Close)(nil)
	_ actor.Categorized = (*ForcedClose)(nil)
	_ actor.TaskSizer   = (*Batch)(nil)
)

func (*Open) Category() actor.Category         { return actor.UpstreamControl }
func (*AckHandshake) Category() actor.Category { return actor.UpstreamControl }
func (*AckBatch) Category() actor.Category     { return actor.UpstreamControl }
func (*Drop) Category() actor.Category         { return actor.UpstreamControl }
func (*ForcedDrop) Category() actor.Category   { return actor.UpstreamControl }
func (*Handshake) Category() actor.Category    { return actor.DownstreamControl }
func (*AckOpen) Category() actor.Category      { return actor.DownstreamControl }
func (*Batch) Category() actor.Category        { return actor.DownstreamControl }
func (*Close) Category() actor.Category        { return actor.DownstreamControl }
func (*ForcedClose) Category() actor.Category  { return actor.DownstreamControl }

// TaskSize weighs a batch by its number of items
func (b *Batch) TaskSize() int {
	return max(1, len(b.Items))
}
