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
	"time"

	"github.com/tochemey/coactor/actor"
	gerrors "github.com/tochemey/coactor/errors"
)

// InboundPath is the consumer end of a path
type InboundPath struct {
	slot             Slot
	peerSlot         Slot
	peer             *actor.PID
	assignedCredit   int
	desiredBatchSize int
	lastBatchID      uint64
	stats            *Stats
}

func newInboundPath(slot Slot, peer *actor.PID, smoothing float64) *InboundPath {
	return &InboundPath{
		slot:  slot,
		peer:  peer,
		stats: NewStats(smoothing),
	}
}

// Slot returns the local slot of the path
func (p *InboundPath) Slot() Slot {
	return p.slot
}

// PeerSlot returns the slot of the producer. It is zero until the producer answered.
func (p *InboundPath) PeerSlot() Slot {
	return p.peerSlot
}

// Peer returns the producer
func (p *InboundPath) Peer() *actor.PID {
	return p.peer
}

// AssignedCredit returns the credit granted and not yet used by the producer
func (p *InboundPath) AssignedCredit() int {
	return p.assignedCredit
}

// Stats returns the processing statistics of the path
func (p *InboundPath) Stats() *Stats {
	return p.stats
}

func (p *InboundPath) slots() Slots {
	return Slots{Sender: p.slot, Receiver: p.peerSlot}
}

// received accounts for a batch of n items. A producer overrunning its credit
// is a protocol violation.
func (p *InboundPath) received(id uint64, n int) {
	if n > p.assignedCredit {
		panic(&gerrors.CreditViolationError{Slot: uint64(p.slot), Requested: n, Available: p.assignedCredit})
	}
	p.assignedCredit -= n
	p.lastBatchID = id
}

// OutboundPath is the producer end of a path
type OutboundPath struct {
	slot             Slot
	peerSlot         Slot
	peer             *actor.PID
	openCredit       int
	desiredBatchSize int
	nextBatchID      uint64
	lastEmit         time.Time
}

func newOutboundPath(slot Slot, peer *actor.PID, now time.Time) *OutboundPath {
	return &OutboundPath{
		slot:             slot,
		peer:             peer,
		desiredBatchSize: 1,
		nextBatchID:      1,
		lastEmit:         now,
	}
}

// Slot returns the local slot of the path
func (p *OutboundPath) Slot() Slot {
	return p.slot
}

// PeerSlot returns the slot of the consumer. It is zero until the consumer answered.
func (p *OutboundPath) PeerSlot() Slot {
	return p.peerSlot
}

// Peer returns the consumer
func (p *OutboundPath) Peer() *actor.PID {
	return p.peer
}

// OpenCredit returns the number of items the path may still emit
func (p *OutboundPath) OpenCredit() int {
	return p.openCredit
}

// DesiredBatchSize returns the batch size requested by the consumer
func (p *OutboundPath) DesiredBatchSize() int {
	return p.desiredBatchSize
}

// Grant adds k items of credit. Non positive grants are ignored.
func (p *OutboundPath) Grant(k int) {
	if k > 0 {
		p.openCredit += k
	}
}

func (p *OutboundPath) slots() Slots {
	return Slots{Sender: p.slot, Receiver: p.peerSlot}
}

// consume takes n items of credit for a batch
func (p *OutboundPath) consume(n int) {
	if n > p.openCredit {
		panic(&gerrors.CreditViolationError{Slot: uint64(p.slot), Requested: n, Available: p.openCredit})
	}
	p.openCredit -= n
}

// ready reports whether the path can carry a batch
func (p *OutboundPath) ready() bool {
	return p.peerSlot != 0 && p.openCredit > 0
}
