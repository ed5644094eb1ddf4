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
	"sync"
	"time"

	"github.com/Workiva/go-datastructures/queue"
	mapset "github.com/deckarep/golang-set/v2"
)

type entryKind int

const (
	ordinaryTimeout entryKind = iota
	multiTimeout
	requestTimeout
	scheduledMessage
)

type entry struct {
	due       time.Time
	seq       uint64
	kind      entryKind
	receiver  Receiver
	label     string
	id        uint64
	message   any
	cancelled bool
}

var _ queue.Item = (*entry)(nil)

// Compare orders entries by due point then by insertion sequence
func (e *entry) Compare(other queue.Item) int {
	o := other.(*entry)
	switch {
	case e.due.Before(o.due):
		return -1
	case e.due.After(o.due):
		return 1
	case e.seq < o.seq:
		return -1
	case e.seq > o.seq:
		return 1
	default:
		return 0
	}
}

func (e *entry) payload() any {
	switch e.kind {
	case ordinaryTimeout, multiTimeout:
		return &TimeoutMsg{Label: e.label, ID: e.id}
	case requestTimeout:
		return &RequestTimeoutMsg{ID: e.id}
	default:
		return e.message
	}
}

type labelKey struct {
	receiver uint64
	label    string
}

type requestKey struct {
	receiver uint64
	id       uint64
}

// schedule is the time-ordered store shared by the clock implementations.
// Cancelled entries stay in the heap and are skipped when they surface.
type schedule struct {
	mu         sync.Mutex
	heap       *queue.PriorityQueue
	seq        uint64
	ordinary   map[labelKey]*entry
	requests   map[requestKey]*entry
	byReceiver map[uint64]mapset.Set[*entry]
	live       int
}

func newSchedule() *schedule {
	return &schedule{
		heap:       queue.NewPriorityQueue(64, true),
		ordinary:   make(map[labelKey]*entry),
		requests:   make(map[requestKey]*entry),
		byReceiver: make(map[uint64]mapset.Set[*entry]),
	}
}

func (s *schedule) setOrdinary(due time.Time, receiver Receiver, label string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := labelKey{receiver: receiver.ID(), label: label}
	if previous, ok := s.ordinary[key]; ok {
		s.cancelLocked(previous)
	}
	e := s.addLocked(&entry{due: due, kind: ordinaryTimeout, receiver: receiver, label: label})
	e.id = e.seq
	s.ordinary[key] = e
	return e.id
}

func (s *schedule) setMulti(due time.Time, receiver Receiver, label string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.addLocked(&entry{due: due, kind: multiTimeout, receiver: receiver, label: label})
	e.id = e.seq
	return e.id
}

func (s *schedule) setRequest(due time.Time, receiver Receiver, requestID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := requestKey{receiver: receiver.ID(), id: requestID}
	if previous, ok := s.requests[key]; ok {
		s.cancelLocked(previous)
	}
	s.requests[key] = s.addLocked(&entry{due: due, kind: requestTimeout, receiver: receiver, id: requestID})
}

func (s *schedule) scheduleMessage(due time.Time, receiver Receiver, message any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(&entry{due: due, kind: scheduledMessage, receiver: receiver, message: message})
}

func (s *schedule) cancelOrdinary(receiver Receiver, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.ordinary[labelKey{receiver: receiver.ID(), label: label}]; ok {
		s.cancelLocked(e)
	}
}

func (s *schedule) cancelRequest(receiver Receiver, requestID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.requests[requestKey{receiver: receiver.ID(), id: requestID}]; ok {
		s.cancelLocked(e)
	}
}

func (s *schedule) cancelAll(receiver Receiver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, ok := s.byReceiver[receiver.ID()]
	if !ok {
		return
	}
	for _, e := range entries.ToSlice() {
		s.cancelLocked(e)
	}
}

func (s *schedule) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// next returns the due point of the earliest live entry
func (s *schedule) next() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.peekLocked(); e != nil {
		return e.due, true
	}
	return time.Time{}, false
}

// popDue removes and returns the live entries due at or before now, in firing order
func (s *schedule) popDue(now time.Time) []*entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []*entry
	for {
		e := s.peekLocked()
		if e == nil || e.due.After(now) {
			return due
		}
		s.popLocked()
		s.forgetLocked(e)
		due = append(due, e)
	}
}

// popNext removes and returns the earliest live entry regardless of its due point
func (s *schedule) popNext() *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.peekLocked()
	if e == nil {
		return nil
	}
	s.popLocked()
	s.forgetLocked(e)
	return e
}

func (s *schedule) addLocked(e *entry) *entry {
	s.seq++
	e.seq = s.seq
	receiverID := e.receiver.ID()
	set, ok := s.byReceiver[receiverID]
	if !ok {
		set = mapset.NewThreadUnsafeSet[*entry]()
		s.byReceiver[receiverID] = set
	}
	set.Add(e)
	s.live++
	// Put only fails on a disposed queue and the heap is never disposed
	_ = s.heap.Put(e)
	return e
}

func (s *schedule) cancelLocked(e *entry) {
	if e.cancelled {
		return
	}
	e.cancelled = true
	s.forgetLocked(e)
}

// forgetLocked drops the entry from every index
func (s *schedule) forgetLocked(e *entry) {
	receiverID := e.receiver.ID()
	if set, ok := s.byReceiver[receiverID]; ok {
		set.Remove(e)
		if set.Cardinality() == 0 {
			delete(s.byReceiver, receiverID)
		}
	}

	switch e.kind {
	case ordinaryTimeout:
		key := labelKey{receiver: receiverID, label: e.label}
		if s.ordinary[key] == e {
			delete(s.ordinary, key)
		}
	case requestTimeout:
		key := requestKey{receiver: receiverID, id: e.id}
		if s.requests[key] == e {
			delete(s.requests, key)
		}
	}
	s.live--
}

// peekLocked discards cancelled heads and returns the earliest live entry
func (s *schedule) peekLocked() *entry {
	for !s.heap.Empty() {
		e := s.heap.Peek().(*entry)
		if !e.cancelled {
			return e
		}
		s.popLocked()
	}
	return nil
}

func (s *schedule) popLocked() {
	// the heap is not empty here so Get does not block
	_, _ = s.heap.Get(1)
}
