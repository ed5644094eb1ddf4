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

package registry

import (
	"sync"

	"github.com/zeebo/xxh3"
)

const defaultShards = 32

type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

// Map is a concurrent string-keyed map split into shards selected by
// the xxh3 hash of the key.
type Map[V any] struct {
	shards []*shard[V]
}

// New creates a Map with the given number of shards.
// A non-positive count uses the default.
func New[V any](shards int) *Map[V] {
	if shards <= 0 {
		shards = defaultShards
	}
	m := &Map[V]{shards: make([]*shard[V], shards)}
	for i := range m.shards {
		m.shards[i] = &shard[V]{items: make(map[string]V)}
	}
	return m
}

func (m *Map[V]) shardOf(key string) *shard[V] {
	return m.shards[xxh3.HashString(key)%uint64(len(m.shards))]
}

// Get returns the value stored under key
func (m *Map[V]) Get(key string) (V, bool) {
	s := m.shardOf(key)
	s.mu.RLock()
	value, ok := s.items[key]
	s.mu.RUnlock()
	return value, ok
}

// Set stores the value under key, replacing any previous one
func (m *Map[V]) Set(key string, value V) {
	s := m.shardOf(key)
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
}

// SetIfAbsent stores the value only when key is free and reports whether it did
func (m *Map[V]) SetIfAbsent(key string, value V) bool {
	s := m.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; exists {
		return false
	}
	s.items[key] = value
	return true
}

// Delete removes key
func (m *Map[V]) Delete(key string) {
	s := m.shardOf(key)
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// DeleteIf removes key when the predicate holds for its current value
func (m *Map[V]) DeleteIf(key string, predicate func(V) bool) bool {
	s := m.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if value, ok := s.items[key]; ok && predicate(value) {
		delete(s.items, key)
		return true
	}
	return false
}

// Len returns the number of entries
func (m *Map[V]) Len() int {
	count := 0
	for _, s := range m.shards {
		s.mu.RLock()
		count += len(s.items)
		s.mu.RUnlock()
	}
	return count
}

// Values returns a snapshot of the stored values
func (m *Map[V]) Values() []V {
	out := make([]V, 0, m.Len())
	for _, s := range m.shards {
		s.mu.RLock()
		for _, value := range s.items {
			out = append(out, value)
		}
		s.mu.RUnlock()
	}
	return out
}

// Reset removes every entry
func (m *Map[V]) Reset() {
	for _, s := range m.shards {
		s.mu.Lock()
		clear(s.items)
		s.mu.Unlock()
	}
}
