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

// SourceDriver produces the items of a source
type SourceDriver interface {
	// Pull returns at most demand items. done reports that the source is
	// exhausted and will not be pulled again. An error aborts every outbound
	// path with a ForcedClose carrying it.
	Pull(demand int) (items []any, done bool, err error)
}

// SinkDriver consumes the items of a sink
type SinkDriver interface {
	// Consume processes a batch
	Consume(items []any)
	// Finalize is called once when the last inbound path closed. err is nil
	// when every producer closed gracefully.
	Finalize(err error)
}

// StageDriver transforms items between an upstream and a downstream
type StageDriver interface {
	// Process handles a batch and passes results to emit
	Process(items []any, emit func(item any))
	// Finalize is called once when the last inbound path closed
	Finalize(err error)
}

// SourceFunc adapts a function to the SourceDriver interface
type SourceFunc func(demand int) ([]any, bool, error)

// Pull implements SourceDriver
func (f SourceFunc) Pull(demand int) ([]any, bool, error) {
	return f(demand)
}

type sinkFuncs struct {
	consume  func(items []any)
	finalize func(err error)
}

// NewSinkDriver creates a SinkDriver from functions. finalize may be nil.
func NewSinkDriver(consume func(items []any), finalize func(err error)) SinkDriver {
	return &sinkFuncs{consume: consume, finalize: finalize}
}

func (s *sinkFuncs) Consume(items []any) {
	s.consume(items)
}

func (s *sinkFuncs) Finalize(err error) {
	if s.finalize != nil {
		s.finalize(err)
	}
}

type stageFuncs struct {
	process  func(items []any, emit func(item any))
	finalize func(err error)
}

// NewStageDriver creates a StageDriver from functions. finalize may be nil.
func NewStageDriver(process func(items []any, emit func(item any)), finalize func(err error)) StageDriver {
	return &stageFuncs{process: process, finalize: finalize}
}

func (s *stageFuncs) Process(items []any, emit func(item any)) {
	s.process(items, emit)
}

func (s *stageFuncs) Finalize(err error) {
	if s.finalize != nil {
		s.finalize(err)
	}
}

// SliceSource returns a SourceDriver emitting the given items in order
func SliceSource(items ...any) SourceDriver {
	pending := items
	return SourceFunc(func(demand int) ([]any, bool, error) {
		n := min(demand, len(pending))
		out := pending[:n:n]
		pending = pending[n:]
		return out, len(pending) == 0, nil
	})
}
