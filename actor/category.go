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

// Category partitions the mailbox. Sub-queues are served in the order the
// categories are declared.
type Category uint8

const (
	// Urgent messages receive a double quantum
	Urgent Category = iota
	// Normal is the category of regular messages
	Normal
	// UpstreamControl carries stream messages flowing from consumers to producers
	UpstreamControl
	// DownstreamControl carries stream messages flowing from producers to consumers
	DownstreamControl

	numCategories = 4
)

// String returns the name of the category
func (c Category) String() string {
	switch c {
	case Urgent:
		return "urgent"
	case Normal:
		return "normal"
	case UpstreamControl:
		return "upstream-control"
	case DownstreamControl:
		return "downstream-control"
	default:
		return "unknown"
	}
}

// weight returns the quantum multiplier of the category
func (c Category) weight() int {
	if c == Urgent {
		return 2
	}
	return 1
}

// Categorized is implemented by payloads that always travel in a given
// category regardless of the priority requested by the sender.
type Categorized interface {
	Category() Category
}

// TaskSizer is implemented by payloads that weigh more than one unit in the
// mailbox round robin.
type TaskSizer interface {
	TaskSize() int
}

const (
	responseFlag  uint64 = 1 << 63
	requestFlag   uint64 = 1 << 62
	categoryShift        = 60
	categoryMask  uint64 = 0x3 << categoryShift
	requestIDMask uint64 = 1<<categoryShift - 1
)

// MessageID tags an envelope.
//
// Bit 63 marks a response, bit 62 a request, bits 60-61 hold the category
// and bits 0-59 the request id.
type MessageID uint64

// newMessageID returns the id of a message that expects no response
func newMessageID(category Category) MessageID {
	return MessageID(uint64(category) << categoryShift)
}

// newRequestID returns the id of a request
func newRequestID(requestID uint64, category Category) MessageID {
	return MessageID(requestFlag | uint64(category)<<categoryShift | requestID&requestIDMask)
}

// IsRequest reports whether the message expects a response
func (m MessageID) IsRequest() bool {
	return uint64(m)&requestFlag != 0
}

// IsResponse reports whether the message answers a request
func (m MessageID) IsResponse() bool {
	return uint64(m)&responseFlag != 0
}

// Category returns the mailbox category
func (m MessageID) Category() Category {
	return Category((uint64(m) & categoryMask) >> categoryShift)
}

// RequestID returns the request id
func (m MessageID) RequestID() uint64 {
	return uint64(m) & requestIDMask
}

// WithCategory returns a copy of the id carrying the given category
func (m MessageID) WithCategory(category Category) MessageID {
	return MessageID(uint64(m)&^categoryMask | uint64(category)<<categoryShift)
}

// ResponseID returns the id of the response to this request
func (m MessageID) ResponseID() MessageID {
	return MessageID(uint64(m)&^requestFlag | responseFlag)
}
