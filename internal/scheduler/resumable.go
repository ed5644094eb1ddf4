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

package scheduler

// ResumeResult is the outcome of a Resume call
type ResumeResult int

const (
	// ResumeLater means the job still has work; the worker re-queues it at the steal end.
	ResumeLater ResumeResult = iota
	// AwaitMessage means the job has no work left; it is enqueued again by whoever
	// hands it new work.
	AwaitMessage
	// Done means the job finished and must not be resumed again.
	Done
	// ShutdownUnit instructs the executing worker to stop.
	ShutdownUnit
)

// String returns the name of the result
func (r ResumeResult) String() string {
	switch r {
	case ResumeLater:
		return "resume-later"
	case AwaitMessage:
		return "await-message"
	case Done:
		return "done"
	case ShutdownUnit:
		return "shutdown-unit"
	default:
		return "unknown"
	}
}

// Resumable is a unit of cooperative work. Resume runs the job until its
// next suspension point and must not process more than maxThroughput items.
type Resumable interface {
	Resume(unit ExecutionUnit, maxThroughput int) ResumeResult
}

// ExecutionUnit is the context a job runs on. Jobs scheduled through Exec
// while running on a worker go to the front of that worker's deque.
type ExecutionUnit interface {
	Exec(job Resumable)
}

// Aborter is implemented by jobs that must be notified when Resume panics.
// The worker recovers the panic and hands it over as the abort reason.
type Aborter interface {
	Abort(reason error)
}
