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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrMailboxClosed is returned when a message is pushed into the mailbox of an actor that has exited.
	ErrMailboxClosed = errors.New("mailbox is closed")

	// ErrRequestTimeout is delivered to a pending request whose timeout elapsed before a response arrived.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrRequestReceiverDown is delivered to a pending request whose receiver exited before answering.
	ErrRequestReceiverDown = errors.New("request receiver is down")

	// ErrUnexpectedMessage is returned when a message matches no case of the active behavior.
	ErrUnexpectedMessage = errors.New("unexpected message")

	// ErrInvalidArguments is returned when spawn arguments do not match what the actor factory expects.
	ErrInvalidArguments = errors.New("invalid actor construction arguments")

	// ErrInvalidInstance is returned when a nil actor is spawned.
	ErrInvalidInstance = errors.New("failed to create instance. Reason: invalid instance")

	// ErrTypeNotRegistered is returned when spawning by name an actor kind that has no factory.
	ErrTypeNotRegistered = errors.New("actor type is not registered")

	// ErrActorAlreadyExists is returned when trying to create an actor with a name that already exists.
	ErrActorAlreadyExists = errors.New("actor already exists")

	// ErrActorNotFound indicates that the specified actor could not be found in the system.
	ErrActorNotFound = errors.New("actor not found")

	// ErrUndefinedActor is returned when a nil actor reference is used.
	ErrUndefinedActor = errors.New("actor is not defined")

	// ErrDead indicates that the actor is no longer alive.
	ErrDead = errors.New("actor is not alive")

	// ErrNameRequired is returned when an actor system name is not provided.
	ErrNameRequired = errors.New("actor system name is required")

	// ErrInvalidActorSystemName is returned when the actor system name is malformed
	ErrInvalidActorSystemName = errors.New("invalid actor system name, must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-' or '_')")

	// ErrInvalidActorName is returned when an actor name is malformed
	ErrInvalidActorName = errors.New("invalid actor name, must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-', '_' or '.')")

	// ErrActorSystemNotStarted indicates that an actor system has not been started before use.
	ErrActorSystemNotStarted = errors.New("actor system is not running")

	// ErrActorSystemAlreadyStarted is returned when starting an actor system twice.
	ErrActorSystemAlreadyStarted = errors.New("actor system has already started")

	// ErrSchedulerNotStarted is returned when the coordinator or the cron scheduler is used before Start.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrSchedulerStopped is returned when jobs are enqueued after the coordinator stopped.
	ErrSchedulerStopped = errors.New("scheduler has stopped")

	// ErrScheduledReferenceNotFound is returned when cancelling an unknown scheduled message.
	ErrScheduledReferenceNotFound = errors.New("scheduled reference not found")

	// ErrInvalidTimeout is returned when a timeout value is negative.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrUnknownSlot is returned when a stream message refers to a slot with no path.
	ErrUnknownSlot = errors.New("unknown stream slot")

	// ErrStreamAlreadyAttached is returned when a second stream manager is attached to an actor.
	ErrStreamAlreadyAttached = errors.New("stream manager already attached")

	// ErrStreamClosed is returned when paths are added to a stream manager that is done.
	ErrStreamClosed = errors.New("stream manager is done")

	// ErrNotBlocking is returned when a blocking receive is issued from an actor that is not blocking.
	ErrNotBlocking = errors.New("actor is not blocking")
)

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}

// InitError is the exit reason of an actor whose PreStart failed
type InitError struct {
	err error
}

var _ error = (*InitError)(nil)

// NewInitError returns an instance of InitError
func NewInitError(err error) *InitError {
	return &InitError{err}
}

func (e *InitError) Error() string {
	return fmt.Sprintf("preStart failed: %v", e.err)
}

func (e *InitError) Unwrap() error {
	return e.err
}

// CreditViolationError is raised when a producer emits more items than
// its open credit allows on a stream path.
type CreditViolationError struct {
	Slot      uint64
	Requested int
	Available int
}

var _ error = (*CreditViolationError)(nil)

func (e *CreditViolationError) Error() string {
	return fmt.Sprintf("stream slot %d: batch of %d items exceeds open credit %d", e.Slot, e.Requested, e.Available)
}
