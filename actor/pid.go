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
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/flowchartsman/retry"
	"go.uber.org/atomic"

	"github.com/tochemey/coactor/clock"
	gerrors "github.com/tochemey/coactor/errors"
	"github.com/tochemey/coactor/internal/scheduler"
	"github.com/tochemey/coactor/log"
)

const receiveTimeoutLabel = "receive"

const (
	idleState int32 = iota
	scheduledState
	doneState
)

// PID is the control block of an actor and the handle used to address it.
//
// A PID is a scheduler.Resumable: every Resume processes at most the given
// throughput of messages, then hands the worker back. The fields below the
// mailbox are only touched by the goroutine currently running the actor.
type PID struct {
	id      uint64
	name    string
	system  *actorSystem
	actor   Actor
	logger  log.Logger
	mailbox *Mailbox
	ctx     *Context

	state    atomic.Int32
	exiting  atomic.Bool
	detached bool
	scoped   bool
	wake     chan struct{}
	done     chan struct{}

	processed atomic.Int64

	unit           scheduler.ExecutionUnit
	initialized    bool
	cleanedUp      bool
	budget         int
	rearm          bool
	behaviors      []*Behavior
	receiveTimeout uint64
	pending        map[uint64]ResponseHandler
	nextRequestID  uint64
	interceptors   []Interceptor
	exitHandler    ExitHandler
	downHandler    DownHandler
	defaultHandler DefaultHandler
	errorHandler   ErrorHandler

	mu          sync.Mutex
	exitReason  error
	attachables []*attachable
	links       mapset.Set[uint64]
}

var (
	_ scheduler.Resumable = (*PID)(nil)
	_ scheduler.Aborter   = (*PID)(nil)
	_ clock.Receiver      = (*PID)(nil)
)

func newPID(system *actorSystem, name string, actor Actor, config *spawnConfig) *PID {
	pid := &PID{
		id:             system.nextID(),
		name:           name,
		system:         system,
		actor:          actor,
		mailbox:        NewMailbox(),
		detached:       config.detached,
		wake:           make(chan struct{}, 1),
		done:           make(chan struct{}),
		pending:        make(map[uint64]ResponseHandler),
		defaultHandler: config.defaultHandler,
		errorHandler:   config.errorHandler,
		links:          mapset.NewThreadUnsafeSet[uint64](),
	}
	if pid.defaultHandler == nil {
		pid.defaultHandler = defaultHandler
	}
	if pid.errorHandler == nil {
		pid.errorHandler = escalate
	}
	pid.logger = system.logger.With("actor", pid.String())
	pid.ctx = newContext(pid)
	return pid
}

// ID returns the unique id of the actor within its system
func (pid *PID) ID() uint64 {
	return pid.id
}

// Name returns the name given at spawn time. Anonymous actors have no name.
func (pid *PID) Name() string {
	return pid.name
}

// String returns the name of the actor or its id when anonymous
func (pid *PID) String() string {
	if pid == nil {
		return "<nil>"
	}
	if pid.name != "" {
		return pid.name
	}
	return "#" + strconv.FormatUint(pid.id, 10)
}

// IsRunning reports whether the actor has not exited
func (pid *PID) IsRunning() bool {
	return pid != nil && !pid.exiting.Load()
}

// ExitReason returns the exit reason, nil while the actor runs
func (pid *PID) ExitReason() error {
	pid.mu.Lock()
	defer pid.mu.Unlock()
	return pid.exitReason
}

// Done returns a channel closed once the actor exited and cleaned up
func (pid *PID) Done() <-chan struct{} {
	return pid.done
}

// MailboxSize returns the number of queued messages
func (pid *PID) MailboxSize() int {
	return pid.mailbox.Len()
}

// ProcessedCount returns the number of processed messages
func (pid *PID) ProcessedCount() int64 {
	return pid.processed.Load()
}

// Deliver enqueues a message coming from the clock
func (pid *PID) Deliver(message any) {
	envelope, ok := message.(*Envelope)
	if !ok {
		envelope = newEnvelope(nil, newMessageID(Normal), nil, message, Normal)
	}
	_ = pid.enqueue(envelope, nil)
}

// Resume processes up to maxThroughput messages
func (pid *PID) Resume(unit scheduler.ExecutionUnit, maxThroughput int) scheduler.ResumeResult {
	if pid.state.Load() == doneState {
		return scheduler.Done
	}

	pid.unit = unit
	defer func() { pid.unit = nil }()

	if !pid.initialized {
		pid.initialize()
	}

	handled := 0
	pid.budget = max(maxThroughput, 1)
	for pid.budget > 0 && !pid.exiting.Load() {
		consumed, _ := pid.mailbox.NextRound(pid.system.mailboxQuantum, pid.consume)
		handled += consumed
		if consumed == 0 && pid.mailbox.IsEmpty() {
			break
		}
	}
	pid.system.recordProcessed(handled)

	if pid.exiting.Load() {
		pid.cleanup()
		return scheduler.Done
	}
	if !pid.mailbox.IsEmpty() {
		return scheduler.ResumeLater
	}

	pid.state.Store(idleState)
	if !pid.mailbox.IsEmpty() && pid.state.CompareAndSwap(idleState, scheduledState) {
		return scheduler.ResumeLater
	}
	return scheduler.AwaitMessage
}

// Abort exits the actor after a panic escaped Resume
func (pid *PID) Abort(reason error) {
	pid.logger.Errorf("actor aborted: %v", reason)
	pid.quit(reason)
	pid.cleanup()
}

// enqueue pushes the envelope and schedules the actor when it was idle.
// Envelopes refused by an exited actor are bounced.
func (pid *PID) enqueue(envelope *Envelope, unit scheduler.ExecutionUnit) error {
	if pid.exiting.Load() {
		pid.system.bounce(envelope)
		return gerrors.ErrMailboxClosed
	}
	if err := pid.mailbox.Push(envelope); err != nil {
		pid.system.bounce(envelope)
		return err
	}
	if pid.state.CompareAndSwap(idleState, scheduledState) {
		pid.schedule(unit)
	}
	return nil
}

func (pid *PID) schedule(unit scheduler.ExecutionUnit) {
	switch {
	case pid.detached || pid.scoped:
		select {
		case pid.wake <- struct{}{}:
		default:
		}
	case unit != nil:
		unit.Exec(pid)
	default:
		if err := pid.system.coordinator.Enqueue(pid); err != nil {
			pid.logger.Warnf("failed to schedule actor: %v", err)
		}
	}
}

// initialize runs PreStart with retries
func (pid *PID) initialize() {
	pid.initialized = true
	system := pid.system

	ctx, cancel := context.WithTimeout(system.ctx, system.actorInitTimeout)
	defer cancel()

	var behavior *Behavior
	retrier := retry.NewRetrier(system.actorInitMaxRetries, time.Millisecond, system.actorInitTimeout)
	if err := retrier.RunContext(ctx, func(context.Context) error {
		var err error
		behavior, err = pid.preStart()
		return err
	}); err != nil {
		pid.logger.Errorf("failed to initialize actor: %v", err)
		pid.quit(gerrors.NewInitError(err))
		return
	}

	if behavior != nil {
		pid.behaviors = append(pid.behaviors, behavior)
	}
	pid.logger.Debug("actor initialized")
	pid.armReceiveTimeout()
	pid.checkTermination()
}

func (pid *PID) preStart() (behavior *Behavior, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = toPanicError(r)
		}
	}()
	return pid.actor.PreStart(pid.ctx)
}

func (pid *PID) consume(envelope *Envelope) TaskResult {
	pid.budget--
	pid.process(envelope)
	pid.processed.Inc()
	if pid.exiting.Load() || pid.budget <= 0 {
		return TaskStop
	}
	return TaskResume
}

// process dispatches one envelope. It reports whether user code saw it.
func (pid *PID) process(envelope *Envelope) (delivered bool) {
	ctx := newReceiveContext(pid.ctx, envelope)
	defer func() {
		if r := recover(); r != nil {
			pid.fail(ctx, toPanicError(r))
			delivered = true
		}
		if pid.rearm {
			pid.rearm = false
			pid.armReceiveTimeout()
		}
		pid.checkTermination()
	}()
	return pid.dispatch(ctx)
}

func (pid *PID) dispatch(ctx *ReceiveContext) bool {
	envelope := ctx.envelope
	switch msg := envelope.payload.(type) {
	case *killMsg:
		pid.quit(msg.reason)
		return false
	case *ExitMsg:
		return pid.handleExit(msg)
	case *clock.RequestTimeoutMsg:
		return pid.handleRequestTimeout(msg.ID)
	case *clock.TimeoutMsg:
		if msg.Label == receiveTimeoutLabel {
			return pid.handleReceiveTimeout(msg.ID)
		}
	}

	if envelope.id.IsResponse() {
		return pid.handleResponse(envelope)
	}

	for _, interceptor := range pid.interceptors {
		if interceptor.Intercept(ctx) {
			return true
		}
	}

	if msg, ok := envelope.payload.(*DownMsg); ok {
		if pid.downHandler == nil {
			pid.logger.Debugf("actor %s is down: %v", msg.Source, msg.Reason)
			return false
		}
		pid.downHandler(pid.ctx, msg)
		return true
	}

	pid.rearm = true
	if behavior := pid.top(); behavior != nil {
		if c, ok := behavior.lookup(envelope.payload); ok {
			c.handle(ctx, envelope.payload)
			return true
		}
	}
	pid.defaultHandler(ctx, envelope.payload)
	return true
}

func (pid *PID) handleExit(msg *ExitMsg) bool {
	if msg.Source != nil {
		pid.detach(linkAttachable, msg.Source.id)
	}
	if errors.Is(msg.Reason, gerrors.ExitKill) {
		pid.quit(msg.Reason)
		return false
	}
	if pid.exitHandler != nil {
		pid.exitHandler(pid.ctx, msg)
		return true
	}
	if !gerrors.IsNormalExit(msg.Reason) {
		pid.quit(msg.Reason)
	}
	return false
}

func (pid *PID) handleReceiveTimeout(id uint64) bool {
	if id != pid.receiveTimeout {
		return false
	}
	pid.receiveTimeout = 0
	behavior := pid.top()
	if behavior == nil || behavior.onTimeout == nil {
		return false
	}
	pid.rearm = true
	behavior.onTimeout(pid.ctx)
	return true
}

func (pid *PID) handleRequestTimeout(requestID uint64) bool {
	handler, ok := pid.pending[requestID]
	if !ok {
		return false
	}
	delete(pid.pending, requestID)
	handler(nil, gerrors.ErrRequestTimeout)
	return true
}

func (pid *PID) handleResponse(envelope *Envelope) bool {
	requestID := envelope.id.RequestID()
	handler, ok := pid.pending[requestID]
	if !ok {
		pid.logger.Debugf("dropping late response to request %d", requestID)
		return false
	}
	delete(pid.pending, requestID)
	pid.system.clock.CancelRequestTimeout(pid, requestID)

	var (
		value any
		err   error
	)
	if resp, ok := envelope.payload.(*response); ok {
		value, err = resp.value, resp.err
	} else {
		value = envelope.payload
	}
	handler(value, err)
	return true
}

func (pid *PID) request(to *PID, timeout time.Duration, message any, then ResponseHandler) {
	if then == nil {
		then = func(any, error) {}
	}

	pid.nextRequestID = (pid.nextRequestID + 1) & requestIDMask
	if pid.nextRequestID == 0 {
		pid.nextRequestID = 1
	}
	requestID := pid.nextRequestID
	pid.pending[requestID] = then

	envelope := newEnvelope(pid, newRequestID(requestID, Normal), nil, message, Normal)
	if to == nil {
		pid.system.respond(nil, envelope, nil, gerrors.ErrUndefinedActor)
		return
	}

	if timeout > 0 {
		clk := pid.system.clock
		clk.SetRequestTimeout(clk.Now().Add(timeout), pid, requestID)
	}
	_ = to.enqueue(envelope, pid.unit)
}

// fail hands a dispatch failure to the error handler
func (pid *PID) fail(ctx *ReceiveContext, err error) {
	pid.logger.Errorf("failed to process %T: %v", ctx.envelope.payload, err)
	if ctx.IsRequest() && !ctx.replied {
		ctx.ReplyError(err)
	}
	if reason := pid.errorHandler(pid.ctx, err); reason != nil {
		pid.quit(reason)
	}
}

func (pid *PID) top() *Behavior {
	if n := len(pid.behaviors); n > 0 {
		return pid.behaviors[n-1]
	}
	return nil
}

func (pid *PID) armReceiveTimeout() {
	clk := pid.system.clock
	behavior := pid.top()
	if behavior == nil || behavior.Timeout() <= 0 {
		if pid.receiveTimeout != 0 {
			clk.CancelOrdinaryTimeout(pid, receiveTimeoutLabel)
			pid.receiveTimeout = 0
		}
		return
	}
	pid.receiveTimeout = clk.SetOrdinaryTimeout(clk.Now().Add(behavior.Timeout()), pid, receiveTimeoutLabel)
}

func (pid *PID) checkTermination() {
	if pid.scoped || pid.exiting.Load() {
		return
	}
	if len(pid.behaviors) == 0 && len(pid.pending) == 0 {
		pid.quit(gerrors.ExitNormal)
	}
}

// quit sets the exit reason. Only the first call has an effect.
func (pid *PID) quit(reason error) bool {
	if reason == nil {
		reason = gerrors.ExitNormal
	}
	pid.mu.Lock()
	defer pid.mu.Unlock()
	if pid.exitReason != nil {
		return false
	}
	pid.exitReason = reason
	pid.exiting.Store(true)
	return true
}

// cleanup releases the actor once it exited. It runs on the actor's own execution.
func (pid *PID) cleanup() {
	if pid.cleanedUp {
		return
	}
	pid.cleanedUp = true
	reason := pid.ExitReason()

	for _, envelope := range pid.mailbox.Close() {
		pid.system.bounce(envelope)
	}
	pid.system.clock.CancelTimeouts(pid)
	pid.pending = nil
	pid.behaviors = nil
	pid.interceptors = nil
	pid.postStop()

	pid.mu.Lock()
	attachables := pid.attachables
	pid.attachables = nil
	pid.links.Clear()
	pid.mu.Unlock()

	notifyAttachables(pid, attachables, reason)

	pid.system.unregister(pid, reason)
	pid.state.Store(doneState)
	close(pid.done)
	pid.logger.Debugf("actor exited: %v", reason)
}

func (pid *PID) postStop() {
	defer func() {
		if r := recover(); r != nil {
			pid.logger.Errorf("PostStop panicked: %v", r)
		}
	}()
	if pid.actor == nil {
		return
	}
	if err := pid.actor.PostStop(pid.ctx); err != nil {
		pid.logger.Errorf("PostStop failed: %v", err)
	}
}

// runDetached drives the actor on its own goroutine
func (pid *PID) runDetached() {
	unit := &detachedUnit{system: pid.system}
	for range pid.wake {
		result := pid.resumeDetached(unit)
		for result == scheduler.ResumeLater {
			result = pid.resumeDetached(unit)
		}
		if result == scheduler.Done {
			return
		}
	}
}

func (pid *PID) resumeDetached(unit scheduler.ExecutionUnit) (result scheduler.ResumeResult) {
	defer func() {
		if r := recover(); r != nil {
			pid.Abort(toPanicError(r))
			result = scheduler.Done
		}
	}()
	return pid.Resume(unit, pid.system.maxThroughput)
}

// detachedUnit is the execution unit of detached actors.
// Jobs it is handed go to the shared scheduler.
type detachedUnit struct {
	system *actorSystem
}

func (u *detachedUnit) Exec(job scheduler.Resumable) {
	if err := u.system.coordinator.Enqueue(job); err != nil {
		u.system.logger.Warnf("failed to schedule job: %v", err)
	}
}

func defaultHandler(ctx *ReceiveContext, msg any) {
	if ctx.IsRequest() {
		ctx.ReplyError(gerrors.ErrUnexpectedMessage)
		return
	}
	ctx.Logger().Warnf("unexpected message %T dropped", msg)
}

func escalate(_ *Context, err error) error {
	return fmt.Errorf("%w: %w", gerrors.ExitUnhandledException, err)
}

func toPanicError(r any) *gerrors.PanicError {
	if err, ok := r.(error); ok {
		return gerrors.NewPanicError(err)
	}
	return gerrors.NewPanicError(fmt.Errorf("%v", r))
}
