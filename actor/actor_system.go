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
	"os"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/coactor/clock"
	gerrors "github.com/tochemey/coactor/errors"
	"github.com/tochemey/coactor/future"
	"github.com/tochemey/coactor/internal/chain"
	"github.com/tochemey/coactor/internal/metric"
	"github.com/tochemey/coactor/internal/registry"
	"github.com/tochemey/coactor/internal/scheduler"
	"github.com/tochemey/coactor/internal/validation"
	"github.com/tochemey/coactor/internal/workerpool"
	"github.com/tochemey/coactor/log"
)

const (
	// DefaultMaxThroughput is the number of messages an actor processes before yielding its worker
	DefaultMaxThroughput = 300
	// DefaultMailboxQuantum is the deficit quantum of the mailbox round robin
	DefaultMailboxQuantum = 10
	// DefaultShutdownTimeout is the time given to the actors to exit when the system stops
	DefaultShutdownTimeout = 3 * time.Second
	// DefaultInitMaxRetries is the number of PreStart attempts
	DefaultInitMaxRetries = 5
	// DefaultInitTimeout bounds the PreStart attempts
	DefaultInitTimeout = time.Second
	// DefaultDetachedIdleTimeout is how long an idle detached worker is kept
	DefaultDetachedIdleTimeout = 30 * time.Second
)

var (
	systemNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-_]*$`)
	actorNamePattern  = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-_.]*$`)
)

// Stats is a snapshot of the actor system counters
type Stats struct {
	// Actors is the number of live actors
	Actors int
	// Processed is the number of messages dispatched
	Processed int64
	// DeadLetters is the number of messages that could not be delivered
	DeadLetters int64
	// Executed is the number of scheduler resumptions
	Executed int64
	// Steals is the number of jobs taken from a peer worker
	Steals int64
	// Panics is the number of panics that escaped an actor
	Panics int64
}

// ActorSystem hosts actors and runs them on a work-stealing scheduler
type ActorSystem interface {
	// Name returns the actor system name
	Name() string
	// ID returns the unique id of this actor system instance
	ID() string
	// Start starts the scheduler, the clock and the message scheduler.
	// Actors can only be spawned on a started system.
	Start(ctx context.Context) error
	// Stop kills every actor with ExitUserShutdown, waits for them within the
	// shutdown timeout and releases the workers. Scoped actors are only told to exit.
	Stop(ctx context.Context) error
	// Running reports whether the system is started
	Running() bool
	// Spawn creates and starts an actor. An empty name spawns an anonymous actor;
	// otherwise the name must be unique in the system.
	Spawn(ctx context.Context, name string, actor Actor, opts ...SpawnOption) (*PID, error)
	// SpawnFromRegistry creates an actor with the factory registered under kind
	SpawnFromRegistry(ctx context.Context, name, kind string, args ...any) (*PID, error)
	// ActorOf returns the live actor registered under the given name
	ActorOf(name string) (*PID, error)
	// Actors returns the live actors
	Actors() []*PID
	// ActorsCount returns the number of live actors, scoped actors included
	ActorsCount() int
	// Tell sends a message in the normal category without sender
	Tell(to *PID, message any) error
	// TellUrgent sends a message in the urgent category without sender
	TellUrgent(to *PID, message any) error
	// DelayedTell sends a message after the given delay using the system clock
	DelayedTell(to *PID, delay time.Duration, message any) error
	// Request sends a request and returns the future of its response.
	// A zero timeout waits forever. Cancelling ctx fails the future with the context error.
	Request(ctx context.Context, to *PID, timeout time.Duration, message any) future.Future[any]
	// Ask sends a request and waits for the response
	Ask(ctx context.Context, to *PID, message any, timeout time.Duration) (any, error)
	// Kill sends an ExitMsg with the given reason. Only ExitKill cannot be trapped.
	Kill(to *PID, reason error) error
	// ScheduleOnce sends the message once after the given wall-clock delay.
	// It returns the reference used to cancel the schedule.
	ScheduleOnce(message any, to *PID, delay time.Duration) (string, error)
	// Schedule sends the message at every interval
	Schedule(message any, to *PID, interval time.Duration) (string, error)
	// ScheduleWithCron sends the message following the cron expression
	ScheduleWithCron(message any, to *PID, cronExpression string) (string, error)
	// CancelSchedule cancels a scheduled message
	CancelSchedule(reference string) error
	// Scoped creates an actor driven by the calling goroutine
	Scoped(name string) (*ScopedActor, error)
	// Clock returns the clock driving timeouts
	Clock() clock.Clock
	// Logger returns the logger
	Logger() log.Logger
	// AwaitAllActorsDone blocks until every actor that is not scoped exited
	AwaitAllActorsDone(ctx context.Context) error
	// DeadLetters returns the number of messages that could not be delivered
	DeadLetters() int64
	// Stats returns a snapshot of the runtime counters
	Stats() Stats
}

// actorSystem represents the actor system
type actorSystem struct {
	name   string
	id     string
	logger log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// specifies whether the system is running
	running atomic.Bool
	startMu sync.Mutex

	coordinator *scheduler.Coordinator
	hub         *workerpool.Hub
	clock       clock.Clock
	ownedClock  *clock.RealClock
	messages    *messageScheduler
	registry    *Registry

	pids        *registry.Map[*PID]
	names       *registry.Map[*PID]
	ids         atomic.Uint64
	requestIDs  atomic.Uint64
	deadLetters atomic.Int64
	processed   atomic.Int64

	liveMu sync.Mutex
	live   int
	idle   chan struct{}

	workers             int
	maxThroughput       int
	mailboxQuantum      int
	stealPolicy         StealPolicy
	shutdownTimeout     time.Duration
	actorInitTimeout    time.Duration
	actorInitMaxRetries int
	detachedIdleTimeout time.Duration

	meterProvider otelmetric.MeterProvider
	metric        *metric.RuntimeMetric
	registration  otelmetric.Registration
}

// enforce compilation error
var _ ActorSystem = (*actorSystem)(nil)

// NewActorSystem creates an instance of ActorSystem
func NewActorSystem(name string, opts ...Option) (ActorSystem, error) {
	if name == "" {
		return nil, gerrors.ErrNameRequired
	}
	if !systemNamePattern.MatchString(name) {
		return nil, gerrors.ErrInvalidActorSystemName
	}

	idle := make(chan struct{})
	close(idle)

	system := &actorSystem{
		name:                name,
		id:                  uuid.NewString(),
		logger:              log.NewZap(log.ErrorLevel, os.Stderr),
		registry:            NewRegistry(),
		pids:                registry.New[*PID](0),
		names:               registry.New[*PID](0),
		idle:                idle,
		maxThroughput:       DefaultMaxThroughput,
		mailboxQuantum:      DefaultMailboxQuantum,
		stealPolicy:         DefaultStealPolicy(),
		shutdownTimeout:     DefaultShutdownTimeout,
		actorInitTimeout:    DefaultInitTimeout,
		actorInitMaxRetries: DefaultInitMaxRetries,
		detachedIdleTimeout: DefaultDetachedIdleTimeout,
	}

	for _, opt := range opts {
		opt.Apply(system)
	}

	if err := validation.New(validation.FailFast()).
		AddAssertion(system.logger != nil, "logger is required").
		AddAssertion(system.registry != nil, "registry is required").
		AddAssertion(system.workers >= 0, "workers must not be negative").
		AddValidator(validation.NewRangeValidator("maxThroughput", system.maxThroughput, 1, 1<<20)).
		AddValidator(validation.NewRangeValidator("mailboxQuantum", system.mailboxQuantum, 1, 1<<20)).
		AddValidator(validation.NewRangeValidator("actorInitMaxRetries", system.actorInitMaxRetries, 1, 1<<10)).
		AddValidator(validation.NewPositiveDurationValidator("shutdownTimeout", system.shutdownTimeout)).
		AddValidator(validation.NewPositiveDurationValidator("actorInitTimeout", system.actorInitTimeout)).
		AddValidator(validation.NewPositiveDurationValidator("detachedIdleTimeout", system.detachedIdleTimeout)).
		AddValidator(validation.ValidatorFunc(func() error { return system.stealPolicy.toScheduler().Validate() })).
		Validate(); err != nil {
		return nil, err
	}

	if system.clock == nil {
		system.ownedClock = clock.NewRealClock(system.logger)
		system.clock = system.ownedClock
	}

	coordinatorOpts := []scheduler.Option{
		scheduler.WithMaxThroughput(system.maxThroughput),
		scheduler.WithPolicy(system.stealPolicy.toScheduler()),
		scheduler.WithLogger(system.logger),
	}
	if system.workers > 0 {
		coordinatorOpts = append(coordinatorOpts, scheduler.WithWorkers(system.workers))
	}
	system.coordinator = scheduler.New(coordinatorOpts...)
	system.hub = workerpool.NewHub(workerpool.WithIdleTimeout(system.detachedIdleTimeout))
	system.messages = newMessageScheduler(system.logger, system.shutdownTimeout, system.Tell)
	return system, nil
}

// Name returns the actor system name
func (x *actorSystem) Name() string {
	return x.name
}

// ID returns the instance id
func (x *actorSystem) ID() string {
	return x.id
}

// Running reports whether the system is started
func (x *actorSystem) Running() bool {
	return x.running.Load()
}

// Clock returns the clock
func (x *actorSystem) Clock() clock.Clock {
	return x.clock
}

// Logger returns the logger
func (x *actorSystem) Logger() log.Logger {
	return x.logger
}

// Start starts the actor system
func (x *actorSystem) Start(ctx context.Context) error {
	x.startMu.Lock()
	defer x.startMu.Unlock()

	if x.running.Load() {
		return gerrors.ErrActorSystemAlreadyStarted
	}

	x.ctx, x.cancel = context.WithCancel(context.WithoutCancel(ctx))
	if err := chain.New(chain.WithFailFast()).
		AddStep("metrics", x.startMetrics).
		AddStep("scheduler", x.coordinator.Start).
		AddStep("workerpool", func() error {
			x.hub.Start()
			return nil
		}).
		AddStepIf(x.ownedClock != nil, "clock", func() error {
			x.ownedClock.Start()
			return nil
		}).
		AddStep("messages scheduler", func() error {
			x.messages.Start(x.ctx)
			return nil
		}).
		Run(); err != nil {
		x.cancel()
		return fmt.Errorf("failed to start actor system %s: %w", x.name, err)
	}

	x.running.Store(true)
	x.logger.Infof("actor system %s started with %d workers", x.name, x.coordinator.Workers())
	return nil
}

// Stop stops the actor system
func (x *actorSystem) Stop(ctx context.Context) error {
	x.startMu.Lock()
	defer x.startMu.Unlock()

	if !x.running.Load() {
		return gerrors.ErrActorSystemNotStarted
	}

	x.logger.Infof("stopping actor system %s...", x.name)
	ctx, cancel := context.WithTimeout(ctx, x.shutdownTimeout)
	defer cancel()

	err := chain.New().
		AddStep("messages scheduler", func() error {
			x.messages.Stop(ctx)
			return nil
		}).
		AddStep("actors", x.killAll).
		AddStep("await actors", func() error { return x.AwaitAllActorsDone(ctx) }).
		AddStep("scheduler", func() error { return x.coordinator.Stop(ctx) }).
		AddStep("workerpool", func() error {
			x.hub.Stop()
			x.hub.Await()
			return nil
		}).
		AddStepIf(x.ownedClock != nil, "clock", func() error {
			x.ownedClock.Stop()
			return nil
		}).
		AddStep("metrics", func() error {
			if x.registration != nil {
				return x.registration.Unregister()
			}
			return nil
		}).
		Run()

	x.running.Store(false)
	x.cancel()
	x.pids.Reset()
	x.names.Reset()

	if err != nil {
		x.logger.Errorf("actor system %s stopped with errors: %v", x.name, err)
		return err
	}
	x.logger.Infof("actor system %s stopped", x.name)
	return nil
}

// Spawn creates and starts an actor
func (x *actorSystem) Spawn(_ context.Context, name string, actor Actor, opts ...SpawnOption) (*PID, error) {
	return x.spawn(name, actor, opts...)
}

// SpawnFromRegistry creates an actor using a registered factory
func (x *actorSystem) SpawnFromRegistry(ctx context.Context, name, kind string, args ...any) (*PID, error) {
	factory, ok := x.registry.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", gerrors.ErrTypeNotRegistered, kind)
	}
	actor, err := factory(args...)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, gerrors.ErrInvalidInstance
	}
	return x.Spawn(ctx, name, actor)
}

// ActorOf returns the live actor with the given name
func (x *actorSystem) ActorOf(name string) (*PID, error) {
	if !x.running.Load() {
		return nil, gerrors.ErrActorSystemNotStarted
	}
	pid, ok := x.names.Get(name)
	if !ok || !pid.IsRunning() {
		return nil, gerrors.ErrActorNotFound
	}
	return pid, nil
}

// Actors returns the live actors
func (x *actorSystem) Actors() []*PID {
	pids := x.pids.Values()
	actors := make([]*PID, 0, len(pids))
	for _, pid := range pids {
		if pid.IsRunning() {
			actors = append(actors, pid)
		}
	}
	return actors
}

// ActorsCount returns the number of live actors
func (x *actorSystem) ActorsCount() int {
	return x.pids.Len()
}

// Tell sends a message without sender
func (x *actorSystem) Tell(to *PID, message any) error {
	return x.tell(to, message, Normal)
}

// TellUrgent sends an urgent message without sender
func (x *actorSystem) TellUrgent(to *PID, message any) error {
	return x.tell(to, message, Urgent)
}

// DelayedTell sends a message after the given delay
func (x *actorSystem) DelayedTell(to *PID, delay time.Duration, message any) error {
	if !x.running.Load() {
		return gerrors.ErrActorSystemNotStarted
	}
	if to == nil {
		return gerrors.ErrUndefinedActor
	}
	envelope := newEnvelope(nil, newMessageID(Normal), nil, message, Normal)
	x.clock.ScheduleMessage(x.clock.Now().Add(delay), to, envelope)
	return nil
}

// Request sends a request from outside any actor
func (x *actorSystem) Request(ctx context.Context, to *PID, timeout time.Duration, message any) future.Future[any] {
	promise := future.NewPromise[any]()
	switch {
	case !x.running.Load():
		promise.Failure(gerrors.ErrActorSystemNotStarted)
		return promise.Future()
	case to == nil:
		promise.Failure(gerrors.ErrUndefinedActor)
		return promise.Future()
	case timeout < 0:
		promise.Failure(gerrors.ErrInvalidTimeout)
		return promise.Future()
	}

	requestID := x.requestIDs.Inc() & requestIDMask
	waiter := &requestWaiter{
		id:        x.nextID(),
		requestID: requestID,
		promise:   promise,
		system:    x,
	}

	waiter.stop = context.AfterFunc(ctx, func() {
		if promise.Failure(ctx.Err()) {
			x.clock.CancelRequestTimeout(waiter, requestID)
		}
	})

	envelope := newEnvelope(nil, newRequestID(requestID, Normal), nil, message, Normal)
	envelope.waiter = waiter
	if timeout > 0 {
		x.clock.SetRequestTimeout(x.clock.Now().Add(timeout), waiter, requestID)
	}
	_ = to.enqueue(envelope, nil)
	return promise.Future()
}

// Ask sends a request and waits for its response
func (x *actorSystem) Ask(ctx context.Context, to *PID, message any, timeout time.Duration) (any, error) {
	return x.Request(ctx, to, timeout, message).Await(ctx)
}

// Kill sends an ExitMsg to the given actor
func (x *actorSystem) Kill(to *PID, reason error) error {
	if !x.running.Load() {
		return gerrors.ErrActorSystemNotStarted
	}
	if to == nil {
		return gerrors.ErrUndefinedActor
	}
	if !to.IsRunning() {
		return gerrors.ErrDead
	}
	if reason == nil {
		reason = gerrors.ExitKill
	}
	exit := &ExitMsg{Reason: reason}
	return to.enqueue(newEnvelope(nil, newMessageID(Urgent), nil, exit, Urgent), nil)
}

// ScheduleOnce sends the message once after the delay
func (x *actorSystem) ScheduleOnce(message any, to *PID, delay time.Duration) (string, error) {
	return x.messages.ScheduleOnce(message, to, delay)
}

// Schedule sends the message at every interval
func (x *actorSystem) Schedule(message any, to *PID, interval time.Duration) (string, error) {
	return x.messages.Schedule(message, to, interval)
}

// ScheduleWithCron sends the message following the cron expression
func (x *actorSystem) ScheduleWithCron(message any, to *PID, cronExpression string) (string, error) {
	return x.messages.ScheduleWithCron(message, to, cronExpression)
}

// CancelSchedule cancels a scheduled message
func (x *actorSystem) CancelSchedule(reference string) error {
	return x.messages.Cancel(reference)
}

// AwaitAllActorsDone blocks until every actor that is not scoped exited
func (x *actorSystem) AwaitAllActorsDone(ctx context.Context) error {
	x.liveMu.Lock()
	idle := x.idle
	x.liveMu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DeadLetters returns the number of undelivered messages
func (x *actorSystem) DeadLetters() int64 {
	return x.deadLetters.Load()
}

// Stats returns a snapshot of the runtime counters
func (x *actorSystem) Stats() Stats {
	stats := x.coordinator.Stats()
	return Stats{
		Actors:      x.ActorsCount(),
		Processed:   x.processed.Load(),
		DeadLetters: x.deadLetters.Load(),
		Executed:    stats.Executed,
		Steals:      stats.Steals,
		Panics:      stats.Panics,
	}
}

func (x *actorSystem) tell(to *PID, message any, priority Category) error {
	if !x.running.Load() {
		return gerrors.ErrActorSystemNotStarted
	}
	if to == nil {
		return gerrors.ErrUndefinedActor
	}
	return to.enqueue(newEnvelope(nil, newMessageID(priority), nil, message, priority), nil)
}

// spawn registers the actor and hands it to the scheduler
func (x *actorSystem) spawn(name string, actor Actor, opts ...SpawnOption) (*PID, error) {
	if !x.running.Load() {
		return nil, gerrors.ErrActorSystemNotStarted
	}
	if actor == nil {
		return nil, gerrors.ErrInvalidInstance
	}
	if name != "" && !actorNamePattern.MatchString(name) {
		return nil, gerrors.ErrInvalidActorName
	}

	config := newSpawnConfig(opts...)
	pid := newPID(x, name, actor, config)
	if err := x.register(pid); err != nil {
		return nil, err
	}

	for _, peer := range config.linkedTo {
		pid.link(peer)
	}
	for _, observer := range config.monitoredBy {
		observer.monitor(pid)
	}

	pid.state.Store(scheduledState)
	if config.detached {
		if err := x.hub.Run(pid.runDetached); err != nil {
			pid.Abort(err)
			return nil, err
		}
		pid.schedule(nil)
		return pid, nil
	}

	if err := x.coordinator.Enqueue(pid); err != nil {
		pid.Abort(err)
		return nil, err
	}
	return pid, nil
}

func (x *actorSystem) register(pid *PID) error {
	if pid.name != "" && !x.names.SetIfAbsent(pid.name, pid) {
		return fmt.Errorf("%w: %s", gerrors.ErrActorAlreadyExists, pid.name)
	}
	x.pids.Set(pidKey(pid), pid)

	if !pid.scoped {
		x.liveMu.Lock()
		if x.live == 0 {
			x.idle = make(chan struct{})
		}
		x.live++
		x.liveMu.Unlock()
	}

	if x.metric != nil {
		attrs := otelmetric.WithAttributes(attribute.String("actor.system", x.name))
		x.metric.SpawnCount().Add(x.ctx, 1, attrs)
		x.metric.RunningActors().Add(x.ctx, 1, attrs)
	}
	return nil
}

// unregister removes an exited actor
func (x *actorSystem) unregister(pid *PID, reason error) {
	x.pids.Delete(pidKey(pid))
	if pid.name != "" {
		x.names.DeleteIf(pid.name, func(current *PID) bool { return current == pid })
	}

	if !pid.scoped {
		x.liveMu.Lock()
		x.live--
		if x.live == 0 {
			close(x.idle)
		}
		x.liveMu.Unlock()
	}

	if x.metric != nil {
		attrs := otelmetric.WithAttributes(
			attribute.String("actor.system", x.name),
			attribute.Bool("actor.normal_exit", gerrors.IsNormalExit(reason)))
		x.metric.ExitCount().Add(x.ctx, 1, attrs)
		x.metric.RunningActors().Add(x.ctx, -1, otelmetric.WithAttributes(attribute.String("actor.system", x.name)))
	}
}

// killAll sends the shutdown signal to every actor
func (x *actorSystem) killAll() error {
	eg := new(errgroup.Group)
	eg.SetLimit(max(x.coordinator.Workers(), 1))
	for _, pid := range x.pids.Values() {
		eg.Go(func() error {
			if pid.scoped {
				if pid.quit(gerrors.ExitUserShutdown) {
					pid.schedule(nil)
				}
				return nil
			}
			kill := &killMsg{reason: gerrors.ExitUserShutdown}
			if err := pid.enqueue(newEnvelope(nil, newMessageID(Urgent), nil, kill, Urgent), nil); err != nil && !errors.Is(err, gerrors.ErrMailboxClosed) {
				return err
			}
			return nil
		})
	}
	return eg.Wait()
}

// bounce handles an envelope that could not be delivered.
// Requests are answered with ErrRequestReceiverDown.
func (x *actorSystem) bounce(envelope *Envelope) {
	if x.metric != nil && x.ctx != nil {
		x.metric.BounceCount().Add(x.ctx, 1, otelmetric.WithAttributes(attribute.String("actor.system", x.name)))
	}
	if envelope.id.IsRequest() && !envelope.id.IsResponse() {
		x.respond(nil, envelope, nil, gerrors.ErrRequestReceiverDown)
		return
	}
	x.deadLetters.Inc()
	x.logger.Debugf("dead letter %T", envelope.payload)
}

// respond answers the given envelope on behalf of from
func (x *actorSystem) respond(from *PID, envelope *Envelope, value any, err error) {
	if envelope.waiter != nil {
		envelope.waiter.complete(value, err)
		return
	}

	sender := envelope.sender
	if sender == nil {
		if err != nil {
			x.logger.Debugf("dropping error reply without receiver: %v", err)
		}
		return
	}

	var unit scheduler.ExecutionUnit
	if from != nil {
		unit = from.unit
	}

	if envelope.id.IsRequest() {
		reply := newEnvelope(from, envelope.id.ResponseID(), nil, &response{value: value, err: err}, envelope.id.Category())
		_ = sender.enqueue(reply, unit)
		return
	}

	if err != nil {
		x.logger.Warnf("dropping error reply to %s: %v", sender, err)
		return
	}
	_ = sender.enqueue(newEnvelope(from, newMessageID(Normal), nil, value, Normal), unit)
}

func (x *actorSystem) recordProcessed(count int) {
	if count <= 0 {
		return
	}
	x.processed.Add(int64(count))
	if x.metric != nil {
		x.metric.ProcessedCount().Add(x.ctx, int64(count), otelmetric.WithAttributes(attribute.String("actor.system", x.name)))
	}
}

func (x *actorSystem) nextID() uint64 {
	return x.ids.Inc()
}

func (x *actorSystem) startMetrics() error {
	if x.meterProvider == nil {
		return nil
	}
	meter := metric.New(metric.WithMeterProvider(x.meterProvider)).Meter()
	runtimeMetric, err := metric.NewRuntimeMetric(meter)
	if err != nil {
		return err
	}
	registration, err := runtimeMetric.ObserveScheduler(meter, func() metric.SchedulerStats {
		stats := x.coordinator.Stats()
		return metric.SchedulerStats{Executed: stats.Executed, Steals: stats.Steals, Panics: stats.Panics}
	})
	if err != nil {
		return err
	}
	x.metric = runtimeMetric
	x.registration = registration
	return nil
}

func pidKey(pid *PID) string {
	return strconv.FormatUint(pid.id, 10)
}
