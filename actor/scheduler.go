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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/coactor/errors"
	"github.com/tochemey/coactor/log"
)

// messageScheduler delivers messages to actors on wall-clock schedules:
// once after a delay, at a fixed interval or following a cron expression.
// Actor-level timeouts do not go through it; they use the system clock.
type messageScheduler struct {
	mu sync.Mutex
	// quartzScheduler is the underlying scheduler
	quartzScheduler quartz.Scheduler
	started         *atomic.Bool
	logger          log.Logger
	stopTimeout     time.Duration
	send            func(to *PID, message any) error
}

func newMessageScheduler(logger log.Logger, stopTimeout time.Duration, send func(to *PID, message any) error) *messageScheduler {
	quartzScheduler, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	return &messageScheduler{
		started:         atomic.NewBool(false),
		quartzScheduler: quartzScheduler,
		logger:          logger,
		stopTimeout:     stopTimeout,
		send:            send,
	}
}

// Start starts the scheduler
func (x *messageScheduler) Start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
	x.logger.Debug("messages scheduler started")
}

// Stop clears the pending jobs and stops the scheduler
func (x *messageScheduler) Stop(ctx context.Context) {
	if !x.started.Load() {
		return
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	_ = x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()
	x.started.Store(x.quartzScheduler.IsStarted())

	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)
	x.logger.Debug("messages scheduler stopped")
}

// ScheduleOnce sends the message once after the given delay
func (x *messageScheduler) ScheduleOnce(message any, to *PID, delay time.Duration) (string, error) {
	return x.schedule(message, to, func() (quartz.Trigger, error) {
		return quartz.NewRunOnceTrigger(delay), nil
	})
}

// Schedule sends the message at every interval
func (x *messageScheduler) Schedule(message any, to *PID, interval time.Duration) (string, error) {
	return x.schedule(message, to, func() (quartz.Trigger, error) {
		return quartz.NewSimpleTrigger(interval), nil
	})
}

// ScheduleWithCron sends the message following the cron expression, in the local time zone
func (x *messageScheduler) ScheduleWithCron(message any, to *PID, cronExpression string) (string, error) {
	return x.schedule(message, to, func() (quartz.Trigger, error) {
		return quartz.NewCronTriggerWithLoc(cronExpression, time.Now().Location())
	})
}

// Cancel removes a scheduled message
func (x *messageScheduler) Cancel(key string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}
	if err := x.quartzScheduler.DeleteJob(quartz.NewJobKey(key)); err != nil {
		return errors.Join(gerrors.ErrScheduledReferenceNotFound, err)
	}
	return nil
}

func (x *messageScheduler) schedule(message any, to *PID, trigger func() (quartz.Trigger, error)) (string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return "", gerrors.ErrSchedulerNotStarted
	}
	if to == nil {
		return "", gerrors.ErrUndefinedActor
	}

	fn := job.NewFunctionJob[bool](
		func(context.Context) (bool, error) {
			err := x.send(to, message)
			return err == nil, err
		},
	)

	tr, err := trigger()
	if err != nil {
		x.logger.Error(fmt.Errorf("failed to schedule message: %w", err))
		return "", err
	}

	key := uuid.NewString()
	detail := quartz.NewJobDetail(fn, quartz.NewJobKey(key))
	if err := x.quartzScheduler.ScheduleJob(detail, tr); err != nil {
		return "", err
	}
	return key, nil
}
