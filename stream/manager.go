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
	"maps"
	"slices"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/coactor/actor"
	"github.com/tochemey/coactor/clock"
	gerrors "github.com/tochemey/coactor/errors"
	"github.com/tochemey/coactor/log"
)

const (
	tickLabel = "stream"

	creditRoundBit uint64 = 1 << 0
	flushBit       uint64 = 1 << 1
)

type role uint8

const (
	sourceRole role = iota
	sinkRole
	stageRole
)

func (r role) String() string {
	switch r {
	case sourceRole:
		return "source"
	case sinkRole:
		return "sink"
	default:
		return "stage"
	}
}

// Manager runs the stream protocol on behalf of one actor.
//
// A source owns outbound paths only, a sink inbound paths only and a stage
// both. The Manager is registered as an interceptor of its actor and must
// only be used from the actor's own execution.
type Manager struct {
	ctx    *actor.Context
	logger log.Logger
	config Config
	role   role
	onDone func(err error)

	source SourceDriver
	sink   SinkDriver
	stage  StageDriver

	inbound  map[Slot]*InboundPath
	outbound map[Slot]*OutboundPath
	watched  mapset.Set[*actor.PID]
	lastSlot Slot
	hadPaths bool

	buffer       []any
	upstreamDone bool
	upstreamErr  error
	finalized    bool
	failure      error
	done         bool

	ticks        *clock.TickEmitter
	creditPeriod uint64
	flushPeriod  uint64
	tickDue      time.Time
}

// enforce compilation error
var _ actor.Interceptor = (*Manager)(nil)

// NewSource attaches a source Manager to the actor
func NewSource(ctx *actor.Context, driver SourceDriver, opts ...Option) (*Manager, error) {
	if driver == nil {
		return nil, gerrors.ErrInvalidArguments
	}
	m := &Manager{role: sourceRole, source: driver}
	return m, m.attach(ctx, opts)
}

// NewSink attaches a sink Manager to the actor
func NewSink(ctx *actor.Context, driver SinkDriver, opts ...Option) (*Manager, error) {
	if driver == nil {
		return nil, gerrors.ErrInvalidArguments
	}
	m := &Manager{role: sinkRole, sink: driver}
	return m, m.attach(ctx, opts)
}

// NewStage attaches a stage Manager to the actor
func NewStage(ctx *actor.Context, driver StageDriver, opts ...Option) (*Manager, error) {
	if driver == nil {
		return nil, gerrors.ErrInvalidArguments
	}
	m := &Manager{role: stageRole, stage: driver}
	return m, m.attach(ctx, opts)
}

func (m *Manager) attach(ctx *actor.Context, opts []Option) error {
	if ctx == nil {
		return gerrors.ErrInvalidArguments
	}
	for _, interceptor := range ctx.Interceptors() {
		if _, ok := interceptor.(*Manager); ok {
			return gerrors.ErrStreamAlreadyAttached
		}
	}

	m.config = DefaultConfig()
	for _, opt := range opts {
		opt.Apply(m)
	}
	if err := m.config.Validate(); err != nil {
		return err
	}

	interval := m.config.tickInterval()
	m.ctx = ctx
	m.logger = ctx.Logger().With("stream", m.role.String())
	m.inbound = make(map[Slot]*InboundPath)
	m.outbound = make(map[Slot]*OutboundPath)
	m.watched = mapset.NewThreadUnsafeSet[*actor.PID]()
	m.ticks = clock.NewTickEmitter(ctx.Clock().Now(), interval)
	m.creditPeriod = uint64(m.config.CreditRoundInterval / interval)
	m.flushPeriod = uint64(m.config.MaxBatchDelay / interval)

	ctx.Intercept(m)
	ctx.Attach(m.stop)
	return nil
}

// Done reports whether the last path was removed
func (m *Manager) Done() bool {
	return m.done
}

// Err returns the first failure the stream went through
func (m *Manager) Err() error {
	return m.failure
}

// Idle reports whether the manager can make no progress until a peer acts.
// The tick timeout is only armed while the manager is not idle.
func (m *Manager) Idle() bool {
	return !m.awaitingBatches() && !m.outboundPending()
}

// Buffered returns the number of items waiting for credit
func (m *Manager) Buffered() int {
	return len(m.buffer)
}

// InboundPath returns the inbound path at the given slot
func (m *Manager) InboundPath(slot Slot) (*InboundPath, bool) {
	path, ok := m.inbound[slot]
	return path, ok
}

// OutboundPath returns the outbound path at the given slot
func (m *Manager) OutboundPath(slot Slot) (*OutboundPath, bool) {
	path, ok := m.outbound[slot]
	return path, ok
}

// InboundPaths returns the number of inbound paths
func (m *Manager) InboundPaths() int {
	return len(m.inbound)
}

// OutboundPaths returns the number of outbound paths
func (m *Manager) OutboundPaths() int {
	return len(m.outbound)
}

// Subscribe asks the producer for an outbound path towards this actor and
// returns the slot of the new inbound path
func (m *Manager) Subscribe(producer *actor.PID) (Slot, error) {
	if err := m.canAdd(sourceRole, producer); err != nil {
		return 0, err
	}
	path := newInboundPath(m.nextSlot(), producer, m.config.SmoothingFactor)
	m.inbound[path.slot] = path
	m.watch(producer)
	if err := m.ctx.Tell(producer, &Open{Slots: Slots{Sender: path.slot}}); err != nil {
		m.peerLost(producer, err)
		return 0, err
	}
	return path.slot, nil
}

// AddOutboundPath offers a path to the consumer and returns its slot.
// The path carries no credit until the consumer acknowledged it.
func (m *Manager) AddOutboundPath(consumer *actor.PID) (Slot, error) {
	if err := m.canAdd(sinkRole, consumer); err != nil {
		return 0, err
	}
	path := newOutboundPath(m.nextSlot(), consumer, m.ctx.Clock().Now())
	m.outbound[path.slot] = path
	m.watch(consumer)
	if err := m.ctx.Tell(consumer, &Handshake{Slots: Slots{Sender: path.slot}}); err != nil {
		m.peerLost(consumer, err)
		return 0, err
	}
	return path.slot, nil
}

// AddInboundPath accepts a Handshake from the producer, grants the initial
// credit and returns the slot of the new inbound path
func (m *Manager) AddInboundPath(producer *actor.PID, handshake *Handshake) (Slot, error) {
	if handshake == nil || handshake.Slots.Sender == 0 {
		return 0, gerrors.ErrInvalidArguments
	}
	if err := m.canAdd(sourceRole, producer); err != nil {
		return 0, err
	}
	path := newInboundPath(m.nextSlot(), producer, m.config.SmoothingFactor)
	path.peerSlot = handshake.Slots.Sender
	m.inbound[path.slot] = path
	m.watch(producer)

	credit := m.desiredCredit(path)
	path.assignedCredit = credit
	path.desiredBatchSize = max(credit, 1)
	ack := &AckHandshake{Slots: path.slots(), Credit: credit, DesiredBatchSize: path.desiredBatchSize}
	if err := m.ctx.Tell(producer, ack); err != nil {
		m.peerLost(producer, err)
		return 0, err
	}
	return path.slot, nil
}

// RemoveInboundPath cancels the inbound path at the given slot. The producer
// receives a Drop, or a ForcedDrop carrying the reason when it is not nil.
func (m *Manager) RemoveInboundPath(slot Slot, reason error) error {
	if m.done {
		return gerrors.ErrStreamClosed
	}
	path, ok := m.inbound[slot]
	if !ok {
		return gerrors.ErrUnknownSlot
	}
	if path.peerSlot != 0 {
		var msg any = &Drop{Slots: path.slots()}
		if reason != nil {
			msg = &ForcedDrop{Slots: path.slots(), Reason: reason}
		}
		_ = m.ctx.Tell(path.peer, msg)
	}
	m.removeInbound(path, reason)
	m.advance()
	return nil
}

// RemoveOutboundPath closes the outbound path at the given slot. The consumer
// receives a Close, or a ForcedClose carrying the reason when it is not nil.
func (m *Manager) RemoveOutboundPath(slot Slot, reason error) error {
	if m.done {
		return gerrors.ErrStreamClosed
	}
	path, ok := m.outbound[slot]
	if !ok {
		return gerrors.ErrUnknownSlot
	}
	if path.peerSlot != 0 {
		var msg any = &Close{Slots: path.slots()}
		if reason != nil {
			msg = &ForcedClose{Slots: path.slots(), Reason: reason}
		}
		_ = m.ctx.Tell(path.peer, msg)
	}
	m.removeOutbound(path, reason)
	m.advance()
	return nil
}

// Fail aborts the whole stream: every producer receives a ForcedDrop and
// every consumer a ForcedClose carrying the reason. Buffered items are lost.
func (m *Manager) Fail(reason error) error {
	switch {
	case m.done:
		return gerrors.ErrStreamClosed
	case reason == nil:
		return gerrors.ErrInvalidArguments
	}
	m.abort(reason)
	m.complete(m.failure)
	return nil
}

// Intercept handles the stream control messages, the tick timeouts and the
// DownMsg of peers. Anything else is left to the actor.
func (m *Manager) Intercept(ctx *actor.ReceiveContext) bool {
	sender := ctx.Sender()
	switch msg := ctx.Message().(type) {
	case *Open:
		m.handleOpen(sender, msg)
	case *AckOpen:
		m.handleAckOpen(sender, msg)
	case *Handshake:
		m.handleHandshake(sender, msg)
	case *AckHandshake:
		m.handleAckHandshake(sender, msg)
	case *AckBatch:
		m.handleAckBatch(sender, msg)
	case *Batch:
		m.handleBatch(sender, msg)
	case *Close:
		m.handleClose(sender, msg.Slots, nil)
	case *ForcedClose:
		m.handleClose(sender, msg.Slots, orUnknown(msg.Reason))
	case *Drop:
		m.handleDrop(sender, msg.Slots, nil)
	case *ForcedDrop:
		m.handleDrop(sender, msg.Slots, orUnknown(msg.Reason))
	case *clock.TimeoutMsg:
		if msg.Label != tickLabel {
			return false
		}
		m.handleTick()
	case *actor.DownMsg:
		if !m.watched.Contains(msg.Source) {
			return false
		}
		m.watched.Remove(msg.Source)
		m.deferLoss(msg.Source, orUnknown(msg.Reason))
	case *peerDown:
		m.handlePeerDown(msg)
	default:
		return false
	}
	m.advance()
	return true
}

func (m *Manager) handleOpen(sender *actor.PID, msg *Open) {
	if m.role == sinkRole || m.done || sender == nil || msg.Slots.Sender == 0 {
		m.reject(sender, &ForcedClose{Slots: msg.Slots.invert(), Reason: m.rejection()})
		return
	}
	path := newOutboundPath(m.nextSlot(), sender, m.ctx.Clock().Now())
	path.peerSlot = msg.Slots.Sender
	m.outbound[path.slot] = path
	m.watch(sender)
	m.send(sender, &AckOpen{Slots: path.slots()})
}

func (m *Manager) handleAckOpen(sender *actor.PID, msg *AckOpen) {
	path, ok := m.inbound[msg.Slots.Receiver]
	if !ok || path.peer != sender || path.peerSlot != 0 || msg.Slots.Sender == 0 {
		m.unknownInbound(sender, msg.Slots)
		return
	}
	path.peerSlot = msg.Slots.Sender
	m.grant(path)
}

func (m *Manager) handleHandshake(sender *actor.PID, msg *Handshake) {
	if m.role == sourceRole || m.done {
		m.reject(sender, &ForcedDrop{Slots: msg.Slots.invert(), Reason: m.rejection()})
		return
	}
	if _, err := m.AddInboundPath(sender, msg); err != nil {
		m.logger.Debugf("handshake from %s refused: %v", sender, err)
	}
}

func (m *Manager) handleAckHandshake(sender *actor.PID, msg *AckHandshake) {
	path, ok := m.outbound[msg.Slots.Receiver]
	if !ok || path.peer != sender || path.peerSlot != 0 || msg.Slots.Sender == 0 {
		m.unknownOutbound(sender, msg.Slots)
		return
	}
	path.peerSlot = msg.Slots.Sender
	path.desiredBatchSize = max(msg.DesiredBatchSize, 1)
	path.Grant(msg.Credit)
}

func (m *Manager) handleAckBatch(sender *actor.PID, msg *AckBatch) {
	path := m.outboundFor(sender, msg.Slots)
	if path == nil {
		m.unknownOutbound(sender, msg.Slots)
		return
	}
	path.desiredBatchSize = max(msg.DesiredBatchSize, 1)
	path.Grant(msg.Credit)
}

func (m *Manager) handleBatch(sender *actor.PID, msg *Batch) {
	path := m.inboundFor(sender, msg.Slots)
	if path == nil {
		m.unknownInbound(sender, msg.Slots)
		return
	}
	path.received(msg.ID, len(msg.Items))
	if len(msg.Items) == 0 {
		return
	}

	clk := m.ctx.Clock()
	start := clk.Now()
	switch m.role {
	case sinkRole:
		m.sink.Consume(msg.Items)
	case stageRole:
		m.stage.Process(msg.Items, m.push)
	}
	path.stats.Record(clk.Now().Sub(start), len(msg.Items))
}

func (m *Manager) handleClose(sender *actor.PID, slots Slots, reason error) {
	path := m.inboundFor(sender, slots)
	if path == nil {
		// a closed path is never answered
		m.logger.Debugf("close for unknown slot %d from %s", slots.Receiver, sender)
		return
	}
	m.removeInbound(path, reason)
}

func (m *Manager) handleDrop(sender *actor.PID, slots Slots, reason error) {
	path := m.outboundFor(sender, slots)
	if path == nil {
		m.logger.Debugf("drop for unknown slot %d from %s", slots.Receiver, sender)
		return
	}
	m.removeOutbound(path, reason)
}

func (m *Manager) handleTick() {
	m.tickDue = time.Time{}
	mask := m.ticks.Timeouts(m.ctx.Clock().Now(), m.creditPeriod, m.flushPeriod)
	if mask&creditRoundBit != 0 {
		m.creditRound()
	}
	if mask&flushBit != 0 {
		m.pull()
		m.emit(true)
	}
}

// advance moves the stream forward after any event
func (m *Manager) advance() {
	if m.done {
		return
	}
	m.pull()
	m.emit(false)
	m.closeDrained()
	if m.hadPaths && len(m.inbound) == 0 && len(m.outbound) == 0 {
		m.complete(m.failure)
		return
	}
	m.arm()
}

// creditRound tops up the credit of every inbound path to its desired value
func (m *Manager) creditRound() {
	for _, path := range m.inboundPaths() {
		if path.peerSlot == 0 || m.inbound[path.slot] != path {
			continue
		}
		m.grant(path)
	}
}

func (m *Manager) grant(path *InboundPath) {
	desired := m.desiredCredit(path)
	credit := desired - path.assignedCredit
	if credit <= 0 {
		return
	}
	path.assignedCredit += credit
	path.desiredBatchSize = max(desired, 1)
	m.send(path.peer, &AckBatch{
		Slots:            path.slots(),
		Credit:           credit,
		DesiredBatchSize: path.desiredBatchSize,
		LastBatchID:      path.lastBatchID,
	})
}

// desiredCredit returns the credit the path should hold. A stage never
// accepts more items than its buffer can hold.
func (m *Manager) desiredCredit(path *InboundPath) int {
	desired := path.stats.DesiredCredit(m.config.DesiredBatchComplexity, m.config.InitialCredit, m.config.MaxCredit)
	if m.role != stageRole {
		return desired
	}
	free := m.config.MaxBufferedItems - len(m.buffer)
	for _, other := range m.inbound {
		if other != path {
			free -= other.assignedCredit
		}
	}
	return max(min(desired, free), 0)
}

// pull asks the source for as many items as the open credit allows
func (m *Manager) pull() {
	if m.role != sourceRole || m.upstreamDone {
		return
	}
	demand := min(m.openCredit(), m.config.MaxBufferedItems) - len(m.buffer)
	if demand <= 0 {
		return
	}
	items, done, err := m.source.Pull(demand)
	if err != nil {
		m.logger.Debugf("source failed: %v", err)
		m.abort(err)
		return
	}
	m.buffer = append(m.buffer, items...)
	if done {
		m.upstreamDone = true
	}
}

// abort removes every path with the given reason and tells the peers
func (m *Manager) abort(reason error) {
	m.fail(reason)
	if m.upstreamErr == nil {
		m.upstreamErr = reason
	}
	m.upstreamDone = true
	m.buffer = nil
	for _, path := range m.inboundPaths() {
		if path.peerSlot != 0 {
			_ = m.ctx.Tell(path.peer, &ForcedDrop{Slots: path.slots(), Reason: reason})
		}
		m.removeInbound(path, reason)
	}
	for _, path := range m.outboundPaths() {
		if path.peerSlot != 0 {
			_ = m.ctx.Tell(path.peer, &ForcedClose{Slots: path.slots(), Reason: reason})
		}
		m.removeOutbound(path, nil)
	}
	m.finalize(m.upstreamErr)
}

func (m *Manager) push(item any) {
	m.buffer = append(m.buffer, item)
}

// emit sends batches while credit and items are available. A partial batch
// waits for the batch delay unless forced or the upstream is done.
func (m *Manager) emit(force bool) {
	if len(m.buffer) == 0 {
		return
	}
	now := m.ctx.Clock().Now()
	for _, path := range m.outboundPaths() {
		for len(m.buffer) > 0 && path.ready() && m.outbound[path.slot] == path {
			size := min(path.openCredit, path.desiredBatchSize, len(m.buffer))
			partial := size < path.desiredBatchSize
			if partial && !force && !m.upstreamDone && now.Sub(path.lastEmit) < m.config.MaxBatchDelay {
				break
			}

			items := slices.Clone(m.buffer[:size])
			m.buffer = slices.Delete(m.buffer, 0, size)
			path.consume(size)
			batch := &Batch{Slots: path.slots(), ID: path.nextBatchID, Items: items}
			path.nextBatchID++
			path.lastEmit = now
			m.send(path.peer, batch)
		}
	}
}

// closeDrained closes the outbound paths once the upstream is done and the
// buffer is empty. Paths still waiting for their handshake close later.
func (m *Manager) closeDrained() {
	if m.role == sinkRole || !m.upstreamDone || len(m.buffer) > 0 {
		return
	}
	for _, path := range m.outboundPaths() {
		if path.peerSlot == 0 || m.outbound[path.slot] != path {
			continue
		}
		var msg any = &Close{Slots: path.slots()}
		if m.upstreamErr != nil {
			msg = &ForcedClose{Slots: path.slots(), Reason: m.upstreamErr}
		}
		m.removeOutbound(path, nil)
		_ = m.ctx.Tell(path.peer, msg)
	}
}

func (m *Manager) removeInbound(path *InboundPath, reason error) {
	delete(m.inbound, path.slot)
	m.unwatch(path.peer)
	if reason != nil {
		m.fail(reason)
		if m.upstreamErr == nil {
			m.upstreamErr = reason
		}
	}
	if len(m.inbound) == 0 {
		m.upstreamDone = true
		m.finalize(m.upstreamErr)
	}
}

func (m *Manager) removeOutbound(path *OutboundPath, reason error) {
	delete(m.outbound, path.slot)
	m.unwatch(path.peer)
	if reason == nil {
		return
	}
	m.fail(reason)
	if m.role == stageRole && len(m.outbound) == 0 {
		// nobody is left to take the items: abort the upstream
		for _, in := range m.inboundPaths() {
			if m.inbound[in.slot] != in {
				continue
			}
			if in.peerSlot != 0 {
				_ = m.ctx.Tell(in.peer, &ForcedDrop{Slots: in.slots(), Reason: reason})
			}
			m.removeInbound(in, reason)
		}
		m.buffer = nil
	}
}

// peerLost removes every path of an unreachable peer
func (m *Manager) peerLost(peer *actor.PID, reason error) {
	m.dropInbound(peer, reason)
	m.dropOutbound(peer, reason)
}

func (m *Manager) dropInbound(peer *actor.PID, reason error) {
	for _, path := range m.inboundPaths() {
		if path.peer == peer && m.inbound[path.slot] == path {
			m.removeInbound(path, reason)
		}
	}
}

func (m *Manager) dropOutbound(peer *actor.PID, reason error) {
	for _, path := range m.outboundPaths() {
		if path.peer == peer && m.outbound[path.slot] == path {
			m.removeOutbound(path, reason)
		}
	}
}

// peerDown marks the loss of a peer behind the control messages the peer
// sent before it exited
type peerDown struct {
	peer     *actor.PID
	reason   error
	category actor.Category
}

func (p *peerDown) Category() actor.Category {
	return p.category
}

// deferLoss queues the loss of the peer in both control categories so that
// the batches and acks it sent are handled first
func (m *Manager) deferLoss(peer *actor.PID, reason error) {
	self := m.ctx.Self()
	for _, category := range []actor.Category{actor.DownstreamControl, actor.UpstreamControl} {
		if err := m.ctx.Tell(self, &peerDown{peer: peer, reason: reason, category: category}); err != nil {
			m.peerLost(peer, reason)
			return
		}
	}
}

func (m *Manager) handlePeerDown(msg *peerDown) {
	if msg.category == actor.DownstreamControl {
		m.dropInbound(msg.peer, msg.reason)
		return
	}
	m.dropOutbound(msg.peer, msg.reason)
}

// arm schedules the next tick, or cancels it when the manager is idle
func (m *Manager) arm() {
	var creditPeriod, flushPeriod uint64
	if m.awaitingBatches() {
		creditPeriod = m.creditPeriod
	}
	if m.outboundPending() {
		flushPeriod = m.flushPeriod
	}
	if creditPeriod == 0 && flushPeriod == 0 {
		m.disarm()
		return
	}

	now := m.ctx.Clock().Now()
	due := m.ticks.NextTimeout(now, creditPeriod, flushPeriod)
	if due.Equal(m.tickDue) {
		return
	}
	m.tickDue = due
	m.ctx.SetTimeout(tickLabel, due.Sub(now))
}

func (m *Manager) disarm() {
	if !m.tickDue.IsZero() {
		m.tickDue = time.Time{}
		m.ctx.CancelTimeout(tickLabel)
	}
}

// awaitingBatches reports whether an inbound path has outstanding credit or
// could be granted more
func (m *Manager) awaitingBatches() bool {
	for _, path := range m.inbound {
		if path.peerSlot == 0 {
			continue
		}
		if path.assignedCredit > 0 || m.desiredCredit(path) > path.assignedCredit {
			return true
		}
	}
	return false
}

// outboundPending reports whether buffered items can be emitted or the
// source can be pulled
func (m *Manager) outboundPending() bool {
	if m.role == sinkRole {
		return false
	}
	credit := m.openCredit()
	if credit == 0 {
		return false
	}
	if len(m.buffer) > 0 {
		return true
	}
	return m.role == sourceRole && !m.upstreamDone
}

func (m *Manager) openCredit() int {
	var credit int
	for _, path := range m.outbound {
		if path.peerSlot != 0 {
			credit += path.openCredit
		}
	}
	return credit
}

// stop completes the manager when its actor exits
func (m *Manager) stop(reason error) {
	if m.done {
		return
	}
	m.done = true
	m.inbound = make(map[Slot]*InboundPath)
	m.outbound = make(map[Slot]*OutboundPath)
	m.buffer = nil
	m.fail(reason)
	m.finalize(reason)
	if m.onDone != nil {
		m.onDone(m.failure)
	}
}

func (m *Manager) complete(err error) {
	m.done = true
	m.buffer = nil
	m.disarm()
	m.finalize(err)
	m.logger.Debugf("stream done: %v", err)
	if m.onDone != nil {
		m.onDone(err)
	}
}

func (m *Manager) finalize(err error) {
	if m.finalized {
		return
	}
	switch m.role {
	case sinkRole:
		m.finalized = true
		m.sink.Finalize(err)
	case stageRole:
		m.finalized = true
		m.stage.Finalize(err)
	}
}

func (m *Manager) fail(err error) {
	if err != nil && m.failure == nil {
		m.failure = err
	}
}

func (m *Manager) send(to *actor.PID, message any) {
	if err := m.ctx.Tell(to, message); err != nil {
		m.logger.Debugf("stream peer %s unreachable: %v", to, err)
		m.peerLost(to, gerrors.ExitUnreachable)
	}
}

func (m *Manager) reject(to *actor.PID, message any) {
	if to != nil {
		_ = m.ctx.Tell(to, message)
	}
}

func (m *Manager) rejection() error {
	if m.done {
		return gerrors.ErrStreamClosed
	}
	return gerrors.ErrUnknownSlot
}

func (m *Manager) unknownInbound(sender *actor.PID, slots Slots) {
	m.logger.Debugf("message for unknown inbound slot %d from %s", slots.Receiver, sender)
	m.reject(sender, &ForcedDrop{Slots: slots.invert(), Reason: gerrors.ErrUnknownSlot})
}

func (m *Manager) unknownOutbound(sender *actor.PID, slots Slots) {
	m.logger.Debugf("message for unknown outbound slot %d from %s", slots.Receiver, sender)
	m.reject(sender, &ForcedClose{Slots: slots.invert(), Reason: gerrors.ErrUnknownSlot})
}

func (m *Manager) canAdd(excluded role, peer *actor.PID) error {
	switch {
	case m.done:
		return gerrors.ErrStreamClosed
	case m.role == excluded:
		return gerrors.ErrInvalidArguments
	case peer == nil:
		return gerrors.ErrUndefinedActor
	}
	return nil
}

func (m *Manager) inboundFor(sender *actor.PID, slots Slots) *InboundPath {
	path, ok := m.inbound[slots.Receiver]
	if !ok || path.peer != sender || path.peerSlot != slots.Sender {
		return nil
	}
	return path
}

func (m *Manager) outboundFor(sender *actor.PID, slots Slots) *OutboundPath {
	path, ok := m.outbound[slots.Receiver]
	if !ok || path.peer != sender || path.peerSlot != slots.Sender {
		return nil
	}
	return path
}

func (m *Manager) inboundPaths() []*InboundPath {
	paths := make([]*InboundPath, 0, len(m.inbound))
	for _, slot := range slices.Sorted(maps.Keys(m.inbound)) {
		paths = append(paths, m.inbound[slot])
	}
	return paths
}

func (m *Manager) outboundPaths() []*OutboundPath {
	paths := make([]*OutboundPath, 0, len(m.outbound))
	for _, slot := range slices.Sorted(maps.Keys(m.outbound)) {
		paths = append(paths, m.outbound[slot])
	}
	return paths
}

func (m *Manager) nextSlot() Slot {
	m.lastSlot++
	m.hadPaths = true
	return m.lastSlot
}

// watch monitors the peer once, whatever the number of paths it has
func (m *Manager) watch(peer *actor.PID) {
	if m.watched.Add(peer) {
		m.ctx.Monitor(peer)
	}
}

func (m *Manager) unwatch(peer *actor.PID) {
	if !m.watched.Contains(peer) {
		return
	}
	for _, path := range m.inbound {
		if path.peer == peer {
			return
		}
	}
	for _, path := range m.outbound {
		if path.peer == peer {
			return
		}
	}
	m.watched.Remove(peer)
	m.ctx.Demonitor(peer)
}

func orUnknown(err error) error {
	if err == nil {
		return gerrors.ExitUnknown
	}
	return err
}
