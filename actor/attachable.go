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
	"weak"
)

type attachableKind int

const (
	linkAttachable attachableKind = iota
	monitorAttachable
	funcAttachable
)

// attachable is run when the actor holding it exits.
// Observers are held weakly so a link or a monitor never keeps an actor alive.
type attachable struct {
	kind       attachableKind
	observer   weak.Pointer[PID]
	observerID uint64
	fn         func(reason error)
}

// attach registers the attachable. It returns false when the actor already exited.
func (pid *PID) attach(a *attachable) bool {
	pid.mu.Lock()
	defer pid.mu.Unlock()
	if pid.exitReason != nil {
		return false
	}
	if a.kind == linkAttachable {
		if !pid.links.Add(a.observerID) {
			return true
		}
	}
	pid.attachables = append(pid.attachables, a)
	return true
}

// detach removes the first attachable of the given kind observed by the given actor
func (pid *PID) detach(kind attachableKind, observerID uint64) {
	pid.mu.Lock()
	defer pid.mu.Unlock()
	for i, a := range pid.attachables {
		if a.kind == kind && a.observerID == observerID {
			pid.attachables = append(pid.attachables[:i], pid.attachables[i+1:]...)
			break
		}
	}
	if kind == linkAttachable {
		pid.links.Remove(observerID)
	}
}

// IsLinkedTo reports whether the actor is linked to other
func (pid *PID) IsLinkedTo(other *PID) bool {
	if other == nil {
		return false
	}
	pid.mu.Lock()
	defer pid.mu.Unlock()
	return pid.links.Contains(other.id)
}

// Links returns the ids of the linked actors
func (pid *PID) Links() []uint64 {
	pid.mu.Lock()
	defer pid.mu.Unlock()
	return pid.links.ToSlice()
}

func (pid *PID) link(other *PID) {
	if other == nil || other == pid {
		return
	}
	if !pid.attach(&attachable{kind: linkAttachable, observer: weak.Make(other), observerID: other.id}) {
		return
	}
	if !other.attach(&attachable{kind: linkAttachable, observer: weak.Make(pid), observerID: pid.id}) {
		pid.detach(linkAttachable, other.id)
		exit := &ExitMsg{Source: other, Reason: other.ExitReason()}
		_ = pid.enqueue(newEnvelope(other, newMessageID(Urgent), nil, exit, Urgent), pid.unit)
	}
}

func (pid *PID) unlink(other *PID) {
	if other == nil || other == pid {
		return
	}
	pid.detach(linkAttachable, other.id)
	other.detach(linkAttachable, pid.id)
}

func (pid *PID) monitor(other *PID) {
	if other == nil || other == pid {
		return
	}
	if !other.attach(&attachable{kind: monitorAttachable, observer: weak.Make(pid), observerID: pid.id}) {
		down := &DownMsg{Source: other, Reason: other.ExitReason()}
		_ = pid.enqueue(newEnvelope(other, newMessageID(Normal), nil, down, Normal), pid.unit)
	}
}

// notifyAttachables sends the ExitMsg to links first, then the DownMsg to
// monitors, and finally runs the exit callbacks.
func notifyAttachables(source *PID, attachables []*attachable, reason error) {
	for _, kind := range []attachableKind{linkAttachable, monitorAttachable, funcAttachable} {
		for _, a := range attachables {
			if a.kind != kind {
				continue
			}
			switch kind {
			case linkAttachable:
				if observer := a.observer.Value(); observer != nil {
					observer.detach(linkAttachable, source.id)
					exit := &ExitMsg{Source: source, Reason: reason}
					_ = observer.enqueue(newEnvelope(source, newMessageID(Urgent), nil, exit, Urgent), source.unit)
				}
			case monitorAttachable:
				if observer := a.observer.Value(); observer != nil {
					down := &DownMsg{Source: source, Reason: reason}
					_ = observer.enqueue(newEnvelope(source, newMessageID(Normal), nil, down, Normal), source.unit)
				}
			case funcAttachable:
				runAttached(source, a.fn, reason)
			}
		}
	}
}

func runAttached(source *PID, fn func(error), reason error) {
	defer func() {
		if r := recover(); r != nil {
			source.logger.Errorf("exit callback panicked: %v", r)
		}
	}()
	fn(reason)
}
