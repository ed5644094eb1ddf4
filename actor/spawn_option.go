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

// spawnConfig defines the configuration to apply when creating an actor
type spawnConfig struct {
	// detached actors run on their own goroutine taken from the worker hub
	detached bool
	// actors to link with before the actor starts
	linkedTo []*PID
	// actors receiving a DownMsg when the actor exits
	monitoredBy    []*PID
	defaultHandler DefaultHandler
	errorHandler   ErrorHandler
}

// newSpawnConfig creates an instance of spawnConfig
func newSpawnConfig(opts ...SpawnOption) *spawnConfig {
	config := new(spawnConfig)
	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// SpawnOption is the interface that applies to
type SpawnOption interface {
	// Apply sets the Option value of a config.
	Apply(config *spawnConfig)
}

var _ SpawnOption = spawnOption(nil)

// spawnOption implements the SpawnOption interface.
type spawnOption func(config *spawnConfig)

// Apply sets the Option value of a config.
func (f spawnOption) Apply(c *spawnConfig) {
	f(c)
}

// WithDetached runs the actor on a dedicated goroutine instead of the shared
// workers. Use it for actors that block.
func WithDetached() SpawnOption {
	return spawnOption(func(config *spawnConfig) {
		config.detached = true
	})
}

// WithLinkedTo links the actor with the given actors before it starts
func WithLinkedTo(pids ...*PID) SpawnOption {
	return spawnOption(func(config *spawnConfig) {
		config.linkedTo = append(config.linkedTo, pids...)
	})
}

// WithMonitoredBy makes the given actors monitor the actor before it starts
func WithMonitoredBy(pids ...*PID) SpawnOption {
	return spawnOption(func(config *spawnConfig) {
		config.monitoredBy = append(config.monitoredBy, pids...)
	})
}

// WithDefaultHandler sets the handler of messages the active Behavior does not match.
// By default requests are answered with ErrUnexpectedMessage and other messages dropped.
func WithDefaultHandler(handler DefaultHandler) SpawnOption {
	return spawnOption(func(config *spawnConfig) {
		config.defaultHandler = handler
	})
}

// WithErrorHandler sets the handler of dispatch failures.
// By default the actor exits with ExitUnhandledException wrapping the failure.
func WithErrorHandler(handler ErrorHandler) SpawnOption {
	return spawnOption(func(config *spawnConfig) {
		config.errorHandler = handler
	})
}
