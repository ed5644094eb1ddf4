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
)

// Exit reasons recorded when an actor stops. They are delivered to links
// inside exit messages and to monitors inside down messages.
// Any other error is a valid exit reason as well.
var (
	// ExitNormal is the reason of an actor that finished its work.
	ExitNormal = errors.New("normal")
	// ExitUnhandledException is the reason of an actor whose handler panicked.
	ExitUnhandledException = errors.New("unhandled exception")
	// ExitUserShutdown is the reason used when an actor is stopped on user request.
	ExitUserShutdown = errors.New("user shutdown")
	// ExitKill terminates an actor unconditionally; it cannot be trapped.
	ExitKill = errors.New("kill")
	// ExitUnreachable is the reason of an actor that cannot be reached anymore.
	ExitUnreachable = errors.New("unreachable")
	// ExitUnknown is used when no reason was given.
	ExitUnknown = errors.New("unknown")
)

// IsNormalExit reports whether the given reason denotes a regular termination.
func IsNormalExit(reason error) bool {
	return reason == nil || errors.Is(reason, ExitNormal)
}
