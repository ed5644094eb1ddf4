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
	"fmt"

	gerrors "github.com/tochemey/coactor/errors"
	"github.com/tochemey/coactor/internal/registry"
)

// Factory creates an Actor from construction arguments
type Factory func(args ...any) (Actor, error)

// Registry maps actor kinds to their factories. It is built by the
// application and handed to the actor system with WithRegistry.
type Registry struct {
	factories *registry.Map[Factory]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{factories: registry.New[Factory](0)}
}

// Register adds or replaces the factory of the given kind
func (r *Registry) Register(kind string, factory Factory) *Registry {
	r.factories.Set(kind, factory)
	return r
}

// Deregister removes the factory of the given kind
func (r *Registry) Deregister(kind string) {
	r.factories.Delete(kind)
}

// Lookup returns the factory of the given kind
func (r *Registry) Lookup(kind string) (Factory, bool) {
	return r.factories.Get(kind)
}

// Kinds returns the number of registered kinds
func (r *Registry) Kinds() int {
	return r.factories.Len()
}

// Factory0 adapts a constructor without arguments
func Factory0(fn func() (Actor, error)) Factory {
	return func(args ...any) (Actor, error) {
		if len(args) != 0 {
			return nil, fmt.Errorf("%w: expected no argument, got %d", gerrors.ErrInvalidArguments, len(args))
		}
		return fn()
	}
}

// Factory1 adapts a constructor taking one argument of type A
func Factory1[A any](fn func(A) (Actor, error)) Factory {
	return func(args ...any) (Actor, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: expected 1 argument, got %d", gerrors.ErrInvalidArguments, len(args))
		}
		a, err := argAt[A](args, 0)
		if err != nil {
			return nil, err
		}
		return fn(a)
	}
}

// Factory2 adapts a constructor taking two arguments of types A and B
func Factory2[A, B any](fn func(A, B) (Actor, error)) Factory {
	return func(args ...any) (Actor, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: expected 2 arguments, got %d", gerrors.ErrInvalidArguments, len(args))
		}
		a, err := argAt[A](args, 0)
		if err != nil {
			return nil, err
		}
		b, err := argAt[B](args, 1)
		if err != nil {
			return nil, err
		}
		return fn(a, b)
	}
}

func argAt[T any](args []any, index int) (T, error) {
	value, ok := args[index].(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: argument %d is %T, expected %T", gerrors.ErrInvalidArguments, index, args[index], zero)
	}
	return value, nil
}
