// Copyright 2025 kernelbench Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package kb

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// KindInvalidArgument is a violated precondition: a bad size, a block
	// size that does not divide n, a short or aliased buffer.
	KindInvalidArgument Kind = iota

	// KindAllocation is a scratch or matrix allocation that cannot be made.
	KindAllocation

	// KindMismatch is a kernel result that disagrees with its reference.
	KindMismatch

	// KindIO is a failure reading or writing benchmark data.
	KindIO
)

// String returns the kind as a string.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindAllocation:
		return "Allocation"
	case KindMismatch:
		return "Mismatch"
	case KindIO:
		return "IO"
	default:
		return "Unknown"
	}
}

// Error is the structured error returned by kernels and harnesses.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "dgemm.Blocked"
	Message string
	Err     error // underlying cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s error: %s: %v", e.Op, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Op, e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind carrying the same
// message, so the sentinels below match errors created with Errorf.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message && (t.Op == "" || t.Op == e.Op)
}

// Sentinels for errors.Is. Their Op is empty so they match any operation.
var (
	ErrNotDivisible = &Error{Kind: KindInvalidArgument, Message: "n is not a multiple of the block size"}
	ErrBadSize      = &Error{Kind: KindInvalidArgument, Message: "size must be positive"}
	ErrShortBuffer  = &Error{Kind: KindInvalidArgument, Message: "buffer shorter than n*n"}
	ErrAliased      = &Error{Kind: KindInvalidArgument, Message: "output overlaps an input"}
	ErrTooLarge     = &Error{Kind: KindAllocation, Message: "allocation exceeds limit"}
)

// Errorf returns a copy of sentinel bound to op, with detail appended to the
// underlying cause. errors.Is(err, sentinel) holds for the result.
func Errorf(op string, sentinel *Error, format string, args ...any) error {
	e := *sentinel
	e.Op = op
	if format != "" {
		e.Err = fmt.Errorf(format, args...)
	}
	return &e
}

// NewIOError wraps an I/O failure on path.
func NewIOError(op, path string, err error) error {
	return &Error{Kind: KindIO, Op: op, Message: path, Err: err}
}

// NewInvalidArgError creates an invalid argument error.
func NewInvalidArgError(op, message string) error {
	return &Error{Kind: KindInvalidArgument, Op: op, Message: message}
}

// IsInvalidArgument reports whether err is a precondition violation.
func IsInvalidArgument(err error) bool {
	return kindOf(err) == KindInvalidArgument
}

// IsAllocation reports whether err is an allocation failure.
func IsAllocation(err error) bool {
	return kindOf(err) == KindAllocation
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var m *Mismatch
	if errors.As(err, &m) {
		return KindMismatch
	}
	return -1
}
