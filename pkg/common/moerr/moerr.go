// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package moerr is the join engine's error package: every error the engine
// raises carries one of a fixed set of kinds so callers can branch on cause
// rather than message text.
package moerr

import "fmt"

// Kind is one of the error tags from spec.md §7.
type Kind uint8

const (
	KindNotImplemented Kind = iota
	KindSyntaxError
	KindLogicalError
	KindTypeMismatch
	KindNoSuchColumn
	KindArgCountMismatch
	KindSizeLimitExceeded
	KindUnsupportedJoinKeys
	KindIncompatibleJoinType
)

func (k Kind) String() string {
	switch k {
	case KindNotImplemented:
		return "NOT_IMPLEMENTED"
	case KindSyntaxError:
		return "SYNTAX_ERROR"
	case KindLogicalError:
		return "LOGICAL_ERROR"
	case KindTypeMismatch:
		return "TYPE_MISMATCH"
	case KindNoSuchColumn:
		return "NO_SUCH_COLUMN_IN_TABLE"
	case KindArgCountMismatch:
		return "NUMBER_OF_ARGUMENTS_DOESNT_MATCH"
	case KindSizeLimitExceeded:
		return "SET_SIZE_LIMIT_EXCEEDED"
	case KindUnsupportedJoinKeys:
		return "UNSUPPORTED_JOIN_KEYS"
	case KindIncompatibleJoinType:
		return "INCOMPATIBLE_TYPE_OF_JOIN"
	default:
		return "UNKNOWN"
	}
}

// Error is the join engine's error value: a Kind plus a formatted message.
// It never wraps partial state — by the time one of these is constructed,
// the call that triggered it has already unwound any partial mutation.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

func NewNotImplemented(format string, args ...any) *Error {
	return newError(KindNotImplemented, format, args...)
}

func NewSyntaxError(format string, args ...any) *Error {
	return newError(KindSyntaxError, format, args...)
}

func NewLogicalError(format string, args ...any) *Error {
	return newError(KindLogicalError, format, args...)
}

func NewTypeMismatch(format string, args ...any) *Error {
	return newError(KindTypeMismatch, format, args...)
}

func NewNoSuchColumn(format string, args ...any) *Error {
	return newError(KindNoSuchColumn, format, args...)
}

func NewArgCountMismatch(format string, args ...any) *Error {
	return newError(KindArgCountMismatch, format, args...)
}

func NewSizeLimitExceeded(format string, args ...any) *Error {
	return newError(KindSizeLimitExceeded, format, args...)
}

func NewUnsupportedJoinKeys(format string, args ...any) *Error {
	return newError(KindUnsupportedJoinKeys, format, args...)
}

func NewIncompatibleJoinType(format string, args ...any) *Error {
	return newError(KindIncompatibleJoinType, format, args...)
}

// Is reports whether err is a *Error of the given kind, following the
// stdlib errors.Is convention for a single sentinel-by-field check.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
