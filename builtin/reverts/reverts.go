// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies why a call was rejected.
type Kind uint8

const (
	Validation Kind = iota + 1
	Authorization
	Timing
	Funding
	Arithmetic
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Authorization:
		return "authorization"
	case Timing:
		return "timing"
	case Funding:
		return "funding"
	case Arithmetic:
		return "arithmetic"
	}
	return "unknown"
}

var (
	ErrInvalidAmount         = New(Validation, "invalid amount")
	ErrZeroAddress           = New(Validation, "zero address")
	ErrInsufficientBalance   = New(Validation, "insufficient balance")
	ErrInsufficientAllowance = New(Validation, "insufficient allowance")
	ErrInvalidConfig         = New(Validation, "invalid configuration")
	ErrNotOwner              = New(Authorization, "caller is not the owner")
	ErrEmissionNotReady      = New(Timing, "emission not available yet")
	ErrNothingVested         = New(Timing, "no tokens are due")
	ErrRewardTooHigh         = New(Funding, "provided reward too high")
	ErrRateTooHigh           = New(Validation, "emission per year exceeds maximum")
	ErrOverflow              = New(Arithmetic, "arithmetic overflow")
)

// Error is a contract rejection. The whole call is reverted when it is returned.
type Error struct {
	kind    Kind
	message string
	base    *Error
}

// New creates a root revert error.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Errorf derives an error from base, keeping its kind. The result matches base with errors.Is.
func Errorf(base *Error, format string, args ...any) *Error {
	return &Error{
		kind:    base.kind,
		message: base.message + ": " + fmt.Sprintf(format, args...),
		base:    base,
	}
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e == t || (e.base != nil && e.base == t)
}

// IsRevertErr reports whether err is, or wraps, a revert error.
func IsRevertErr(err any) bool {
	e, ok := err.(error)
	if !ok || e == nil {
		return false
	}
	var re *Error
	return errors.As(e, &re) && re != nil
}

// KindOf returns the kind of a revert error, and false for any other error.
func KindOf(err error) (Kind, bool) {
	var re *Error
	if errors.As(err, &re) && re != nil {
		return re.kind, true
	}
	return 0, false
}
