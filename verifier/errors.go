// Copyright 2026 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package verifier

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/optyfi/adapterharness/ledger"
)

// ErrCheckFailed is wrapped by every failed assertion.
var ErrCheckFailed = errors.New("check failed")

// StepError annotates an error with the protocol step it happened in.
type StepError struct {
	Step int
	Name string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Step, e.Name, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func stepError(step int, name string, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, Name: name, Err: err}
}

// SkipError reports a scenario that could not be run.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string { return "skipped: " + e.Reason }

// Skip returns a SkipError with a formatted reason.
func Skip(format string, args ...interface{}) error {
	return &SkipError{Reason: fmt.Sprintf(format, args...)}
}

// IsSkip reports whether err is, or wraps, a SkipError.
func IsSkip(err error) (string, bool) {
	var serr *SkipError
	if errors.As(err, &serr) {
		return serr.Reason, true
	}
	return "", false
}

// ExpectRevert returns nil when err is a revert carrying exactly reason.
func ExpectRevert(err error, reason string) error {
	if err == nil {
		return fmt.Errorf("%w: expected revert %q, call succeeded", ErrCheckFailed, reason)
	}
	rerr, ok := ledger.AsRevert(err)
	if !ok {
		return fmt.Errorf("%w: expected revert %q, got: %v", ErrCheckFailed, reason, err)
	}
	if rerr.Reason != reason {
		return fmt.Errorf("%w: expected revert %q, reverted with %q", ErrCheckFailed, reason, rerr.Reason)
	}
	return nil
}

func expectEqual(what string, got, want *big.Int) error {
	if got.Cmp(want) != 0 {
		return fmt.Errorf("%w: %s: got %s, want %s", ErrCheckFailed, what, got, want)
	}
	return nil
}

func expectAtLeast(what string, got, floor *big.Int) error {
	if got.Cmp(floor) < 0 {
		return fmt.Errorf("%w: %s: got %s, want at least %s", ErrCheckFailed, what, got, floor)
	}
	return nil
}
