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

package ledger

import (
	"errors"
	"regexp"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrReverted is wrapped by every RevertError.
var ErrReverted = errors.New("execution reverted")

// RevertError is returned when a call or transaction reverts. Reason holds
// the decoded Error(string) payload when there is one.
type RevertError struct {
	Reason string
	Data   []byte
}

func (e *RevertError) Error() string {
	if e.Reason != "" {
		return "execution reverted: " + e.Reason
	}
	if len(e.Data) > 0 {
		return "execution reverted: " + hexutil.Encode(e.Data)
	}
	return "execution reverted"
}

func (e *RevertError) Unwrap() error { return ErrReverted }

// NewRevertError builds a RevertError from raw revert data.
func NewRevertError(data []byte) *RevertError {
	err := &RevertError{Data: data}
	if reason, uerr := abi.UnpackRevert(data); uerr == nil {
		err.Reason = reason
	}
	return err
}

// AsRevert reports whether err is, or wraps, a RevertError.
func AsRevert(err error) (*RevertError, bool) {
	var rerr *RevertError
	if errors.As(err, &rerr) {
		return rerr, true
	}
	return nil, false
}

// Node error messages that carry a revert reason.
var revertMessagePatterns = []*regexp.Regexp{
	// hardhat
	regexp.MustCompile(`reverted with reason string '(.*)'`),
	// geth, anvil
	regexp.MustCompile(`^execution reverted: (.*)$`),
}

// ReasonFromMessage extracts a revert reason from a node error message.
func ReasonFromMessage(msg string) (string, bool) {
	for _, re := range revertMessagePatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			return m[1], true
		}
	}
	return "", false
}
