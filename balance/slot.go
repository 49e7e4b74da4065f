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

// Package balance forges ERC-20 balances on a forked ledger by locating the
// storage slot of a token's balance mapping and overwriting the holder's
// entry, falling back to buying the tokens when no slot can be found.
package balance

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrSlotNotFound is returned when no candidate slot of either storage
// convention controls the balance of the probe account.
var ErrSlotNotFound = errors.New("balances slot not found")

// ErrBalanceNotSet is returned when balanceOf does not report the amount
// written into the located slot.
var ErrBalanceNotSet = errors.New("balance write not reflected by balanceOf")

// Convention is the key layout of a balance mapping.
type Convention uint8

const (
	// DirectMapping keys are keccak256(abi.encode(account, index)).
	DirectMapping Convention = iota
	// NestedMapping keys are keccak256(abi.encode(index, account)).
	NestedMapping
)

func (c Convention) String() string {
	switch c {
	case DirectMapping:
		return "direct"
	case NestedMapping:
		return "nested"
	default:
		return fmt.Sprintf("convention(%d)", uint8(c))
	}
}

// Slot is the declaration index and key convention of a balance mapping.
type Slot struct {
	Index      uint64
	Convention Convention
}

func (s Slot) String() string {
	return fmt.Sprintf("%s/%d", s.Convention, s.Index)
}

// Token is a token contract and its decimals.
type Token struct {
	Address  common.Address
	Decimals uint8
}

// SlotKey returns the storage key holding account's entry in the mapping
// declared at index under the given convention.
func SlotKey(account common.Address, index uint64, convention Convention) common.Hash {
	acc := common.LeftPadBytes(account.Bytes(), 32)
	idx := common.LeftPadBytes(new(big.Int).SetUint64(index).Bytes(), 32)
	if convention == NestedMapping {
		return crypto.Keccak256Hash(idx, acc)
	}
	return crypto.Keccak256Hash(acc, idx)
}

// NormalizeSlot strips redundant leading zero nibbles from a 0x-prefixed
// slot, one at a time, keeping "0x0" for the zero slot. Dev nodes reject
// storage positions with leading zeros.
func NormalizeSlot(slot string) string {
	for strings.HasPrefix(slot, "0x0") && len(slot) > 3 {
		slot = "0x" + slot[3:]
	}
	return slot
}

// StripZeros removes leading zero nibbles from a hex quantity.
func StripZeros(hex string) string {
	return NormalizeSlot(hex)
}

// EncodeWord renders v as a 0x-prefixed, zero-padded 32-byte word.
func EncodeWord(v *big.Int) string {
	return fmt.Sprintf("0x%064x", v)
}
