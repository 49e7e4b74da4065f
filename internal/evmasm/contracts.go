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

package evmasm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
)

// Layout selects how a token runtime derives the storage key of a balance.
type Layout int

const (
	// DirectLayout hashes abi.encode(account, index), solidity's mapping layout.
	DirectLayout Layout = iota
	// NestedLayout hashes abi.encode(index, account), vyper's HashMap layout.
	NestedLayout
	// OpaqueLayout hashes the account alone, matching neither convention.
	OpaqueLayout
)

// Selector returns the 4-byte function selector of a signature.
func Selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

// TokenRuntime returns runtime code of a read-only token answering
// balanceOf(address) from storage and decimals() with a constant. Any other
// call reverts.
func TokenRuntime(layout Layout, index uint64, decimals uint8) []byte {
	p := New()
	dispatch(p,
		route{"balanceOf(address)", "balance"},
		route{"decimals()", "decimals"},
	)

	p.Label("balance")
	hashLen := uint64(0x40)
	switch layout {
	case DirectLayout:
		p.PushInt(4).Op(vm.CALLDATALOAD).PushInt(0).Op(vm.MSTORE)
		p.PushInt(index).PushInt(0x20).Op(vm.MSTORE)
	case NestedLayout:
		p.PushInt(index).PushInt(0).Op(vm.MSTORE)
		p.PushInt(4).Op(vm.CALLDATALOAD).PushInt(0x20).Op(vm.MSTORE)
	case OpaqueLayout:
		p.PushInt(4).Op(vm.CALLDATALOAD).PushInt(0).Op(vm.MSTORE)
		hashLen = 0x20
	}
	p.PushInt(hashLen).PushInt(0).Op(vm.KECCAK256, vm.SLOAD)
	returnWord(p)

	p.Label("decimals")
	p.PushInt(uint64(decimals))
	returnWord(p)
	return p.MustBytes()
}

// RegistryRuntime returns runtime code of a registry stand-in that reports
// the given operator and risk operator and reverts on anything else.
func RegistryRuntime(operator, riskOperator common.Address) []byte {
	p := New()
	dispatch(p,
		route{"getOperator()", "operator"},
		route{"getRiskOperator()", "risk"},
	)

	p.Label("operator")
	p.Push(operator.Bytes())
	returnWord(p)

	p.Label("risk")
	p.Push(riskOperator.Bytes())
	returnWord(p)
	return p.MustBytes()
}

type route struct {
	signature string
	label     string
}

// dispatch emits a selector switch over routes and a bare revert when
// nothing matches.
func dispatch(p *Program, routes ...route) {
	p.PushInt(0).Op(vm.CALLDATALOAD).PushInt(0xe0).Op(vm.SHR)
	for _, r := range routes {
		p.Op(vm.DUP1).Push(Selector(r.signature)).Op(vm.EQ).JumpI(r.label)
	}
	p.PushInt(0).Op(vm.DUP1, vm.REVERT)
}

// returnWord returns the top of the stack as a single 32-byte word.
func returnWord(p *Program) {
	p.PushInt(0).Op(vm.MSTORE)
	p.PushInt(0x20).PushInt(0).Op(vm.RETURN)
}

// RevertRuntime returns runtime code that reverts every call with
// Error(reason). reason must fit in a single word.
func RevertRuntime(reason string) []byte {
	if len(reason) > 32 {
		panic("evmasm: revert reason longer than 32 bytes")
	}
	selector := common.RightPadBytes(Selector("Error(string)"), 32)
	p := New()
	p.Push(selector).PushInt(0).Op(vm.MSTORE)
	p.PushInt(0x20).PushInt(0x04).Op(vm.MSTORE)
	p.PushInt(uint64(len(reason))).PushInt(0x24).Op(vm.MSTORE)
	p.Push(common.RightPadBytes([]byte(reason), 32)).PushInt(0x44).Op(vm.MSTORE)
	p.PushInt(0x64).PushInt(0).Op(vm.REVERT)
	return p.MustBytes()
}
