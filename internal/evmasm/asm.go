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

// Package evmasm is a minimal EVM assembler. It only knows what the harness
// needs: pushes, raw opcodes and forward/backward jumps to named labels.
package evmasm

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/vm"
)

// Program accumulates bytecode. Jump targets are emitted as PUSH2 and
// patched when the program is assembled.
type Program struct {
	code   []byte
	labels map[string]int
	fixups map[int]string
}

func New() *Program {
	return &Program{
		labels: make(map[string]int),
		fixups: make(map[int]string),
	}
}

// Op appends raw opcodes.
func (p *Program) Op(ops ...vm.OpCode) *Program {
	for _, op := range ops {
		p.code = append(p.code, byte(op))
	}
	return p
}

// Push appends the shortest PUSHn carrying data. Empty data pushes zero.
func (p *Program) Push(data []byte) *Program {
	if len(data) == 0 {
		data = []byte{0}
	}
	if len(data) > 32 {
		panic(fmt.Sprintf("evmasm: push of %d bytes", len(data)))
	}
	p.code = append(p.code, byte(vm.PUSH1)+byte(len(data)-1))
	p.code = append(p.code, data...)
	return p
}

// PushInt pushes v with the minimal width.
func (p *Program) PushInt(v uint64) *Program {
	return p.Push(new(big.Int).SetUint64(v).Bytes())
}

// Label marks the current position as a jump destination.
func (p *Program) Label(name string) *Program {
	if _, ok := p.labels[name]; ok {
		panic(fmt.Sprintf("evmasm: duplicate label %q", name))
	}
	p.labels[name] = len(p.code)
	return p.Op(vm.JUMPDEST)
}

// Jump jumps unconditionally to label.
func (p *Program) Jump(label string) *Program {
	p.pushLabel(label)
	return p.Op(vm.JUMP)
}

// JumpI jumps to label if the top of the stack is non-zero.
func (p *Program) JumpI(label string) *Program {
	p.pushLabel(label)
	return p.Op(vm.JUMPI)
}

func (p *Program) pushLabel(label string) {
	p.code = append(p.code, byte(vm.PUSH2))
	p.fixups[len(p.code)] = label
	p.code = append(p.code, 0, 0)
}

// Len is the current code size.
func (p *Program) Len() int { return len(p.code) }

// Bytes resolves all labels and returns the assembled code.
func (p *Program) Bytes() ([]byte, error) {
	code := make([]byte, len(p.code))
	copy(code, p.code)
	for pos, label := range p.fixups {
		dest, ok := p.labels[label]
		if !ok {
			return nil, fmt.Errorf("undefined label %q", label)
		}
		if dest > 0xffff {
			return nil, fmt.Errorf("label %q out of PUSH2 range", label)
		}
		code[pos] = byte(dest >> 8)
		code[pos+1] = byte(dest)
	}
	return code, nil
}

// MustBytes is Bytes for programs built from constants.
func (p *Program) MustBytes() []byte {
	code, err := p.Bytes()
	if err != nil {
		panic(err)
	}
	return code
}

// Deployer wraps runtime in init code that copies it to memory and returns
// it, so it can be deployed with a contract creation.
func Deployer(runtime []byte) []byte {
	if len(runtime) > 0xffff {
		panic("evmasm: runtime too large")
	}
	prefix := []byte{
		byte(vm.PUSH2), byte(len(runtime) >> 8), byte(len(runtime)),
		byte(vm.DUP1),
		byte(vm.PUSH2), 0, 0, // runtime offset, patched below
		byte(vm.PUSH1), 0,
		byte(vm.CODECOPY),
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	}
	prefix[6] = byte(len(prefix))
	return append(prefix, runtime...)
}
