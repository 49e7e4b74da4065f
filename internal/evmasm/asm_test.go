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
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/vm"
)

func TestPushWidth(t *testing.T) {
	tests := []struct {
		name string
		prog *Program
		want string
	}{
		{"zero", New().PushInt(0), "0x6000"},
		{"one byte", New().PushInt(0xe0), "0x60e0"},
		{"two bytes", New().PushInt(0x1234), "0x611234"},
		{"selector", New().Push(Selector("balanceOf(address)")), "0x6370a08231"},
		{"decimals selector", New().Push(Selector("decimals()")), "0x63313ce567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hexutil.Encode(tt.prog.MustBytes()); got != tt.want {
				t.Fatalf("code mismatch: got %s want %s", got, tt.want)
			}
		})
	}
}

func TestLabels(t *testing.T) {
	p := New().Jump("end").Op(vm.INVALID).Label("end").Op(vm.STOP)
	code, err := p.Bytes()
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	// PUSH2 0x0005 JUMP INVALID JUMPDEST STOP
	want := []byte{byte(vm.PUSH2), 0x00, 0x05, byte(vm.JUMP), byte(vm.INVALID), byte(vm.JUMPDEST), byte(vm.STOP)}
	if !bytes.Equal(code, want) {
		t.Fatalf("code mismatch: got %x want %x", code, want)
	}
}

func TestUndefinedLabel(t *testing.T) {
	if _, err := New().JumpI("nowhere").Bytes(); err == nil {
		t.Fatal("expected error for undefined label")
	}
}

func TestDeployerPrefix(t *testing.T) {
	runtime := TokenRuntime(DirectLayout, 0, 18)
	code := Deployer(runtime)
	if !bytes.Equal(code[13:], runtime) {
		t.Fatal("runtime not appended after the 13-byte prefix")
	}
	if size := int(code[1])<<8 | int(code[2]); size != len(runtime) {
		t.Fatalf("size mismatch: got %d want %d", size, len(runtime))
	}
	if code[6] != 13 {
		t.Fatalf("offset mismatch: got %d want 13", code[6])
	}
}
