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

package contracts

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/optyfi/adapterharness/internal/evmasm"
	"github.com/optyfi/adapterharness/ledger"
)

// ErrNoCodeSetter is returned when a registry must be installed in place on
// a backend that cannot replace code.
var ErrNoCodeSetter = errors.New("backend cannot set code")

// Registry is a bound adapter registry.
type Registry struct {
	bound
}

func NewRegistry(address common.Address, backend ledger.Ledger) *Registry {
	return &Registry{newBound(address, registryABI, backend)}
}

func (r *Registry) Operator(ctx context.Context) (common.Address, error) {
	return r.callAddress(ctx, "getOperator")
}

func (r *Registry) RiskOperator(ctx context.Context) (common.Address, error) {
	return r.callAddress(ctx, "getRiskOperator")
}

// InstallRegistry replaces the code at addr with a registry reporting
// operator and riskOperator. Adapters deployed against addr then accept the
// harness signers.
func InstallRegistry(ctx context.Context, backend ledger.Ledger, addr, operator, riskOperator common.Address) error {
	setter, ok := backend.(ledger.CodeSetter)
	if !ok {
		return ErrNoCodeSetter
	}
	if err := setter.SetCode(ctx, addr, evmasm.RegistryRuntime(operator, riskOperator)); err != nil {
		return fmt.Errorf("install registry at %s: %w", addr, err)
	}
	log.Info("Installed registry stand-in", "address", addr, "operator", operator, "riskOperator", riskOperator)
	return nil
}

// DeployRegistry deploys a registry reporting operator and riskOperator and
// returns its address.
func DeployRegistry(ctx context.Context, backend ledger.Ledger, from, operator, riskOperator common.Address) (common.Address, error) {
	code := evmasm.Deployer(evmasm.RegistryRuntime(operator, riskOperator))
	receipt, err := backend.Send(ctx, ledger.TxOpts{From: from}, nil, code)
	if err != nil {
		return common.Address{}, fmt.Errorf("deploy registry: %w", err)
	}
	log.Info("Deployed registry stand-in", "address", receipt.ContractAddress, "operator", operator, "riskOperator", riskOperator)
	return receipt.ContractAddress, nil
}
