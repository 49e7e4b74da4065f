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
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/optyfi/adapterharness/internal/evmasm"
	"github.com/optyfi/adapterharness/ledger"
	"github.com/optyfi/adapterharness/ledger/simledger"
)

func deployRuntime(t *testing.T, l *simledger.Ledger, runtimeCode []byte) common.Address {
	t.Helper()
	accounts, err := l.Accounts(context.Background())
	require.NoError(t, err)
	receipt, err := l.Send(context.Background(), ledger.TxOpts{From: accounts[0]}, nil, evmasm.Deployer(runtimeCode))
	require.NoError(t, err)
	return receipt.ContractAddress
}

func TestERC20Reads(t *testing.T) {
	ctx := context.Background()
	l, err := simledger.New()
	require.NoError(t, err)
	addr := deployRuntime(t, l, evmasm.TokenRuntime(evmasm.NestedLayout, 2, 6))
	holder := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	key := common.BytesToHash(nestedKey(holder, 2))
	require.NoError(t, l.SetStorageAt(ctx, addr, key.Hex(), "0x00000000000000000000000000000000000000000000000000000000000003e8"))

	tokens := NewTokens(l)
	bal, err := tokens.BalanceOf(ctx, addr, holder)
	require.NoError(t, err)
	require.Equal(t, int64(1000), bal.Int64())

	dec, err := tokens.Decimals(ctx, addr)
	require.NoError(t, err)
	require.Equal(t, uint8(6), dec)
	require.Equal(t, addr, tokens.At(addr).Address())
}

func TestERC20Symbol(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	backend := ledger.NewMockLedger(ctrl)
	token := common.HexToAddress("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619")

	method := erc20ABI.Methods["symbol"]
	ret, err := method.Outputs.Pack("WETH")
	require.NoError(t, err)
	backend.EXPECT().Call(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg ledger.CallMsg) ([]byte, error) {
			require.Equal(t, token, msg.To)
			require.Equal(t, method.ID, msg.Data)
			return ret, nil
		})

	symbol, err := NewTokens(backend).Symbol(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "WETH", symbol)
}

func TestTransactRevertKeepsReason(t *testing.T) {
	ctx := context.Background()
	l, err := simledger.New()
	require.NoError(t, err)
	accounts, _ := l.Accounts(ctx)
	addr := deployRuntime(t, l, evmasm.RevertRuntime("caller is not the riskOperator"))

	adapter := NewAdapter(addr, l)
	err = adapter.SetTolerances(ctx, ledger.TxOpts{From: accounts[2]}, []Tolerance{{LiquidityPool: addr, Tolerance: big.NewInt(200)}})
	require.ErrorIs(t, err, ledger.ErrReverted)
	rerr, ok := ledger.AsRevert(err)
	require.True(t, ok)
	require.Equal(t, "caller is not the riskOperator", rerr.Reason)
}

func TestDeployRegistry(t *testing.T) {
	ctx := context.Background()
	l, err := simledger.New()
	require.NoError(t, err)
	accounts, _ := l.Accounts(ctx)

	addr, err := DeployRegistry(ctx, l, accounts[1], accounts[4], accounts[3])
	require.NoError(t, err)

	reg := NewRegistry(addr, l)
	op, err := reg.Operator(ctx)
	require.NoError(t, err)
	require.Equal(t, accounts[4], op)
	risk, err := reg.RiskOperator(ctx)
	require.NoError(t, err)
	require.Equal(t, accounts[3], risk)
}

type codeSettingLedger struct {
	*ledger.MockLedger
	*ledger.MockCodeSetter
}

func TestInstallRegistry(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	addr := common.HexToAddress("0x99bbA657f2BbC93c02D617f8bA121cB8Fc104Acf")
	operator := common.HexToAddress("0x0000000000000000000000000000000000000004")
	risk := common.HexToAddress("0x0000000000000000000000000000000000000003")

	backend := codeSettingLedger{ledger.NewMockLedger(ctrl), ledger.NewMockCodeSetter(ctrl)}
	backend.MockCodeSetter.EXPECT().SetCode(gomock.Any(), addr, evmasm.RegistryRuntime(operator, risk)).Return(nil)
	require.NoError(t, InstallRegistry(ctx, backend, addr, operator, risk))

	plain := ledger.NewMockLedger(ctrl)
	require.ErrorIs(t, InstallRegistry(ctx, plain, addr, operator, risk), ErrNoCodeSetter)
}

func TestSwapPacksPath(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	backend := ledger.NewMockLedger(ctrl)
	router := NewRouter(QuickSwapRouter, backend)

	wmatic := common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270")
	usdc := common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
	to := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	opts := ledger.TxOpts{From: to, Value: big.NewInt(9)}

	backend.EXPECT().Send(gomock.Any(), opts, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ ledger.TxOpts, dest *common.Address, data []byte) (*types.Receipt, error) {
			require.Equal(t, QuickSwapRouter, *dest)
			method, err := routerABI.MethodById(data[:4])
			require.NoError(t, err)
			require.Equal(t, "swapETHForExactTokens", method.Name)
			args, err := method.Inputs.Unpack(data[4:])
			require.NoError(t, err)
			require.Equal(t, []common.Address{wmatic, usdc}, args[1])
			require.Equal(t, to, args[2])
			require.Equal(t, int64(3400), args[3].(*big.Int).Int64())
			return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
		})
	require.NoError(t, router.SwapETHForExactTokens(ctx, opts, big.NewInt(20_000_000), []common.Address{wmatic, usdc}, to, big.NewInt(3400)))

	backend.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&types.Receipt{Status: types.ReceiptStatusFailed}, nil)
	err := router.SwapETHForExactTokens(ctx, opts, big.NewInt(1), []common.Address{wmatic, usdc}, to, big.NewInt(3400))
	require.True(t, errors.Is(err, ledger.ErrReverted))
}

func nestedKey(account common.Address, index byte) []byte {
	return crypto.Keccak256(common.LeftPadBytes([]byte{index}, 32), common.LeftPadBytes(account.Bytes(), 32))
}
