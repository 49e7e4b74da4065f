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

package balance

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optyfi/adapterharness/contracts"
	"github.com/optyfi/adapterharness/internal/evmasm"
	"github.com/optyfi/adapterharness/ledger"
	"github.com/optyfi/adapterharness/ledger/simledger"
)

var holder = common.HexToAddress("0x00000000000000000000000000000000000000aa")

type fixture struct {
	ledger  *simledger.Ledger
	tokens  *contracts.Tokens
	storage *countingStorage
	probe   *Probe
	locator *Locator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	l, err := simledger.New()
	require.NoError(t, err)
	f := &fixture{ledger: l, tokens: contracts.NewTokens(l), storage: &countingStorage{Storage: l}}
	f.probe = NewProbe(f.storage)
	f.locator = NewLocator(f.probe, f.tokens)
	return f
}

func (f *fixture) deploy(t *testing.T, layout evmasm.Layout, index uint64, decimals uint8) common.Address {
	t.Helper()
	accounts, err := f.ledger.Accounts(context.Background())
	require.NoError(t, err)
	receipt, err := f.ledger.Send(context.Background(), ledger.TxOpts{From: accounts[0]}, nil, evmasm.Deployer(evmasm.TokenRuntime(layout, index, decimals)))
	require.NoError(t, err)
	return receipt.ContractAddress
}

// countingStorage counts reads so cache hits can be observed.
type countingStorage struct {
	Storage
	reads int
}

func (c *countingStorage) StorageAt(ctx context.Context, addr common.Address, slot string) (string, error) {
	c.reads++
	return c.Storage.StorageAt(ctx, addr, slot)
}

func TestNormalizeSlot(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0x0ab", "0xab"},
		{"0x000012", "0x12"},
		{"0xab00", "0xab00"},
		{"0x0", "0x0"},
		{"0x0000", "0x0"},
		{"0x" + "0" + "ad3228b676f7d3cd4284a5443f17f1962b36e491b30a40b2405849e597ba5f", "0xad3228b676f7d3cd4284a5443f17f1962b36e491b30a40b2405849e597ba5f"},
	}
	for _, tt := range tests {
		if got := NormalizeSlot(tt.in); got != tt.want {
			t.Errorf("NormalizeSlot(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if got := StripZeros(tt.in); got != tt.want {
			t.Errorf("StripZeros(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlotKey(t *testing.T) {
	zero := common.Address{}
	// keccak256 of 64 zero bytes
	want := common.HexToHash("0xad3228b676f7d3cd4284a5443f17f1962b36e491b30a40b2405849e597ba5fb5")
	assert.Equal(t, want, SlotKey(zero, 0, DirectMapping))
	assert.Equal(t, want, SlotKey(zero, 0, NestedMapping))

	assert.NotEqual(t, SlotKey(holder, 3, DirectMapping), SlotKey(holder, 3, NestedMapping))
	assert.NotEqual(t, SlotKey(holder, 3, DirectMapping), SlotKey(holder, 4, DirectMapping))
}

func TestEncodeWord(t *testing.T) {
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000012345", EncodeWord(big.NewInt(0x12345)))
	assert.Equal(t, probeSentinel, EncodeWord(big.NewInt(0x12345)))
	assert.Len(t, EncodeWord(new(big.Int)), 66)
}

func TestLocateDirectMapping(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	token := f.deploy(t, evmasm.DirectLayout, 9, 18)

	// Pre-existing words in the slots probed before the match must survive.
	for i := uint64(0); i < 9; i++ {
		key := SlotKey(probeAccount, i, DirectMapping).Hex()
		require.NoError(t, f.ledger.SetStorageAt(ctx, token, key, EncodeWord(big.NewInt(int64(1000+i)))))
	}
	slot, err := f.locator.Locate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, Slot{Index: 9, Convention: DirectMapping}, slot)

	for i := uint64(0); i < 10; i++ {
		key := SlotKey(probeAccount, i, DirectMapping).Hex()
		got, err := f.ledger.StorageAt(ctx, token, key)
		require.NoError(t, err)
		want := EncodeWord(new(big.Int))
		if i < 9 {
			want = EncodeWord(big.NewInt(int64(1000 + i)))
		}
		require.Equal(t, want, got, "slot %d not restored", i)
	}
}

func TestLocateNestedMapping(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	token := f.deploy(t, evmasm.NestedLayout, 51, 6)

	slot, err := f.locator.Locate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, Slot{Index: 51, Convention: NestedMapping}, slot)
	require.Equal(t, "nested/51", slot.String())

	bal, err := f.tokens.BalanceOf(ctx, token, probeAccount)
	require.NoError(t, err)
	require.Zero(t, bal.Sign(), "probe account balance left modified")
}

func TestLocateNotFound(t *testing.T) {
	tests := []struct {
		name   string
		layout evmasm.Layout
		index  uint64
	}{
		{"opaque layout", evmasm.OpaqueLayout, 0},
		{"direct index out of range", evmasm.DirectLayout, 100},
		{"nested index out of range", evmasm.NestedLayout, 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			token := f.deploy(t, tt.layout, tt.index, 18)

			_, err := f.locator.Locate(ctx, token)
			require.ErrorIs(t, err, ErrSlotNotFound)
			require.Equal(t, 2*maxSlotIndex, f.storage.reads)

			_, err = f.locator.Locate(ctx, token)
			require.ErrorIs(t, err, ErrSlotNotFound)
			require.Equal(t, 2*maxSlotIndex, f.storage.reads, "miss was not cached")
		})
	}
}

func TestLocateRestoresEveryCandidate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	token := f.deploy(t, evmasm.OpaqueLayout, 0, 18)

	want := make(map[string]string)
	for i := uint64(0); i < maxSlotIndex; i++ {
		want[SlotKey(probeAccount, i, DirectMapping).Hex()] = EncodeWord(big.NewInt(int64(1000 + i)))
	}
	// Index 0 shares its key across conventions; the nested word wins.
	for i := uint64(0); i < maxSlotIndex; i++ {
		want[SlotKey(probeAccount, i, NestedMapping).Hex()] = EncodeWord(big.NewInt(int64(5000 + i)))
	}
	require.Len(t, want, 2*maxSlotIndex-1)
	for key, word := range want {
		require.NoError(t, f.ledger.SetStorageAt(ctx, token, key, word))
	}

	_, err := f.locator.Locate(ctx, token)
	require.ErrorIs(t, err, ErrSlotNotFound)
	for key, word := range want {
		got, err := f.ledger.StorageAt(ctx, token, key)
		require.NoError(t, err)
		require.Equal(t, word, got, "slot %s not restored", key)
	}
}

func TestLocateCachesAndForgets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	token := f.deploy(t, evmasm.DirectLayout, 2, 18)

	_, err := f.locator.Locate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, 3, f.storage.reads)

	_, err = f.locator.Locate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, 3, f.storage.reads)

	f.locator.Forget(token)
	_, err = f.locator.Locate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, 6, f.storage.reads)
}

type failingReader struct{ err error }

func (r failingReader) BalanceOf(context.Context, common.Address, common.Address) (*big.Int, error) {
	return nil, r.err
}

func TestLocateRestoresWhenBalanceOfFails(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	backend := ledger.NewMockLedger(ctrl)
	token := common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
	key := NormalizeSlot(SlotKey(probeAccount, 0, DirectMapping).Hex())
	prev := EncodeWord(big.NewInt(7))

	gomock.InOrder(
		backend.EXPECT().StorageAt(gomock.Any(), token, key).Return(prev, nil),
		backend.EXPECT().SetStorageAt(gomock.Any(), token, key, probeSentinel).Return(nil),
		backend.EXPECT().SetStorageAt(gomock.Any(), token, key, prev).Return(nil),
	)
	boom := errors.New("balanceOf reverted")
	locator := NewLocator(NewProbe(backend), failingReader{boom})
	_, err := locator.Locate(ctx, token)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrSlotNotFound)
}

func TestLocateReportsRestoreFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	backend := ledger.NewMockLedger(ctrl)
	token := common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
	zero := EncodeWord(new(big.Int))

	backend.EXPECT().StorageAt(gomock.Any(), token, gomock.Any()).Return(zero, nil)
	backend.EXPECT().SetStorageAt(gomock.Any(), token, gomock.Any(), probeSentinel).Return(nil)
	restoreErr := errors.New("node went away")
	backend.EXPECT().SetStorageAt(gomock.Any(), token, gomock.Any(), zero).Return(restoreErr)

	locator := NewLocator(NewProbe(backend), contracts.NewTokens(stubBalance{backend, big.NewInt(0x12345)}))
	_, err := locator.Locate(ctx, token)
	require.ErrorIs(t, err, restoreErr)
}

// stubBalance answers every call with a fixed uint256 word.
type stubBalance struct {
	*ledger.MockLedger
	value *big.Int
}

func (s stubBalance) Call(ctx context.Context, msg ledger.CallMsg) ([]byte, error) {
	return common.LeftPadBytes(s.value.Bytes(), 32), nil
}

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		amount   string
		decimals uint8
		want     string
		wantErr  bool
	}{
		{"20", 18, "20000000000000000000", false},
		{"20", 6, "20000000", false},
		{"30000", 6, "30000000000", false},
		{"0.1", 8, "10000000", false},
		{"0", 18, "0", false},
		{"1.5", 0, "", true},
		{"0.0000001", 6, "", true},
		{"-1", 18, "", true},
		{"twenty", 18, "", true},
	}
	for _, tt := range tests {
		got, err := ToBaseUnits(tt.amount, tt.decimals)
		if tt.wantErr {
			assert.Error(t, err, "amount %s", tt.amount)
			continue
		}
		require.NoError(t, err, "amount %s", tt.amount)
		assert.Equal(t, tt.want, got.String(), "amount %s", tt.amount)
	}
}

type recordedSwap struct {
	opts      ledger.TxOpts
	amountOut *big.Int
	path      []common.Address
	to        common.Address
	deadline  *big.Int
}

type fakeSwapper struct {
	swaps []recordedSwap
	err   error
}

func (s *fakeSwapper) SwapETHForExactTokens(ctx context.Context, opts ledger.TxOpts, amountOut *big.Int, path []common.Address, to common.Address, deadline *big.Int) error {
	s.swaps = append(s.swaps, recordedSwap{opts, amountOut, path, to, deadline})
	return s.err
}

func (f *fixture) injector(swapper Swapper, funder common.Address) *Injector {
	return NewInjector(f.probe, f.locator, f.tokens, swapper, f.ledger, FallbackConfig{Funder: funder})
}

func TestSetBalance(t *testing.T) {
	tests := []struct {
		name     string
		layout   evmasm.Layout
		index    uint64
		decimals uint8
		want     string
	}{
		{"direct 18 decimals", evmasm.DirectLayout, 0, 18, "20000000000000000000"},
		{"direct 6 decimals", evmasm.DirectLayout, 9, 6, "20000000"},
		{"nested", evmasm.NestedLayout, 3, 8, "2000000000"},
		{"nested at index 0", evmasm.NestedLayout, 0, 18, "20000000000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			token := f.deploy(t, tt.layout, tt.index, tt.decimals)
			swapper := new(fakeSwapper)
			in := f.injector(swapper, common.Address{})

			require.NoError(t, in.SetBalance(ctx, token, holder, "20"))
			bal, err := f.tokens.BalanceOf(ctx, token, holder)
			require.NoError(t, err)
			require.Equal(t, tt.want, bal.String())

			// Injection is an overwrite, not an increment.
			require.NoError(t, in.SetBalance(ctx, token, holder, "20"))
			bal, err = f.tokens.BalanceOf(ctx, token, holder)
			require.NoError(t, err)
			require.Equal(t, tt.want, bal.String())
			require.Empty(t, swapper.swaps)
		})
	}
}

func TestSetBalanceNestedAtIndexZero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	token := f.deploy(t, evmasm.NestedLayout, 0, 6)
	in := f.injector(new(fakeSwapper), common.Address{})

	// The zero account cannot tell the two conventions apart at index 0.
	slot, err := f.locator.Locate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, Slot{Index: 0, Convention: DirectMapping}, slot)

	require.NoError(t, in.SetBalance(ctx, token, holder, "20"))
	bal, err := f.tokens.BalanceOf(ctx, token, holder)
	require.NoError(t, err)
	require.Equal(t, "20000000", bal.String())

	direct, err := f.ledger.StorageAt(ctx, token, SlotKey(holder, 0, DirectMapping).Hex())
	require.NoError(t, err)
	require.Equal(t, EncodeWord(new(big.Int)), direct, "direct-mapping write not rolled back")

	slot, err = f.locator.Locate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, Slot{Index: 0, Convention: NestedMapping}, slot)

	require.NoError(t, in.SetBalance(ctx, token, holder, "5"))
	bal, err = f.tokens.BalanceOf(ctx, token, holder)
	require.NoError(t, err)
	require.Equal(t, "5000000", bal.String())
}

// frozenTokens reports a fixed balance whatever the storage holds.
type frozenTokens struct {
	balance  *big.Int
	decimals uint8
}

func (ft frozenTokens) BalanceOf(context.Context, common.Address, common.Address) (*big.Int, error) {
	return ft.balance, nil
}

func (ft frozenTokens) Decimals(context.Context, common.Address) (uint8, error) {
	return ft.decimals, nil
}

func TestSetBalanceNotReflected(t *testing.T) {
	tests := []struct {
		name  string
		index uint64
		keys  []Convention
	}{
		{"direct at index 9", 9, []Convention{DirectMapping}},
		{"ambiguous index 0", 0, []Convention{DirectMapping, NestedMapping}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			token := f.deploy(t, evmasm.DirectLayout, tt.index, 6)
			swapper := new(fakeSwapper)
			in := NewInjector(f.probe, f.locator, frozenTokens{new(big.Int), 6}, swapper, f.ledger, FallbackConfig{})

			err := in.SetBalance(ctx, token, holder, "20")
			require.ErrorIs(t, err, ErrBalanceNotSet)
			require.Empty(t, swapper.swaps)
			for _, convention := range tt.keys {
				got, err := f.ledger.StorageAt(ctx, token, SlotKey(holder, tt.index, convention).Hex())
				require.NoError(t, err)
				require.Equal(t, EncodeWord(new(big.Int)), got, "%s write not rolled back", convention)
			}
			bal, err := f.tokens.BalanceOf(ctx, token, holder)
			require.NoError(t, err)
			require.Zero(t, bal.Sign())
		})
	}
}

func TestSetBalanceFallsBackToSwap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.ledger.SetTime(1_650_000_000)
	token := f.deploy(t, evmasm.OpaqueLayout, 0, 6)
	funder := common.HexToAddress("0x00000000000000000000000000000000000000f0")
	swapper := new(fakeSwapper)

	require.NoError(t, f.injector(swapper, funder).SetBalance(ctx, token, holder, "20"))
	require.Len(t, swapper.swaps, 1)
	swap := swapper.swaps[0]
	assert.Equal(t, "20000000", swap.amountOut.String())
	assert.Equal(t, []common.Address{DefaultBridgeToken, token}, swap.path)
	assert.Equal(t, holder, swap.to)
	assert.Equal(t, "3300000000", swap.deadline.String())
	assert.Equal(t, funder, swap.opts.From)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(9), big.NewInt(params.Ether)).String(), swap.opts.Value.String())
}

func TestSetBalanceSwapFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	token := f.deploy(t, evmasm.OpaqueLayout, 0, 6)
	swapErr := errors.New("UniswapV2Router: EXCESSIVE_INPUT_AMOUNT")

	err := f.injector(&fakeSwapper{err: swapErr}, common.Address{}).SetBalance(ctx, token, holder, "20")
	require.ErrorIs(t, err, swapErr)
}

func TestSetBalancePropagatesLedgerErrors(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	backend := ledger.NewMockLedger(ctrl)
	token := common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
	nodeErr := errors.New("connection refused")

	backend.EXPECT().StorageAt(gomock.Any(), token, gomock.Any()).Return("", nodeErr)
	tokens := contracts.NewTokens(stubBalance{backend, big.NewInt(6)})
	swapper := new(fakeSwapper)
	probe := NewProbe(backend)
	in := NewInjector(probe, NewLocator(probe, tokens), tokens, swapper, backend, FallbackConfig{})

	err := in.SetBalance(ctx, token, holder, "20")
	require.ErrorIs(t, err, nodeErr)
	require.Empty(t, swapper.swaps)
}

func TestSetBalanceRejectsBadAmount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	token := f.deploy(t, evmasm.DirectLayout, 0, 6)

	err := f.injector(new(fakeSwapper), common.Address{}).SetBalance(ctx, token, holder, "0.0000001")
	require.Error(t, err)
	require.Zero(t, f.storage.reads, "locator ran for an invalid amount")
}
