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
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ERC20ABI is the subset of IERC20 the harness calls.
const ERC20ABI = `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

// PairABI is the subset of IUniswapV2Pair the harness calls, on top of ERC20ABI.
const PairABI = `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"decimals","stateMutability":"pure","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"symbol","stateMutability":"pure","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"token0","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"token1","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"getReserves","stateMutability":"view","inputs":[],"outputs":[{"name":"reserve0","type":"uint112"},{"name":"reserve1","type":"uint112"},{"name":"blockTimestampLast","type":"uint32"}]}
]`

// RouterABI is the subset of IUniswapV2Router02 the harness calls.
const RouterABI = `[
	{"type":"function","name":"factory","stateMutability":"pure","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"getAmountOut","stateMutability":"pure","inputs":[{"name":"amountIn","type":"uint256"},{"name":"reserveIn","type":"uint256"},{"name":"reserveOut","type":"uint256"}],"outputs":[{"name":"amountOut","type":"uint256"}]},
	{"type":"function","name":"swapExactTokensForTokens","stateMutability":"nonpayable","inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[{"name":"amounts","type":"uint256[]"}]},
	{"type":"function","name":"swapETHForExactTokens","stateMutability":"payable","inputs":[{"name":"amountOut","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[{"name":"amounts","type":"uint256[]"}]}
]`

// FactoryABI is the subset of IUniswapV2Factory the harness calls.
const FactoryABI = `[
	{"type":"function","name":"getPair","stateMutability":"view","inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"}],"outputs":[{"name":"pair","type":"address"}]}
]`

// StakingRewardsFactoryABI is the subset of QuickSwap's StakingRewardsFactory
// the harness calls.
const StakingRewardsFactoryABI = `[
	{"type":"function","name":"stakingRewardsInfoByStakingToken","stateMutability":"view","inputs":[{"name":"","type":"address"}],"outputs":[{"name":"stakingRewards","type":"address"},{"name":"rewardAmount","type":"uint256"},{"name":"duration","type":"uint256"}]}
]`

// TestDeFiAdapterABI is the proxy contract that holds funds and executes the
// codes an adapter returns.
const TestDeFiAdapterABI = `[
	{"type":"function","name":"testGetDepositAllCodes","stateMutability":"nonpayable","inputs":[{"name":"_underlyingToken","type":"address"},{"name":"_liquidityPool","type":"address"},{"name":"_adapter","type":"address"}],"outputs":[]},
	{"type":"function","name":"testGetWithdrawAllCodes","stateMutability":"nonpayable","inputs":[{"name":"_underlyingToken","type":"address"},{"name":"_liquidityPool","type":"address"},{"name":"_adapter","type":"address"}],"outputs":[]},
	{"type":"function","name":"getERC20TokenBalance","stateMutability":"view","inputs":[{"name":"_token","type":"address"},{"name":"_account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

// AdapterABI covers the read surface shared by adapters plus the tolerance
// controls of pool adapters.
const AdapterABI = `[
	{"type":"function","name":"getLiquidityPoolTokenBalance","stateMutability":"view","inputs":[{"name":"_vault","type":"address"},{"name":"_underlyingToken","type":"address"},{"name":"_liquidityPool","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getAllAmountInToken","stateMutability":"view","inputs":[{"name":"_vault","type":"address"},{"name":"_underlyingToken","type":"address"},{"name":"_liquidityPool","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getSomeAmountInToken","stateMutability":"view","inputs":[{"name":"_underlyingToken","type":"address"},{"name":"_liquidityPool","type":"address"},{"name":"_liquidityPoolTokenAmount","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"liquidityPoolToWantTokenToSlippage","stateMutability":"view","inputs":[{"name":"","type":"address"},{"name":"","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"liquidityPoolToTolerance","stateMutability":"view","inputs":[{"name":"","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"setLiquidityPoolToTolerance","stateMutability":"nonpayable","inputs":[{"name":"_poolTolerances","type":"tuple[]","components":[{"name":"liquidityPool","type":"address"},{"name":"tolerance","type":"uint256"}]}],"outputs":[]}
]`

// RegistryABI is the part of the adapter registry adapters consult for
// access control.
const RegistryABI = `[
	{"type":"function","name":"getOperator","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"getRiskOperator","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}
]`

var (
	erc20ABI          = mustParse(ERC20ABI)
	pairABI           = mustParse(PairABI)
	routerABI         = mustParse(RouterABI)
	factoryABI        = mustParse(FactoryABI)
	stakingFactoryABI = mustParse(StakingRewardsFactoryABI)
	proxyABI          = mustParse(TestDeFiAdapterABI)
	adapterABI        = mustParse(AdapterABI)
	registryABI       = mustParse(RegistryABI)
)

func mustParse(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}
