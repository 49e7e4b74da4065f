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

import "math/big"

// basisPoints is the denominator of slippage and tolerance values.
var basisPoints = big.NewInt(10_000)

// MinimumPayout is the least underlying a full withdrawal must return.
// Half of amountOut comes back directly; the other half, plus the vault's
// other-token balance valued in underlying, is swapped back and may lose up
// to slippage basis points. remaining is the underlying the vault already
// held.
//
//	floor = amountOut/2 + (amountOut/2 + otherInUnderlying)*(10000-slippage)/10000 + remaining
func MinimumPayout(amountOut, otherInUnderlying, slippage, remaining *big.Int) *big.Int {
	half := new(big.Int).Div(amountOut, big.NewInt(2))

	swapped := new(big.Int).Add(half, otherInUnderlying)
	swapped.Mul(swapped, new(big.Int).Sub(basisPoints, slippage))
	swapped.Div(swapped, basisPoints)

	floor := new(big.Int).Add(half, swapped)
	return floor.Add(floor, remaining)
}
