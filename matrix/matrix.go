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

// Package matrix enumerates adapter scenarios from static fixtures and runs
// them one after another against a shared ledger.
package matrix

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/optyfi/adapterharness/verifier"
)

// Pair is an unordered pair of distinct tokens.
type Pair struct {
	A, B Token
}

// Pairs returns every pair group[i], group[j] with i < j, in order.
func Pairs(group []Token) []Pair {
	var pairs []Pair
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			pairs = append(pairs, Pair{A: group[i], B: group[j]})
		}
	}
	return pairs
}

// Membership is an underlying token that is a constituent of a pool.
type Membership struct {
	Symbol string
	Pool   verifier.Pool
}

// PoolMemberships cross-references pools with underlying tokens. For each
// pool in order, token0 is matched before token1, and every underlying
// symbol at that address is returned in declaration order.
func PoolMemberships(pools []verifier.Pool, underlying []Token) []Membership {
	var out []Membership
	for _, pool := range pools {
		for _, constituent := range [...]common.Address{pool.Token0, pool.Token1} {
			for _, t := range underlying {
				if t.Address == constituent {
					out = append(out, Membership{Symbol: t.Symbol, Pool: pool})
				}
			}
		}
	}
	return out
}
