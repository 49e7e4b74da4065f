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

package matrix

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/optyfi/adapterharness/verifier"
)

//go:embed fixtures/*.yaml
var embedded embed.FS

// Fixture file names inside a fixture directory.
const (
	tokensFile     = "tokens.yaml"
	poolsFile      = "pools.yaml"
	underlyingFile = "underlying.yaml"
	groupsFile     = "groups.yaml"
)

// Token is a symbol and its address.
type Token struct {
	Symbol  string
	Address common.Address
}

// Group is a named list of tokens farm pairs are drawn from.
type Group struct {
	Name   string
	Tokens []Token
}

// Fixtures is the static data scenarios are enumerated from. Every list
// keeps the order of its file.
type Fixtures struct {
	Tokens     []Token
	Pools      []verifier.Pool
	Underlying []Token
	Groups     []Group
}

// Symbols maps every known symbol to its address.
func (f *Fixtures) Symbols() map[string]common.Address {
	out := make(map[string]common.Address, len(f.Tokens)+len(f.Underlying))
	for _, list := range [][]Token{f.Tokens, f.Underlying} {
		for _, t := range list {
			out[t.Symbol] = t.Address
		}
	}
	return out
}

// DefaultFixtures returns the fixtures compiled into the binary.
func DefaultFixtures() (*Fixtures, error) {
	sub, err := fs.Sub(embedded, "fixtures")
	if err != nil {
		return nil, err
	}
	return LoadFixtures(sub)
}

// LoadFixtures reads the four fixture files from fsys.
func LoadFixtures(fsys fs.FS) (*Fixtures, error) {
	f := new(Fixtures)
	var err error
	if f.Tokens, err = loadTokens(fsys, tokensFile); err != nil {
		return nil, err
	}
	if f.Underlying, err = loadTokens(fsys, underlyingFile); err != nil {
		return nil, err
	}
	if f.Pools, err = loadPools(fsys); err != nil {
		return nil, err
	}
	if f.Groups, err = loadGroups(fsys, f.Symbols()); err != nil {
		return nil, err
	}
	return f, nil
}

// readMapping parses file as a YAML mapping and calls fn for every entry in
// document order.
func readMapping(fsys fs.FS, file string, fn func(key string, value *yaml.Node) error) error {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	if len(doc.Content) == 0 {
		return fmt.Errorf("%s: empty document", file)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("%s: line %d: expected a mapping", file, root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if err := fn(key.Value, value); err != nil {
			return fmt.Errorf("%s: line %d: %s: %w", file, key.Line, key.Value, err)
		}
	}
	return nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func loadTokens(fsys fs.FS, file string) ([]Token, error) {
	var tokens []Token
	err := readMapping(fsys, file, func(symbol string, value *yaml.Node) error {
		var raw string
		if err := value.Decode(&raw); err != nil {
			return err
		}
		addr, err := parseAddress(raw)
		if err != nil {
			return err
		}
		tokens = append(tokens, Token{Symbol: symbol, Address: addr})
		return nil
	})
	return tokens, err
}

type poolEntry struct {
	Pool       string `yaml:"pool"`
	Token0     string `yaml:"token0"`
	Token1     string `yaml:"token1"`
	Slippage   uint64 `yaml:"slippage"`
	Deprecated bool   `yaml:"deprecated"`
}

func loadPools(fsys fs.FS) ([]verifier.Pool, error) {
	var pools []verifier.Pool
	err := readMapping(fsys, poolsFile, func(name string, value *yaml.Node) error {
		var entry poolEntry
		if err := value.Decode(&entry); err != nil {
			return err
		}
		pool := verifier.Pool{Name: name, Slippage: entry.Slippage, Deprecated: entry.Deprecated}
		var err error
		if pool.Address, err = parseAddress(entry.Pool); err != nil {
			return fmt.Errorf("pool: %w", err)
		}
		if pool.Token0, err = parseAddress(entry.Token0); err != nil {
			return fmt.Errorf("token0: %w", err)
		}
		if pool.Token1, err = parseAddress(entry.Token1); err != nil {
			return fmt.Errorf("token1: %w", err)
		}
		if pool.Token0 == pool.Token1 {
			return errors.New("token0 equals token1")
		}
		pools = append(pools, pool)
		return nil
	})
	return pools, err
}

func loadGroups(fsys fs.FS, symbols map[string]common.Address) ([]Group, error) {
	var groups []Group
	err := readMapping(fsys, groupsFile, func(name string, value *yaml.Node) error {
		var members []string
		if err := value.Decode(&members); err != nil {
			return err
		}
		group := Group{Name: name}
		for _, symbol := range members {
			addr, ok := symbols[symbol]
			if !ok {
				return fmt.Errorf("unknown token %q", symbol)
			}
			group.Tokens = append(group.Tokens, Token{Symbol: symbol, Address: addr})
		}
		groups = append(groups, group)
		return nil
	})
	return groups, err
}
