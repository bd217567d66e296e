// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/pledge/cry"
	"github.com/vechain/pledge/pledge"
)

const devAccountCount = 5

// DevAccount is a deterministic funded account of the dev network.
type DevAccount struct {
	Address    pledge.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts = func() []DevAccount {
	accounts := make([]DevAccount, 0, devAccountCount)
	for i := range devAccountCount {
		seed := pledge.Keccak256([]byte(fmt.Sprintf("pledge/dev/%d", i)))
		key, err := crypto.ToECDSA(seed[:])
		if err != nil {
			panic(err)
		}
		accounts = append(accounts, DevAccount{
			Address:    cry.PubkeyToAddress(&key.PublicKey),
			PrivateKey: key,
		})
	}
	return accounts
}()

// applyDevDefaults fills what the config leaves unset. The first dev account
// administers the contract and the second signs outcomes.
func (c *Config) applyDevDefaults() {
	if c.Admin == "" {
		c.Admin = devAccounts[0].Address.String()
	}
	if c.Signer == "" {
		c.Signer = devAccounts[1].Address.String()
	}
	if c.Price == "" {
		c.Price = "1"
	}
	if len(c.Alloc) == 0 {
		funds := new(big.Int).Mul(big.NewInt(10000), pledge.Ether).String()
		c.Alloc = make(map[string]string, devAccountCount+1)
		for _, acc := range devAccounts {
			c.Alloc[acc.Address.String()] = funds
		}
		contract := defaultContract
		if c.Contract != "" {
			if addr, err := pledge.ParseAddress(c.Contract); err == nil {
				contract = *addr
			}
		}
		// reward reserve
		c.Alloc[contract.String()] = funds
	}
}
