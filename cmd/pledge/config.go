// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"math/big"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/pledge/builtin/staker/slashing"
	"github.com/vechain/pledge/oracle"
	"github.com/vechain/pledge/pledge"
	"github.com/vechain/pledge/runtime"
)

var (
	defaultContract = pledge.BytesToAddress([]byte("pledge"))
	defaultParams   = pledge.BytesToAddress([]byte("params"))
)

// Config describes a deployment. Flags override the file.
type Config struct {
	Contract string `yaml:"contract"`
	Params   string `yaml:"params"`
	Admin    string `yaml:"admin"`
	Signer   string `yaml:"signer"`
	Policy   string `yaml:"policy"`
	// Price is the USD price of one token as a decimal, e.g. "0.025".
	Price string `yaml:"price"`
	// Alloc funds accounts with wei amounts on first start.
	Alloc map[string]string `yaml:"alloc"`
}

func loadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode config")
	}
	return &cfg, nil
}

// applyFlags overrides file values with the flags set on the command line.
func (c *Config) applyFlags(ctx *cli.Context) {
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{contractFlag.Name, &c.Contract},
		{paramsFlag.Name, &c.Params},
		{adminFlag.Name, &c.Admin},
		{signerFlag.Name, &c.Signer},
		{policyFlag.Name, &c.Policy},
		{priceFlag.Name, &c.Price},
	} {
		if ctx.IsSet(f.name) {
			*f.dst = ctx.String(f.name)
		}
	}
}

// Options validates the config and builds the runtime options.
func (c *Config) Options() (runtime.Options, error) {
	var (
		opts runtime.Options
		err  error
	)
	if opts.Contract, err = parseAddress("contract", c.Contract, defaultContract); err != nil {
		return opts, err
	}
	if opts.Params, err = parseAddress("params", c.Params, defaultParams); err != nil {
		return opts, err
	}
	if opts.Contract == opts.Params {
		return opts, errors.New("contract and params share an address")
	}
	if c.Admin == "" {
		return opts, errors.New("admin is required")
	}
	if opts.Admin, err = parseAddress("admin", c.Admin, pledge.Address{}); err != nil {
		return opts, err
	}
	if c.Signer == "" {
		return opts, errors.New("signer is required")
	}
	if opts.Signer, err = parseAddress("signer", c.Signer, pledge.Address{}); err != nil {
		return opts, err
	}

	policy := c.Policy
	if policy == "" {
		policy = slashing.WakeUpName
	}
	if opts.Policy, err = slashing.ByName(policy); err != nil {
		return opts, err
	}

	if c.Price != "" {
		price, err := parsePrice(c.Price)
		if err != nil {
			return opts, err
		}
		opts.Feed = &oracle.Fixed{Price: price, Decimals: pledge.OracleDecimals}
	}

	if len(c.Alloc) > 0 {
		opts.Alloc = make(map[pledge.Address]*big.Int, len(c.Alloc))
		for k, v := range c.Alloc {
			addr, err := pledge.ParseAddress(k)
			if err != nil {
				return opts, errors.WithMessagef(err, "alloc %v", k)
			}
			amount, ok := new(big.Int).SetString(v, 0)
			if !ok || amount.Sign() < 0 {
				return opts, errors.Errorf("alloc %v: invalid amount %q", k, v)
			}
			opts.Alloc[*addr] = amount
		}
	}
	return opts, nil
}

func parseAddress(name, s string, def pledge.Address) (pledge.Address, error) {
	if s == "" {
		return def, nil
	}
	addr, err := pledge.ParseAddress(s)
	if err != nil {
		return pledge.Address{}, errors.WithMessage(err, name)
	}
	if addr.IsZero() {
		return pledge.Address{}, errors.Errorf("%v: zero address", name)
	}
	return *addr, nil
}

// parsePrice converts a decimal USD price into oracle units.
func parsePrice(s string) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, errors.Errorf("invalid price %q", s)
	}
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(pledge.OracleDecimals)), nil)
	r.Mul(r, new(big.Rat).SetInt(unit))
	if !r.IsInt() {
		return nil, errors.Errorf("price %q has more than %d decimals", s, pledge.OracleDecimals)
	}
	if r.Sign() <= 0 {
		return nil, errors.Errorf("price %q must be positive", s)
	}
	return new(big.Int).Set(r.Num()), nil
}
