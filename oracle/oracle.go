// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package oracle provides USD price feeds for the native token.
package oracle

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/pledge/builtin/params"
	"github.com/vechain/pledge/pledge"
)

var errNoPrice = errors.New("price not available")

// Feed reports the latest USD price of one whole native token.
type Feed interface {
	LatestPrice() (price *big.Int, decimals uint8, err error)
}

// Fixed is a feed with a constant price.
type Fixed struct {
	Price    *big.Int
	Decimals uint8
}

// NewFixed returns a feed priced at usd whole dollars with oracle decimals.
func NewFixed(usd int64) *Fixed {
	price := new(big.Int).Mul(big.NewInt(usd), new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(pledge.OracleDecimals)), nil))
	return &Fixed{Price: price, Decimals: pledge.OracleDecimals}
}

func (f *Fixed) LatestPrice() (*big.Int, uint8, error) {
	if f.Price == nil || f.Price.Sign() <= 0 {
		return nil, 0, errNoPrice
	}
	return new(big.Int).Set(f.Price), f.Decimals, nil
}

// ParamsFeed reads the price from the params contract under pledge.KeyPriceUSD, in oracle decimals.
type ParamsFeed struct {
	params *params.Params
}

func NewParamsFeed(p *params.Params) *ParamsFeed {
	return &ParamsFeed{params: p}
}

func (f *ParamsFeed) LatestPrice() (*big.Int, uint8, error) {
	price, err := f.params.Get(pledge.KeyPriceUSD)
	if err != nil {
		return nil, 0, errors.Wrap(err, "read price")
	}
	if price.Sign() <= 0 {
		return nil, 0, errNoPrice
	}
	return price, pledge.OracleDecimals, nil
}

// USDValue converts an amount in wei into USD with 18 decimals.
func USDValue(feed Feed, amount *big.Int) (*big.Int, error) {
	price, decimals, err := feed.LatestPrice()
	if err != nil {
		return nil, errors.Wrap(err, "oracle")
	}
	if price.Sign() <= 0 {
		return nil, errNoPrice
	}
	if decimals > pledge.ValueDecimals {
		return nil, errors.Errorf("oracle decimals %d out of range", decimals)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(pledge.ValueDecimals-decimals)), nil)
	price18 := new(big.Int).Mul(price, scale)
	usd := new(big.Int).Mul(price18, amount)
	return usd.Quo(usd, pledge.Ether), nil
}
