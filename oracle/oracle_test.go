// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package oracle

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/pledge/builtin/params"
	"github.com/vechain/pledge/lvldb"
	"github.com/vechain/pledge/pledge"
	"github.com/vechain/pledge/state"
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), pledge.Ether)
}

func TestUSDValue(t *testing.T) {
	tests := []struct {
		name   string
		feed   Feed
		amount *big.Int
		want   *big.Int
	}{
		{"one token at 2 usd", NewFixed(2), ether(1), ether(2)},
		{"half token at 3 usd", NewFixed(3), new(big.Int).Div(ether(1), big.NewInt(2)), new(big.Int).Div(ether(3), big.NewInt(2))},
		{"18 decimals feed", &Fixed{Price: ether(5), Decimals: 18}, ether(2), ether(10)},
		{"zero amount", NewFixed(2), new(big.Int), new(big.Int)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := USDValue(tt.feed, tt.amount)
			require.NoError(t, err)
			assert.Equal(t, 0, tt.want.Cmp(got), "want %v got %v", tt.want, got)
		})
	}
}

func TestUSDValueErrors(t *testing.T) {
	_, err := USDValue(&Fixed{}, ether(1))
	assert.Error(t, err)

	_, err = USDValue(&Fixed{Price: big.NewInt(1), Decimals: 19}, ether(1))
	assert.Error(t, err)
}

func TestParamsFeed(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	p := params.New(pledge.BytesToAddress([]byte("params")), state.New(db, nil))
	feed := NewParamsFeed(p)

	_, _, err = feed.LatestPrice()
	assert.Error(t, err)

	require.NoError(t, p.Set(pledge.KeyPriceUSD, big.NewInt(150_000_000)))
	price, decimals, err := feed.LatestPrice()
	require.NoError(t, err)
	assert.Equal(t, int64(150_000_000), price.Int64())
	assert.Equal(t, pledge.OracleDecimals, decimals)

	usd, err := USDValue(feed, ether(2))
	require.NoError(t, err)
	assert.Equal(t, 0, ether(3).Cmp(usd))
}
